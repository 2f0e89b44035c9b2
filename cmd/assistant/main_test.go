package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"content-assistant/internal/app"
	"content-assistant/internal/assistant"
	"content-assistant/internal/cache"
	"content-assistant/internal/config"
	"content-assistant/internal/llm"
)

// stubDeps swaps buildDeps for one backed by inv and records the config it
// was called with.
func stubDeps(t *testing.T, inv llm.Invoker, c cache.Cache) *config.Config {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	var got config.Config
	orig := buildDeps
	t.Cleanup(func() { buildDeps = orig })
	buildDeps = func(cfg config.Config, _ *slog.Logger) (app.Deps, error) {
		got = cfg
		log := slog.New(slog.NewTextHandler(io.Discard, nil))
		return app.Deps{Config: cfg, Log: log, Cache: c, Assistant: assistant.New(log, inv, assistant.Options{})}, nil
	}
	return &got
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestProcessJSON(t *testing.T) {
	inv := new(llm.MockInvoker)
	inv.On("Invoke", mock.Anything, mock.Anything, assistant.SummaryTemperature).Return(llm.Success("Short summary.", "openai"))
	inv.On("Invoke", mock.Anything, mock.Anything, assistant.TitlesTemperature).Return(llm.Success("One\n\nTwo", "openai"))
	stubDeps(t, inv, nil)

	stdout, _, err := execute(t, "--text", "Wellness programs help.", "-s", "-l", "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "Short summary.", got["summary"])
	assert.Equal(t, []any{"One", "Two"}, got["titles"])
	assert.Equal(t, true, got["ok"])
	inv.AssertNumberOfCalls(t, "Invoke", 2)
}

func TestProcessRendersFailures(t *testing.T) {
	inv := new(llm.MockInvoker)
	inv.On("Invoke", mock.Anything, mock.Anything, assistant.AnswerTemperature).
		Return(llm.Fail(llm.FailureBothBackendsFailed, "offline"))
	stubDeps(t, inv, nil)

	stdout, _, err := execute(t, "-t", "Some content.", "-q", "Why?")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Q&A")
	assert.Contains(t, stdout, "Error: Both primary and fallback LLM calls failed. offline")
}

func TestProcessEmptyContent(t *testing.T) {
	inv := new(llm.MockInvoker)
	stubDeps(t, inv, nil)

	_, _, err := execute(t, "-t", "   ", "-s")
	assert.ErrorIs(t, err, errEmptyContent)
	inv.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessNoSelection(t *testing.T) {
	inv := new(llm.MockInvoker)
	stubDeps(t, inv, nil)

	_, stderr, err := execute(t, "-t", "Some content.")
	require.NoError(t, err)
	assert.Contains(t, stderr, "No processing options selected")
	inv.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessInputFlags(t *testing.T) {
	stubDeps(t, new(llm.MockInvoker), nil)

	_, _, err := execute(t, "-s")
	assert.Error(t, err, "one of --file or --text is required")

	_, _, err = execute(t, "-t", "x", "-f", "y.txt", "-s")
	assert.Error(t, err, "--file and --text are mutually exclusive")
}

func TestProcessFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample_content.txt")
	require.NoError(t, os.WriteFile(path, []byte("Wellness programs reduce costs."), 0o600))

	inv := new(llm.MockInvoker)
	inv.On("Invoke", mock.Anything, mock.MatchedBy(func(p string) bool {
		return bytes.Contains([]byte(p), []byte("Wellness programs reduce costs."))
	}), assistant.SummaryTemperature).Return(llm.Success("Costs go down.", "local"))
	stubDeps(t, inv, nil)

	stdout, _, err := execute(t, "-f", path, "-s")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Costs go down.")
	assert.Contains(t, stdout, "via local")
}

func TestForceFallbackFlag(t *testing.T) {
	inv := new(llm.MockInvoker)
	inv.On("Invoke", mock.Anything, mock.Anything, mock.Anything).Return(llm.Success("ok", "local"))
	cfg := stubDeps(t, inv, nil)

	_, stderr, err := execute(t, "-t", "content", "-s", "--force-fallback")
	require.NoError(t, err)
	assert.True(t, cfg.ForceFallback())
	assert.Contains(t, stderr, "Forcing use of fallback model")
}

func TestMissingKeyWarning(t *testing.T) {
	var buf bytes.Buffer
	warnMissingKey(&buf, config.Config{})
	assert.Contains(t, buf.String(), "OPENAI_API_KEY")

	buf.Reset()
	warnMissingKey(&buf, config.Config{ForceFallbackRaw: "true"})
	assert.Empty(t, buf.String())

	buf.Reset()
	warnMissingKey(&buf, config.Config{OpenAIKey: "sk"})
	assert.Empty(t, buf.String())
}

func TestReportCommand(t *testing.T) {
	inv := new(llm.MockInvoker)
	inv.On("Invoke", mock.Anything, mock.Anything, mock.Anything).Return(llm.Success("Line", "openai"))
	stubDeps(t, inv, nil)
	out := filepath.Join(t.TempDir(), "report")

	stdout, _, err := execute(t, "report", "-t", "Wellness content.", "--out", out, "--pause", "0s")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Report generated: ")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "content_assistant_report_")
	// all four operations, then each one individually
	inv.AssertNumberOfCalls(t, "Invoke", 8)
}

func TestCachePurgeCommand(t *testing.T) {
	c := new(cache.MockCache)
	c.On("Purge", mock.Anything).Return(nil)
	c.On("Close").Return(nil)
	stubDeps(t, new(llm.MockInvoker), c)

	stdout, _, err := execute(t, "cache", "purge")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Cache purged.")
	c.AssertExpectations(t)
}
