package assistant

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"content-assistant/internal/llm"
)

func newTestService(inv llm.Invoker, opts Options) *Service {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), inv, opts)
}

func TestEmptyInputNeverCallsBackends(t *testing.T) {
	ctx := context.Background()
	for _, text := range []string{"", "   ", "\n\t"} {
		primary := llm.NewMockCompleter("openai")
		secondary := llm.NewMockCompleter("local")
		inv := llm.NewFallbackInvoker(slog.New(slog.NewTextHandler(io.Discard, nil)), primary, secondary, nil, llm.Options{})
		svc := newTestService(inv, Options{})

		failures := map[string]*llm.Failure{
			"summary":         svc.Summarize(ctx, text).Failure,
			"titles":          svc.GenerateTitles(ctx, text, 3).Failure,
			"answer":          svc.AnswerQuestion(ctx, text, "Why?").Failure,
			"recommendations": svc.Recommend(ctx, text, 2).Failure,
		}

		for name, f := range failures {
			require.NotNil(t, f, name)
			assert.Equal(t, llm.FailureEmptyInput, f.Kind, name)
			assert.True(t, strings.HasPrefix(f.Message(), "Error: No content provided"), "%s: %q", name, f.Message())
		}
		primary.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
		secondary.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestOperationTemperaturesAndPrompts(t *testing.T) {
	ctx := context.Background()
	inv := new(llm.MockInvoker)
	inv.On("Invoke", mock.Anything, mock.MatchedBy(func(p string) bool { return strings.Contains(p, "Summarize") }), SummaryTemperature).
		Return(llm.Success("A summary.", "openai")).Once()
	inv.On("Invoke", mock.Anything, mock.MatchedBy(func(p string) bool { return strings.Contains(p, "Generate 5 creative") }), TitlesTemperature).
		Return(llm.Success("T1\nT2", "openai")).Once()
	inv.On("Invoke", mock.Anything, mock.MatchedBy(func(p string) bool { return strings.Contains(p, "Q: Who?") }), AnswerTemperature).
		Return(llm.Success("Nobody.", "openai")).Once()
	inv.On("Invoke", mock.Anything, mock.MatchedBy(func(p string) bool { return strings.Contains(p, "Give 2 actionable") }), RecommendationsTemperature).
		Return(llm.Success("R1", "local")).Once()

	svc := newTestService(inv, Options{})

	assert.Equal(t, "A summary.", svc.Summarize(ctx, "text").Text)
	assert.Equal(t, []string{"T1", "T2"}, svc.GenerateTitles(ctx, "text", 5).Items)
	assert.Equal(t, "Nobody.", svc.AnswerQuestion(ctx, "text", "Who?").Text)
	recs := svc.Recommend(ctx, "text", 0)
	assert.Equal(t, []string{"R1"}, recs.Items)
	assert.Equal(t, "local", recs.Backend)

	inv.AssertExpectations(t)
}

func TestListOperationsSplitLines(t *testing.T) {
	inv := new(llm.MockInvoker)
	inv.On("Invoke", mock.Anything, mock.Anything, TitlesTemperature).
		Return(llm.Success("Title A\n\nTitle B\n  \nTitle C", "openai")).Once()

	res := newTestService(inv, Options{}).GenerateTitles(context.Background(), "text", 3)

	require.True(t, res.OK())
	assert.Equal(t, []string{"Title A", "Title B", "Title C"}, res.Items)
}

func TestListOperationsDoNotEnforceCount(t *testing.T) {
	inv := new(llm.MockInvoker)
	inv.On("Invoke", mock.Anything, mock.Anything, RecommendationsTemperature).
		Return(llm.Success("one\ntwo\nthree\nfour", "openai")).Once()

	res := newTestService(inv, Options{}).Recommend(context.Background(), "text", 2)

	assert.Len(t, res.Items, 4)
}

func TestListOperationFailure(t *testing.T) {
	inv := new(llm.MockInvoker)
	inv.On("Invoke", mock.Anything, mock.Anything, TitlesTemperature).
		Return(llm.Fail(llm.FailureBothBackendsFailed, "oom")).Once()

	res := newTestService(inv, Options{}).GenerateTitles(context.Background(), "text", 3)

	assert.False(t, res.OK())
	assert.Nil(t, res.Items)
	assert.Equal(t, []string{"Error: Both primary and fallback LLM calls failed. oom"}, res.Strings())
}

func TestAnswerQuestionRequiresQuestion(t *testing.T) {
	inv := new(llm.MockInvoker)

	res := newTestService(inv, Options{}).AnswerQuestion(context.Background(), "text", "  ")

	assert.False(t, res.OK())
	assert.Equal(t, "Error: No question provided.", res.String())
	inv.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything, mock.Anything)
}

func TestMaxInputWordsCapsPassage(t *testing.T) {
	inv := new(llm.MockInvoker)
	inv.On("Invoke", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "one two\n") && !strings.Contains(p, "three")
	}), SummaryTemperature).Return(llm.Success("short", "openai")).Once()

	res := newTestService(inv, Options{MaxInputWords: 2}).Summarize(context.Background(), "one two three four")

	assert.Equal(t, "short", res.Text)
	inv.AssertExpectations(t)
}
