package main

import (
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"content-assistant/internal/app"
	"content-assistant/internal/assistant"
	"content-assistant/internal/config"
	"content-assistant/internal/document"
	"content-assistant/internal/logger"
	"content-assistant/internal/passage"
)

var errEmptyContent = errors.New("empty content provided")

// buildDeps wires the runtime. Tests replace it with a mock-backed service.
var buildDeps = app.Build

type inputFlags struct {
	file string
	text string
}

type rootFlags struct {
	input           inputFlags
	summarize       bool
	titles          bool
	question        string
	recommendations bool
	all             bool
	forceFallback   bool
	jsonOut         bool
	debug           bool
}

func newRootCmd() *cobra.Command {
	var f rootFlags
	cmd := &cobra.Command{
		Use:          "assistant",
		Short:        "AI content assistant",
		Long:         "Summarize content, suggest titles, answer questions and recommend actions using a hosted LLM with a local fallback.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProcess(cmd, f)
		},
	}

	addInputFlags(cmd, &f.input)
	cmd.Flags().BoolVarP(&f.summarize, "summarize", "s", false, "summarize content")
	cmd.Flags().BoolVarP(&f.titles, "titles", "l", false, "generate titles")
	cmd.Flags().StringVarP(&f.question, "question", "q", "", "ask a question about the content")
	cmd.Flags().BoolVarP(&f.recommendations, "recommendations", "r", false, "generate recommendations")
	cmd.Flags().BoolVarP(&f.all, "all", "a", false, "run all functions")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "print results as JSON")
	cmd.PersistentFlags().BoolVar(&f.forceFallback, "force-fallback", false, "force using the fallback model")
	cmd.PersistentFlags().BoolVar(&f.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newReportCmd(&f))
	cmd.AddCommand(newCacheCmd(&f))
	return cmd
}

func addInputFlags(cmd *cobra.Command, in *inputFlags) {
	cmd.Flags().StringVarP(&in.file, "file", "f", "", "path to content file (.txt or .pdf)")
	cmd.Flags().StringVarP(&in.text, "text", "t", "", "direct text input")
	cmd.MarkFlagsMutuallyExclusive("file", "text")
	cmd.MarkFlagsOneRequired("file", "text")
}

func (f rootFlags) selection() assistant.Selection {
	return assistant.Selection{
		Summary:         f.summarize,
		Titles:          f.titles,
		Question:        f.question,
		Recommendations: f.recommendations,
		All:             f.all,
	}
}

// setup loads config, applies the shared flags and wires dependencies.
func setup(cmd *cobra.Command, f rootFlags) (app.Deps, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return app.Deps{}, err
	}
	level := cfg.LogLevel
	if f.debug {
		level = "debug"
	}
	log := logger.NewConsole(cmd.ErrOrStderr(), level)

	if f.forceFallback {
		cfg.ForceFallbackRaw = "true"
		fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render("Forcing use of fallback model"))
	}
	warnMissingKey(cmd.ErrOrStderr(), cfg)

	return buildDeps(cfg, log)
}

func warnMissingKey(w io.Writer, cfg config.Config) {
	if cfg.OpenAIKey != "" || cfg.ForceFallback() {
		return
	}
	fmt.Fprintln(w, warnStyle.Render("Warning: OPENAI_API_KEY environment variable not set."))
	fmt.Fprintln(w, warnStyle.Render("Set it in the .env file or use the fallback model with FORCE_FALLBACK=true."))
}

func readContent(in inputFlags) (string, error) {
	if in.file != "" {
		return document.ReadFile(in.file)
	}
	return in.text, nil
}

func runProcess(cmd *cobra.Command, f rootFlags) error {
	content, err := readContent(f.input)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	if passage.IsBlank(content) {
		return errEmptyContent
	}

	sel := f.selection()
	if sel.Empty() {
		fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render("No processing options selected. Use --help to see available options."))
		return nil
	}

	deps, err := setup(cmd, f)
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(cmd.ErrOrStderr(), headingStyle.Render("Processing content..."))
	results := deps.Assistant.Process(ctx, content, sel)
	deps.Log.Debug("processing finished", "ok", results.OK())

	if f.jsonOut {
		return writeJSON(cmd.OutOrStdout(), results)
	}
	renderResults(cmd.OutOrStdout(), results)
	return nil
}
