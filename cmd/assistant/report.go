package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"content-assistant/internal/passage"
	"content-assistant/internal/report"
)

func newReportCmd(root *rootFlags) *cobra.Command {
	var (
		in    inputFlags
		out   string
		pause time.Duration
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run every operation on the input and write a markdown report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := readContent(in)
			if err != nil {
				return fmt.Errorf("reading file: %w", err)
			}
			if passage.IsBlank(content) {
				return errEmptyContent
			}

			deps, err := setup(cmd, *root)
			if err != nil {
				return err
			}
			defer deps.Close()

			env := report.Environment{
				PrimaryAvailable: deps.Config.OpenAIKey != "",
				ForceFallback:    deps.Config.ForceFallback(),
				PrimaryModel:     deps.Config.LLMModel,
				LocalModel:       deps.Config.LocalLLMModel,
			}
			fmt.Fprintln(cmd.ErrOrStderr(), headingStyle.Render("Generating report..."))
			rep, err := report.Collect(cmd.Context(), deps.Assistant, in.file, content, env, pause)
			if err != nil {
				return err
			}
			path, err := report.WriteFile(out, rep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report generated: %s\n", path)
			return nil
		},
	}
	addInputFlags(cmd, &in)
	cmd.Flags().StringVarP(&out, "out", "o", "report", "directory to write the report to")
	cmd.Flags().DurationVar(&pause, "pause", time.Second, "delay between individual runs")
	return cmd
}
