// Package report renders a markdown walkthrough of every content operation
// run against one input.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"content-assistant/internal/assistant"
)

const fileTimeLayout = "2006-01-02_15-04-05"

// Processor runs a selection of operations.
type Processor interface {
	Process(ctx context.Context, text string, sel assistant.Selection) assistant.Results
}

// Environment describes the runtime the report was produced in.
type Environment struct {
	PrimaryAvailable bool
	ForceFallback    bool
	PrimaryModel     string
	LocalModel       string
}

// Section is one labelled run.
type Section struct {
	Name      string
	Selection assistant.Selection
	Results   assistant.Results
}

// Report is the collected output of a full run.
type Report struct {
	GeneratedAt time.Time
	Source      string
	Content     string
	Env         Environment
	All         Section
	Individual  []Section
}

// Runs lists the individual operations exercised after the combined run.
func Runs() []Section {
	return []Section{
		{Name: "Summary Only", Selection: assistant.Selection{Summary: true}},
		{Name: "Titles Only", Selection: assistant.Selection{Titles: true}},
		{Name: "Question Only", Selection: assistant.Selection{Question: assistant.DefaultQuestion}},
		{Name: "Recommendations Only", Selection: assistant.Selection{Recommendations: true}},
	}
}

// Collect runs all operations together and then one by one. pause is waited
// between individual runs to stay under hosted rate limits.
func Collect(ctx context.Context, p Processor, source, content string, env Environment, pause time.Duration) (Report, error) {
	rep := Report{
		GeneratedAt: time.Now(),
		Source:      source,
		Content:     content,
		Env:         env,
		All:         Section{Name: "Running with all functions", Selection: assistant.Selection{All: true}},
	}
	rep.All.Results = p.Process(ctx, content, rep.All.Selection)

	for i, sec := range Runs() {
		if i > 0 && pause > 0 {
			select {
			case <-ctx.Done():
				return rep, ctx.Err()
			case <-time.After(pause):
			}
		}
		sec.Results = p.Process(ctx, content, sec.Selection)
		rep.Individual = append(rep.Individual, sec)
	}
	return rep, nil
}

// WriteMarkdown renders rep to w.
func WriteMarkdown(w io.Writer, rep Report) error {
	var b strings.Builder
	b.WriteString("# AI Content Assistant Report\n\n")
	fmt.Fprintf(&b, "## Report Generated: %s\n\n", rep.GeneratedAt.Format(time.DateTime))

	b.WriteString("## Environment\n\n")
	fmt.Fprintf(&b, "- Go Version: %s\n", runtime.Version())
	fmt.Fprintf(&b, "- Operating System: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&b, "- OpenAI API Available: %s\n", yesNo(rep.Env.PrimaryAvailable))
	fmt.Fprintf(&b, "- Forced Fallback: %s\n", yesNo(rep.Env.ForceFallback))
	if rep.Env.PrimaryModel != "" {
		fmt.Fprintf(&b, "- Primary Model: %s\n", rep.Env.PrimaryModel)
	}
	if rep.Env.LocalModel != "" {
		fmt.Fprintf(&b, "- Fallback Model: %s\n", rep.Env.LocalModel)
	}
	b.WriteString("\n")

	b.WriteString("## Sample Content\n\n")
	if rep.Source != "" {
		fmt.Fprintf(&b, "Source: `%s`\n\n", rep.Source)
	}
	fence(&b, strings.TrimRight(rep.Content, "\n"))

	b.WriteString("## Assistant Output\n\n")
	writeSection(&b, rep.All)

	b.WriteString("## Individual Function Tests\n\n")
	for _, sec := range rep.Individual {
		writeSection(&b, sec)
	}

	b.WriteString("## Summary\n\n")
	failed := rep.failedRuns()
	if len(failed) == 0 {
		b.WriteString("All operations completed successfully:\n\n")
	} else {
		fmt.Fprintf(&b, "Some operations failed (%s). Successful operations produced:\n\n", strings.Join(failed, ", "))
	}
	b.WriteString("1. Concise summaries that capture the main points\n")
	b.WriteString("2. Title suggestions for the content\n")
	b.WriteString("3. Answers to specific questions grounded in the content\n")
	b.WriteString("4. Actionable recommendations based on the content\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteFile writes rep under dir as content_assistant_report_<timestamp>.md
// and returns the path.
func WriteFile(dir string, rep Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, "content_assistant_report_"+rep.GeneratedAt.Format(fileTimeLayout)+".md")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	if err := WriteMarkdown(f, rep); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}
	return path, nil
}

func (r Report) failedRuns() []string {
	var out []string
	if !r.All.Results.OK() {
		out = append(out, r.All.Name)
	}
	for _, sec := range r.Individual {
		if !sec.Results.OK() {
			out = append(out, sec.Name)
		}
	}
	return out
}

func writeSection(b *strings.Builder, sec Section) {
	fmt.Fprintf(b, "### %s\n\n", sec.Name)
	fmt.Fprintf(b, "Options: `%s`\n\n", flags(sec.Selection))
	fence(b, FormatText(sec.Results))
}

// FormatText renders results as plain text in execution order.
func FormatText(res assistant.Results) string {
	var b strings.Builder
	if res.Summary != nil {
		fmt.Fprintf(&b, "Summary:\n%s\n\n", res.Summary.String())
	}
	if res.Titles != nil {
		b.WriteString("Generated Titles:\n")
		for i, t := range res.Titles.Strings() {
			fmt.Fprintf(&b, "%d. %s\n", i+1, t)
		}
		b.WriteString("\n")
	}
	if res.Answer != nil {
		fmt.Fprintf(&b, "Q&A:\n%s\n\n", res.Answer.String())
	}
	if res.Recommendations != nil {
		b.WriteString("Recommendations:\n")
		for _, r := range res.Recommendations.Strings() {
			fmt.Fprintf(&b, "- %s\n", r)
		}
		b.WriteString("\n")
	}
	if res.Empty() {
		return "No processing options selected."
	}
	return strings.TrimRight(b.String(), "\n")
}

func flags(sel assistant.Selection) string {
	var parts []string
	if sel.All {
		parts = append(parts, "--all")
	}
	if sel.Summary {
		parts = append(parts, "--summarize")
	}
	if sel.Titles {
		parts = append(parts, "--titles")
	}
	if sel.Question != "" {
		parts = append(parts, fmt.Sprintf("--question %q", sel.Question))
	}
	if sel.Recommendations {
		parts = append(parts, "--recommendations")
	}
	return strings.Join(parts, " ")
}

func fence(b *strings.Builder, body string) {
	b.WriteString("```\n")
	b.WriteString(body)
	b.WriteString("\n```\n\n")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
