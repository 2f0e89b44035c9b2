package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"content-assistant/internal/assistant"
	"content-assistant/internal/llm"
)

// renderResults prints each operation that ran as a titled panel. Failed
// operations use the failure panel.
func renderResults(w io.Writer, res assistant.Results) {
	fmt.Fprintln(w, headingStyle.Render("Results:"))
	if res.Summary != nil {
		fmt.Fprintln(w, textPanel("Summary", *res.Summary, summaryPanel))
	}
	if res.Titles != nil {
		fmt.Fprintln(w, listPanelFor("Generated Titles", *res.Titles, func(i int) string { return fmt.Sprintf("%d. ", i+1) }))
	}
	if res.Answer != nil {
		fmt.Fprintln(w, textPanel("Q&A", *res.Answer, answerPanel))
	}
	if res.Recommendations != nil {
		fmt.Fprintln(w, listPanelFor("Recommendations", *res.Recommendations, func(int) string { return "• " }))
	}
}

func textPanel(title string, r llm.Result, style lipgloss.Style) string {
	if !r.OK() {
		return failurePanel.Render(headingStyle.Render(title) + "\n" + errorStyle.Render(r.String()))
	}
	return style.Render(headingStyle.Render(title) + "\n" + r.Text + backendNote(r.Backend))
}

func listPanelFor(title string, r assistant.ListResult, bullet func(int) string) string {
	if !r.OK() {
		return failurePanel.Render(headingStyle.Render(title) + "\n" + errorStyle.Render(r.Failure.Message()))
	}
	lines := make([]string, 0, len(r.Items))
	for i, item := range r.Items {
		lines = append(lines, bullet(i)+item)
	}
	return listPanel.Render(headingStyle.Render(title) + "\n" + strings.Join(lines, "\n") + backendNote(r.Backend))
}

func backendNote(backend string) string {
	if backend == "" {
		return ""
	}
	return "\n" + backendStyle.Render("via "+backend)
}

// writeJSON prints the flattened results plus an overall ok flag.
func writeJSON(w io.Writer, res assistant.Results) error {
	out := res.Map()
	out["ok"] = res.OK()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
