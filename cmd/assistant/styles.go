package main

import "github.com/charmbracelet/lipgloss"

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	backendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true)

	summaryPanel = panel("2") // green
	answerPanel  = panel("4") // blue
	listPanel    = panel("6") // cyan
	failurePanel = panel("1") // red
)

func panel(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(color)).
		Padding(0, 1).
		Width(80)
}
