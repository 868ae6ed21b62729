package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the monitor styles
var Theme = struct {
	App      lipgloss.Style
	Title    lipgloss.Style
	Subtle   lipgloss.Style
	Moved    lipgloss.Style
	Skipped  lipgloss.Style
	Failed   lipgloss.Style
	Category lipgloss.Style
	Help     lipgloss.Style
}{
	App: lipgloss.NewStyle().
		Padding(1, 2),
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#7B61FF")).
		Padding(0, 1),
	Subtle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#959595")),
	Moved: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#73F59F")).
		Bold(true),
	Skipped: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666666")),
	Failed: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF5F87")).
		Bold(true),
	Category: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#81A1C1")).
		Width(12),
	Help: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5A9")),
}
