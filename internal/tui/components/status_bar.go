package components

import (
	"dlsort/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type StatusBar struct {
	text    string
	style   lipgloss.Style
	spinner spinner.Model
	loading bool
}

func NewStatusBar() *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Theme.Help

	return &StatusBar{
		style:   styles.Theme.Subtle,
		spinner: s,
	}
}

func (s *StatusBar) SetLoading(loading bool) {
	s.loading = loading
}

func (s *StatusBar) Loading() bool {
	return s.loading
}

func (s *StatusBar) SetText(text string) {
	s.text = text
}

func (s *StatusBar) Text() string {
	return s.text
}

// Tick starts the spinner animation
func (s *StatusBar) Tick() tea.Cmd {
	return s.spinner.Tick
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

func (s *StatusBar) View() string {
	if s.text == "" && !s.loading {
		return ""
	}

	if s.loading {
		return s.spinner.View() + " " + s.style.Render(s.text)
	}
	return "  " + s.style.Render(s.text)
}
