// Package tui is the live monitor shown by `dlsort run --tui`: a spinner
// while the driver runs, running totals, per-category counts and the most
// recent outcomes.
package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"dlsort/internal/report"
	"dlsort/internal/tui/components"
	"dlsort/internal/tui/messages"
	"dlsort/internal/tui/styles"
	"dlsort/pkg/types"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxRecent is the number of outcomes kept on screen
const MaxRecent = 10

const defaultWidth = 80

// Model is the monitor state
type Model struct {
	watchRoot string
	destRoot  string
	trigger   func()

	status     *components.StatusBar
	width      int
	cycles     int
	totals     report.Tally
	categories map[string]int
	recent     []types.MoveOutcome
	lastError  string
	stopped    bool
	title      cases.Caser
}

// New creates a monitor for the given roots. trigger is called when the
// user asks for an immediate cycle; it may be nil.
func New(watchRoot, destRoot string, trigger func()) *Model {
	sb := components.NewStatusBar()
	sb.SetLoading(true)
	sb.SetText("waiting for first cycle")
	return &Model{
		watchRoot:  watchRoot,
		destRoot:   destRoot,
		trigger:    trigger,
		status:     sb,
		width:      defaultWidth,
		categories: make(map[string]int),
		title:      cases.Title(language.English),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.status.Tick()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.trigger != nil && !m.stopped {
				m.trigger()
				m.status.SetText("cycle requested")
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case messages.OutcomeMsg:
		m.add(msg.Outcome)
		return m, nil

	case messages.CycleErrorMsg:
		m.lastError = msg.Err.Error()
		return m, nil

	case messages.CycleDoneMsg:
		m.cycles++
		if msg.Result.Err == nil {
			m.lastError = ""
		}
		m.status.SetText(fmt.Sprintf("cycle %d at %s, %d moved",
			m.cycles, msg.Result.Started.Format("15:04:05"), msg.Result.Tally.Moved))
		return m, nil

	case messages.StoppedMsg:
		m.stopped = true
		m.status.SetLoading(false)
		if msg.Err != nil {
			m.lastError = msg.Err.Error()
			m.status.SetText("stopped")
			return m, nil
		}
		return m, tea.Quit
	}

	return m, m.status.Update(msg)
}

func (m *Model) add(out types.MoveOutcome) {
	m.totals.Add(out)
	if out.Status == types.StatusMoved {
		m.categories[out.Category]++
	}
	// eligibility skips repeat every cycle and would flood the list
	if out.Status == types.StatusSkipped && out.Reason != types.ReasonDryRun {
		return
	}
	m.recent = append([]types.MoveOutcome{out}, m.recent...)
	if len(m.recent) > MaxRecent {
		m.recent = m.recent[:MaxRecent]
	}
}

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder
	theme := styles.Theme

	b.WriteString(theme.Title.Render("dlsort"))
	b.WriteString(" ")
	b.WriteString(theme.Subtle.Render(m.fit(fmt.Sprintf("%s -> %s", m.watchRoot, m.destRoot), m.width-10)))
	b.WriteString("\n\n")

	b.WriteString(m.status.View())
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		theme.Moved.Render(fmt.Sprintf("Moved %d", m.totals.Moved)), "   ",
		theme.Skipped.Render(fmt.Sprintf("Skipped %d", m.totals.Skipped)), "   ",
		theme.Failed.Render(fmt.Sprintf("Failed %d", m.totals.Failed)),
	))
	b.WriteString("\n")

	if len(m.categories) > 0 {
		names := make([]string, 0, len(m.categories))
		for name := range m.categories {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s %d", m.title.String(name), m.categories[name]))
		}
		b.WriteString(theme.Subtle.Render(m.fit(strings.Join(parts, " · "), m.width)))
		b.WriteString("\n")
	}

	if m.lastError != "" {
		b.WriteString("\n")
		b.WriteString(theme.Failed.Render(m.fit(m.lastError, m.width)))
		b.WriteString("\n")
	}

	if len(m.recent) > 0 {
		b.WriteString("\n")
		for _, out := range m.recent {
			b.WriteString(m.renderOutcome(out))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(theme.Help.Render("r run now · q quit"))
	return theme.App.Render(b.String())
}

func (m *Model) renderOutcome(out types.MoveOutcome) string {
	theme := styles.Theme
	var mark, label, detail string

	switch out.Status {
	case types.StatusMoved:
		mark = theme.Moved.Render("✓")
		label = m.title.String(out.Category)
		detail = fmt.Sprintf("%s -> %s", out.Name, filepath.Base(out.To))
	case types.StatusSkipped:
		mark = theme.Skipped.Render("·")
		label = out.Reason
		detail = fmt.Sprintf("%s -> %s", out.Name, filepath.Join(out.Category, filepath.Base(out.To)))
	default:
		mark = theme.Failed.Render("✗")
		label = strings.SplitN(out.Reason, ":", 2)[0]
		detail = fmt.Sprintf("%s: %s", out.Name, out.Reason)
	}
	return fmt.Sprintf("%s %s %s", mark, theme.Category.Render(label), m.fit(detail, m.width-20))
}

// fit shortens s to width cells
func (m *Model) fit(s string, width int) string {
	if width < 10 {
		width = 10
	}
	return truncate.StringWithTail(s, uint(width), "…")
}

// Totals returns the counts seen so far
func (m *Model) Totals() report.Tally {
	return m.totals
}

// Recent returns the outcomes on screen, newest first
func (m *Model) Recent() []types.MoveOutcome {
	return append([]types.MoveOutcome(nil), m.recent...)
}

// Cycles returns the number of completed cycles
func (m *Model) Cycles() int {
	return m.cycles
}

// Stopped reports whether the driver has returned
func (m *Model) Stopped() bool {
	return m.stopped
}
