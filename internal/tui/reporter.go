package tui

import (
	"dlsort/internal/tui/messages"
	"dlsort/internal/watch"
	"dlsort/pkg/types"

	tea "github.com/charmbracelet/bubbletea"
)

// Sender is satisfied by *tea.Program
type Sender interface {
	Send(msg tea.Msg)
}

// Reporter forwards outcomes to a running program
type Reporter struct {
	to Sender
}

// NewReporter creates a reporter sending to p
func NewReporter(p Sender) *Reporter {
	return &Reporter{to: p}
}

func (r *Reporter) Report(cycleID string, out types.MoveOutcome) {
	r.to.Send(messages.OutcomeMsg{CycleID: cycleID, Outcome: out})
}

func (r *Reporter) CycleError(cycleID string, err error) {
	r.to.Send(messages.CycleErrorMsg{CycleID: cycleID, Err: err})
}

// CycleDone is a watch.WithCycleHook callback
func (r *Reporter) CycleDone(res watch.CycleResult) {
	r.to.Send(messages.CycleDoneMsg{Result: res})
}

// Stopped tells the program the driver has returned
func (r *Reporter) Stopped(err error) {
	r.to.Send(messages.StoppedMsg{Err: err})
}
