package messages

import (
	"dlsort/internal/watch"
	"dlsort/pkg/types"
)

// OutcomeMsg carries one outcome from the running cycle
type OutcomeMsg struct {
	CycleID string
	Outcome types.MoveOutcome
}

// CycleErrorMsg reports a cycle that could not list the watch root
type CycleErrorMsg struct {
	CycleID string
	Err     error
}

// CycleDoneMsg is sent after every cycle
type CycleDoneMsg struct {
	Result watch.CycleResult
}

// StoppedMsg is sent when the driver returns
type StoppedMsg struct {
	Err error
}
