package types

import "fmt"

// Status tags a MoveOutcome
type Status int

const (
	StatusMoved Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusMoved:
		return "moved"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Skip and failure reasons shared across the pipeline
const (
	ReasonVanished      = "vanished"
	ReasonInUse         = "in-use"
	ReasonAlreadySorted = "already-sorted"
	ReasonIgnoredSuffix = "ignored-suffix"
	ReasonIgnoredGlob   = "ignored-pattern"
	ReasonHidden        = "hidden"
	ReasonEmpty         = "empty"
	ReasonUnreadable    = "unreadable"
	ReasonDryRun        = "dry-run"
)

// MoveOutcome is the result of processing one file: Moved{From, To},
// Skipped{Reason} or Failed{Reason}. Name and Category are filled in by the
// scan loop so every outcome can be audited on its own.
type MoveOutcome struct {
	Status   Status `json:"status"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	From     string `json:"from"`
	To       string `json:"to,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Err      error  `json:"-"`
}

// Moved reports a completed relocation
func Moved(from, to string) MoveOutcome {
	return MoveOutcome{Status: StatusMoved, From: from, To: to}
}

// Skipped reports a file left alone this cycle
func Skipped(reason string) MoveOutcome {
	return MoveOutcome{Status: StatusSkipped, Reason: reason}
}

// Failed reports a relocation attempt that did not succeed
func Failed(reason string, err error) MoveOutcome {
	return MoveOutcome{Status: StatusFailed, Reason: reason, Err: err}
}

// For attaches the candidate's path and name
func (o MoveOutcome) For(c CandidateFile) MoveOutcome {
	o.From = c.Path
	o.Name = c.Name
	return o
}

// String returns a one-line audit description
func (o MoveOutcome) String() string {
	switch o.Status {
	case StatusMoved:
		return fmt.Sprintf("moved %s -> %s", o.From, o.To)
	case StatusSkipped:
		return fmt.Sprintf("skipped %s: %s", o.From, o.Reason)
	default:
		return fmt.Sprintf("failed %s: %s", o.From, o.Reason)
	}
}
