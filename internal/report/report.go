// Package report defines where cycle outcomes go once the scan loop has
// produced them.
package report

import (
	"os"

	"dlsort/internal/errors"
	"dlsort/internal/log"
	"dlsort/pkg/types"

	"github.com/dustin/go-humanize"
)

// Reporter receives every outcome of a cycle and the error of a cycle that
// could not run. Implementations must not block for long; they are called
// from the cycle goroutine.
type Reporter interface {
	Report(cycleID string, out types.MoveOutcome)
	CycleError(cycleID string, err error)
}

// LogReporter writes outcomes to the package logger. Skips are debug-level
// noise; moves and in-use failures are info; everything else is an error.
type LogReporter struct {
	logger *log.Logger
}

// NewLogReporter returns a reporter on the package logger
func NewLogReporter() *LogReporter {
	return &LogReporter{}
}

// NewLogReporterWith returns a reporter on a specific logger
func NewLogReporterWith(l *log.Logger) *LogReporter {
	return &LogReporter{logger: l}
}

func (r *LogReporter) base() *log.Logger {
	if r.logger != nil {
		return r.logger
	}
	return log.Default()
}

// Report logs a single outcome
func (r *LogReporter) Report(cycleID string, out types.MoveOutcome) {
	l := r.base().With(log.F("cycle", cycleID), log.F("file", out.Name))

	switch out.Status {
	case types.StatusMoved:
		l.With(log.F("category", out.Category), log.F("size", sizeOf(out.To))).
			Infof("Moved %s -> %s", out.From, out.To)
	case types.StatusSkipped:
		if out.Reason == types.ReasonDryRun {
			l.With(log.F("category", out.Category)).Infof("Would move %s -> %s", out.From, out.To)
			return
		}
		l.With(log.F("reason", out.Reason)).Debugf("Skipped %s", out.From)
	case types.StatusFailed:
		if out.Reason == types.ReasonInUse {
			l.Infof("File in use, will retry next cycle: %s", out.From)
			return
		}
		if out.Err != nil {
			l = l.With(log.F("error_kind", errors.KindOf(out.Err).String()))
		}
		l.With(log.F("reason", out.Reason)).Errorf("Failed to move %s", out.From)
	}
}

// CycleError logs a cycle that produced no outcomes
func (r *LogReporter) CycleError(cycleID string, err error) {
	r.base().With(log.F("cycle", cycleID)).With(errorFields(err)...).Error("Cycle skipped")
}

func errorFields(err error) []log.Field {
	fields := []log.Field{log.F("error", err), log.F("error_kind", errors.KindOf(err).String())}
	var cfgErr *errors.ConfigError
	if errors.As(err, &cfgErr) && cfgErr.Param() != "" {
		fields = append(fields, log.F("param", cfgErr.Param()))
	}
	return fields
}

func sizeOf(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "?"
	}
	return humanize.IBytes(uint64(info.Size()))
}

// Multi fans outcomes out to several reporters in order
type Multi []Reporter

func (m Multi) Report(cycleID string, out types.MoveOutcome) {
	for _, r := range m {
		r.Report(cycleID, out)
	}
}

func (m Multi) CycleError(cycleID string, err error) {
	for _, r := range m {
		r.CycleError(cycleID, err)
	}
}

// Tally counts outcomes by status
type Tally struct {
	Moved   int
	Skipped int
	Failed  int
}

// Add counts one outcome
func (t *Tally) Add(out types.MoveOutcome) {
	switch out.Status {
	case types.StatusMoved:
		t.Moved++
	case types.StatusSkipped:
		t.Skipped++
	case types.StatusFailed:
		t.Failed++
	}
}

// Total returns the number of outcomes counted
func (t Tally) Total() int {
	return t.Moved + t.Skipped + t.Failed
}
