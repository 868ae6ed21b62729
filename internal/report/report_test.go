package report_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"dlsort/internal/errors"
	"dlsort/internal/log"
	"dlsort/internal/report"
	"dlsort/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(t *testing.T) (*report.LogReporter, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return report.NewLogReporterWith(log.NewLogger(log.WithCore(core))), logs
}

func TestLogReporterLevels(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "20261017_090503_photo.jpg")
	require.NoError(t, os.WriteFile(dest, make([]byte, 2048), 0644))

	r, logs := observed(t)

	moved := types.Moved("/in/photo.jpg", dest)
	moved.Name = "photo.jpg"
	moved.Category = "images"
	r.Report("c1", moved)

	skipped := types.Skipped(types.ReasonHidden)
	skipped.Name = ".x"
	r.Report("c1", skipped)

	r.Report("c1", types.Failed(types.ReasonInUse, nil))
	r.Report("c1", types.Failed("collision: x already exists",
		errors.NewFileError("destination exists", "x", errors.FileCollision, nil)))

	entries := logs.All()
	require.Len(t, entries, 4)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "c1", ctx["cycle"])
	assert.Equal(t, "images", ctx["category"])
	assert.Equal(t, "2.0 KiB", ctx["size"])

	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, types.ReasonHidden, entries[1].ContextMap()["reason"])

	assert.Equal(t, zapcore.InfoLevel, entries[2].Level)

	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, "collision", entries[3].ContextMap()["error_kind"])
}

func TestLogReporterDryRun(t *testing.T) {
	r, logs := observed(t)
	out := types.Skipped(types.ReasonDryRun)
	out.From, out.To = "/in/a.zip", "/out/archives/a.zip"
	r.Report("c2", out)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.InfoLevel, logs.All()[0].Level)
	assert.Contains(t, logs.All()[0].Message, "Would move")
}

func TestLogReporterCycleError(t *testing.T) {
	r, logs := observed(t)
	r.CycleError("c3", errors.NewConfigError("watch root does not exist", "/gone", errors.WatchRootMissing, nil))

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "/gone", ctx["param"])
	assert.Equal(t, "watch-root-missing", ctx["error_kind"])
}

type recorder struct {
	outcomes []string
	errs     []error
}

func (r *recorder) Report(id string, out types.MoveOutcome) {
	r.outcomes = append(r.outcomes, fmt.Sprintf("%s:%s", id, out.Status))
}

func (r *recorder) CycleError(_ string, err error) { r.errs = append(r.errs, err) }

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := report.Multi{a, b}

	m.Report("c", types.Moved("x", "y"))
	m.CycleError("c", fmt.Errorf("boom"))

	for _, r := range []*recorder{a, b} {
		assert.Equal(t, []string{"c:moved"}, r.outcomes)
		assert.Len(t, r.errs, 1)
	}
}

func TestTally(t *testing.T) {
	var tally report.Tally
	tally.Add(types.Moved("a", "b"))
	tally.Add(types.Skipped(types.ReasonEmpty))
	tally.Add(types.Skipped(types.ReasonHidden))
	tally.Add(types.Failed("x", nil))

	assert.Equal(t, report.Tally{Moved: 1, Skipped: 2, Failed: 1}, tally)
	assert.Equal(t, 4, tally.Total())
}
