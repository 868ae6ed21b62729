// Package watch drives the scan loop over time: a fixed-interval tick, early
// nudges from filesystem events, and a lock so only one process sorts a
// destination root at once. Cycles never overlap.
package watch

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"dlsort/internal/config"
	"dlsort/internal/errors"
	"dlsort/internal/log"
	"dlsort/internal/report"
	"dlsort/internal/scan"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// LockPath returns the lock file guarding destRoot. It lives in the user
// cache directory so taking it never creates anything under the roots.
func LockPath(destRoot string) string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(destRoot))
	return filepath.Join(dir, "dlsort", fmt.Sprintf("%016x.lock", h.Sum64()))
}

// Status is a snapshot of the driver
type Status struct {
	Running         bool
	WatchRoot       string
	DestinationRoot string
	LockFilePath    string
	Interval        time.Duration
	Cycles          int
	LastCycleID     string
	LastCycle       time.Time
	LastError       string
	Totals          report.Tally
}

// CycleResult summarizes one completed cycle
type CycleResult struct {
	ID       string
	Started  time.Time
	Duration time.Duration
	Tally    report.Tally
	Err      error
}

// Driver runs cycles serially until its context is cancelled
type Driver struct {
	cfg      *config.WatchConfig
	scanner  *scan.Scanner
	reporter report.Reporter
	lockPath string
	lock     *flock.Flock
	trigger  chan struct{}
	onCycle  func(CycleResult)

	running atomic.Bool
	mutex   sync.RWMutex
	status  Status
}

// Option customizes a Driver
type Option func(*Driver)

// WithReporter sets where outcomes go; the default logs them
func WithReporter(r report.Reporter) Option {
	return func(d *Driver) { d.reporter = r }
}

// WithScanner replaces the scanner built from the configuration
func WithScanner(s *scan.Scanner) Option {
	return func(d *Driver) { d.scanner = s }
}

// WithCycleHook is called after every cycle, from the cycle goroutine
func WithCycleHook(fn func(CycleResult)) Option {
	return func(d *Driver) { d.onCycle = fn }
}

// NewDriver creates a driver for cfg
func NewDriver(cfg *config.WatchConfig, opts ...Option) *Driver {
	lockPath := LockPath(cfg.DestinationRoot())
	d := &Driver{
		cfg:      cfg,
		reporter: report.NewLogReporter(),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
		trigger:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.scanner == nil {
		d.scanner = scan.New(cfg)
	}
	d.status = Status{
		WatchRoot:       cfg.WatchRoot(),
		DestinationRoot: cfg.DestinationRoot(),
		LockFilePath:    lockPath,
		Interval:        cfg.Interval(),
	}
	return d
}

// Trigger asks for a cycle as soon as the current one, if any, finishes.
// Requests made while one is already pending are merged.
func (d *Driver) Trigger() {
	select {
	case d.trigger <- struct{}{}:
	default:
	}
}

// Status returns a snapshot of the driver
func (d *Driver) Status() Status {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	st := d.status
	st.Running = d.running.Load()
	return st
}

// Run acquires the destination lock and runs a cycle at start, on every
// tick and on every nudge, until ctx is cancelled. A cycle in progress when
// ctx is cancelled runs to completion and no further cycle starts. Nudges
// begin once the watch root exists, even if it appears after Run starts.
func (d *Driver) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return errors.New("driver already running")
	}
	defer d.running.Store(false)

	if err := d.acquire(); err != nil {
		return err
	}
	defer func() {
		if err := d.lock.Unlock(); err != nil {
			log.LogWithFields(log.F("lock", d.lockPath), log.F("error", err)).Warn("Failed to release lock")
		}
	}()

	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	c.Schedule(cron.Every(d.cfg.Interval()), cron.FuncJob(d.Trigger))
	c.Start()
	defer c.Stop()

	var notifier *Notifier
	defer func() {
		if notifier != nil {
			notifier.Stop()
		}
	}()
	if d.cfg.Notify() {
		notifier = d.startNotifier(true)
	}

	log.LogWithFields(
		log.F("watch_root", d.cfg.WatchRoot()),
		log.F("destination_root", d.cfg.DestinationRoot()),
		log.F("interval", d.cfg.Interval().String()),
		log.F("dry_run", d.cfg.DryRun()),
	).Info("Sorter started")

	if ctx.Err() != nil {
		log.Info("Sorter stopped")
		return nil
	}
	d.Trigger()
	for {
		var nudges <-chan struct{}
		if notifier != nil {
			nudges = notifier.Nudges()
		}
		select {
		case <-ctx.Done():
			log.Info("Sorter stopped")
			return nil
		case <-nudges:
			d.Trigger()
		case <-d.trigger:
			// both cases may be ready; a stop always wins over a pending cycle
			if ctx.Err() != nil {
				log.Info("Sorter stopped")
				return nil
			}
			res := d.RunOnce()
			switch {
			case res.Err != nil && notifier != nil && errors.IsWatchRootMissing(res.Err):
				// the watch went with the old directory; rewatch once it is back
				notifier.Stop()
				notifier = nil
			case res.Err == nil && notifier == nil && d.cfg.Notify():
				notifier = d.startNotifier(false)
			}
		}
	}
}

// startNotifier watches the root for early nudges. It returns nil when the
// root cannot be watched yet; Run retries after the next successful cycle.
func (d *Driver) startNotifier(warn bool) *Notifier {
	n, err := NewNotifier(d.cfg.WatchRoot(), filepath.Base(d.cfg.DestinationRoot()))
	if err == nil {
		err = n.Start()
	}
	if err != nil {
		if warn {
			// ticks still run; a missing root is reported by every cycle
			log.LogWithFields(log.F("error", err)).Warn("Filesystem notifications disabled")
		}
		return nil
	}
	if !warn {
		log.Info("Filesystem notifications enabled")
	}
	return n
}

// Once takes the destination lock, runs a single cycle and releases it
func (d *Driver) Once() (CycleResult, error) {
	if !d.running.CompareAndSwap(false, true) {
		return CycleResult{}, errors.New("driver already running")
	}
	defer d.running.Store(false)

	if err := d.acquire(); err != nil {
		return CycleResult{}, err
	}
	defer d.lock.Unlock()

	return d.RunOnce(), nil
}

// Locked reports whether another process holds the destination lock
func Locked(cfg *config.WatchConfig) (bool, error) {
	lock := flock.New(LockPath(cfg.DestinationRoot()))
	if _, err := os.Stat(lock.Path()); os.IsNotExist(err) {
		return false, nil
	}
	ok, err := lock.TryLock()
	if err != nil {
		return false, err
	}
	if ok {
		_ = lock.Unlock()
	}
	return !ok, nil
}

func (d *Driver) acquire() error {
	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0755); err != nil {
		return errors.NewFileError("failed to create lock directory", filepath.Dir(d.lockPath), errors.FileAccessDenied, err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return errors.NewFileError("failed to acquire lock", d.lockPath, errors.LockHeld, err)
	}
	if !ok {
		return errors.Wrap(errors.ErrLockHeld, d.lockPath)
	}
	return nil
}

// RunOnce runs a single cycle and reports its outcomes. It does not take
// the lock; Run does.
func (d *Driver) RunOnce() CycleResult {
	res := CycleResult{ID: uuid.NewString(), Started: time.Now()}

	seq, err := d.scanner.RunCycle()
	if err != nil {
		res.Err = err
		d.reporter.CycleError(res.ID, err)
	} else {
		for out := range seq {
			res.Tally.Add(out)
			d.reporter.Report(res.ID, out)
		}
	}
	res.Duration = time.Since(res.Started)

	log.LogWithFields(
		log.F("cycle", res.ID),
		log.F("moved", res.Tally.Moved),
		log.F("skipped", res.Tally.Skipped),
		log.F("failed", res.Tally.Failed),
		log.F("duration", res.Duration.String()),
	).Debug("Cycle finished")

	d.mutex.Lock()
	d.status.Cycles++
	d.status.LastCycleID = res.ID
	d.status.LastCycle = res.Started
	d.status.Totals.Moved += res.Tally.Moved
	d.status.Totals.Skipped += res.Tally.Skipped
	d.status.Totals.Failed += res.Tally.Failed
	if err != nil {
		d.status.LastError = err.Error()
	} else {
		d.status.LastError = ""
	}
	d.mutex.Unlock()

	if d.onCycle != nil {
		d.onCycle(res)
	}
	return res
}
