// Package journal keeps an audit trail of relocations in SQLite so a user
// can find out where a download went after the fact.
package journal

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"dlsort/internal/errors"
	"dlsort/internal/log"
	"dlsort/pkg/types"
)

// StatusCycleError marks a row for a cycle that could not list the watch root
const StatusCycleError = "cycle-error"

const schema = `
CREATE TABLE IF NOT EXISTS outcomes (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	cycle_id TEXT NOT NULL,
	at       TEXT NOT NULL,
	status   TEXT NOT NULL,
	name     TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	src      TEXT NOT NULL DEFAULT '',
	dst      TEXT NOT NULL DEFAULT '',
	reason   TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_outcomes_at ON outcomes(at);
`

// Entry is one journal row
type Entry struct {
	ID       int64
	CycleID  string
	At       time.Time
	Status   string
	Name     string
	Category string
	From     string
	To       string
	Reason   string
}

// Store persists outcomes
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time

	// Report and CycleError suppress repeats of what they already wrote
	mutex     sync.Mutex
	seen      map[string]bool
	lastCycle string
}

// Open creates or opens the journal database at path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.NewFileError("failed to create journal directory", filepath.Dir(path), errors.JournalFailed, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewFileError("failed to open journal", path, errors.JournalFailed, err)
	}
	// a single writer keeps SQLite from returning SQLITE_BUSY to ourselves
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, errors.NewFileError("failed to apply "+pragma, path, errors.JournalFailed, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.NewFileError("failed to initialize journal schema", path, errors.JournalFailed, err)
	}

	return &Store{db: db, path: path, now: time.Now, seen: make(map[string]bool)}, nil
}

// Path returns the database file
func (s *Store) Path() string {
	return s.path
}

// Close closes the database
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores one outcome
func (s *Store) Record(ctx context.Context, cycleID string, out types.MoveOutcome) error {
	return s.insert(ctx, Entry{
		CycleID:  cycleID,
		At:       s.now(),
		Status:   out.Status.String(),
		Name:     out.Name,
		Category: out.Category,
		From:     out.From,
		To:       out.To,
		Reason:   out.Reason,
	})
}

func (s *Store) insert(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outcomes (cycle_id, at, status, name, category, src, dst, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.CycleID, e.At.UTC().Format(time.RFC3339Nano), e.Status, e.Name, e.Category, e.From, e.To, e.Reason)
	if err != nil {
		return errors.NewKind(errors.JournalFailed, "failed to record outcome", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, cycle_id, at, status, name, category, src, dst, reason
		 FROM outcomes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.NewKind(errors.JournalFailed, "failed to query journal", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e  Entry
			at string
		)
		if err := rows.Scan(&e.ID, &e.CycleID, &at, &e.Status, &e.Name, &e.Category, &e.From, &e.To, &e.Reason); err != nil {
			return nil, errors.NewKind(errors.JournalFailed, "failed to read journal row", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, at); err == nil {
			e.At = parsed.Local()
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewKind(errors.JournalFailed, "failed to read journal", err)
	}
	return entries, nil
}

// Counts returns the number of rows per status
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM outcomes GROUP BY status`)
	if err != nil {
		return nil, errors.NewKind(errors.JournalFailed, "failed to count journal rows", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, errors.NewKind(errors.JournalFailed, "failed to read journal counts", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// Report implements report.Reporter. Skips and in-use failures repeat every
// cycle until the file settles, so only moves, dry-run plans and real
// failures are kept. A plan or failure for a file is written once until that
// file is moved; a cycle error is written once until it changes or cycles
// produce outcomes again.
func (s *Store) Report(cycleID string, out types.MoveOutcome) {
	switch {
	case out.Status == types.StatusMoved:
	case out.Status == types.StatusSkipped && out.Reason == types.ReasonDryRun:
	case out.Status == types.StatusFailed && out.Reason != types.ReasonInUse:
	default:
		s.mutex.Lock()
		s.lastCycle = ""
		s.mutex.Unlock()
		return
	}
	if !s.fresh(out) {
		return
	}
	if err := s.Record(context.Background(), cycleID, out); err != nil {
		log.LogError(err, "Journal write failed")
	}
}

// fresh reports whether out has not been journaled yet. Any outcome means
// the watch root was listed, which ends a run of cycle errors.
func (s *Store) fresh(out types.MoveOutcome) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.lastCycle = ""
	switch out.Status {
	case types.StatusMoved:
		for key := range s.seen {
			if strings.HasSuffix(key, "\x00"+out.From) {
				delete(s.seen, key)
			}
		}
		return true
	case types.StatusSkipped, types.StatusFailed:
		if out.From == "" {
			return true
		}
		// reasons may embed a timestamped target, so the file alone is the key
		key := out.Status.String() + "\x00" + out.From
		if s.seen[key] {
			return false
		}
		s.seen[key] = true
		return true
	}
	return false
}

// CycleError implements report.Reporter
func (s *Store) CycleError(cycleID string, cause error) {
	reason := cause.Error()
	s.mutex.Lock()
	repeat := reason == s.lastCycle
	s.lastCycle = reason
	s.mutex.Unlock()
	if repeat {
		return
	}

	err := s.insert(context.Background(), Entry{
		CycleID: cycleID,
		At:      s.now(),
		Status:  StatusCycleError,
		Reason:  reason,
	})
	if err != nil {
		log.LogError(err, "Journal write failed")
	}
}
