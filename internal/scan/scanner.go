// Package scan runs one cycle of the sorting pipeline over the watch root:
// list the immediate regular files, then filter, classify, place and move
// each of them in turn.
package scan

import (
	"iter"
	"os"
	"path/filepath"

	"dlsort/internal/classify"
	"dlsort/internal/config"
	"dlsort/internal/eligibility"
	"dlsort/internal/errors"
	"dlsort/internal/mover"
	"dlsort/internal/placement"
	"dlsort/pkg/types"
)

// Scanner wires the pipeline components for one configuration. It owns no
// timing; a driver calls RunCycle on its own schedule.
type Scanner struct {
	cfg        *config.WatchConfig
	filter     *eligibility.Filter
	classifier *classify.Classifier
	resolver   *placement.Resolver
	mover      *mover.Mover
}

// Option customizes a Scanner
type Option func(*Scanner)

// WithResolver replaces the placement resolver
func WithResolver(r *placement.Resolver) Option {
	return func(s *Scanner) { s.resolver = r }
}

// WithMover replaces the mover
func WithMover(m *mover.Mover) Option {
	return func(s *Scanner) { s.mover = m }
}

// New creates a scanner for cfg
func New(cfg *config.WatchConfig, opts ...Option) *Scanner {
	s := &Scanner{
		cfg:        cfg,
		filter:     eligibility.New(cfg),
		classifier: classify.New(cfg),
		resolver:   placement.New(cfg),
		mover:      mover.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the configuration the scanner was built with
func (s *Scanner) Config() *config.WatchConfig {
	return s.cfg
}

// RunCycle lists the watch root and returns a lazy sequence with one outcome
// per regular file, in directory-listing order. The error is non-nil only
// when the watch root cannot be listed; no outcomes are produced then.
func (s *Scanner) RunCycle() (iter.Seq[types.MoveOutcome], error) {
	root := s.cfg.WatchRoot()

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.NewConfigError("watch root does not exist", root, errors.WatchRootMissing, err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.NewFileError("cannot list watch root", root, errors.FileAccessDenied, err)
	}

	return func(yield func(types.MoveOutcome) bool) {
		for _, entry := range entries {
			// symlinks, directories and special files are never moved
			if !entry.Type().IsRegular() {
				continue
			}
			out := s.Process(types.NewCandidate(filepath.Join(root, entry.Name())))
			if !yield(out) {
				return
			}
		}
	}, nil
}

// Process runs a single candidate through the pipeline
func (s *Scanner) Process(c types.CandidateFile) types.MoveOutcome {
	if ok, reason := s.filter.Check(c); !ok {
		return types.Skipped(reason).For(c)
	}

	category := s.classifier.ClassifyFile(c.Path, c.Ext())

	decision, err := s.resolver.Resolve(c, category)
	if err != nil {
		out := types.Failed(err.Error(), err).For(c)
		out.Category = category
		return out
	}

	if s.cfg.DryRun() {
		out := types.Skipped(types.ReasonDryRun).For(c)
		out.Category = category
		out.To = decision.DestinationPath
		return out
	}

	return s.mover.Move(c, decision)
}
