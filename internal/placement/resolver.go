// Package placement computes where an eligible file goes: the category
// folder under the destination root and a timestamp-prefixed file name.
package placement

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dlsort/internal/config"
	"dlsort/internal/errors"
	"dlsort/internal/log"
	"dlsort/pkg/types"
)

// TimestampLayout prefixes every relocated file name; it sorts lexically.
const TimestampLayout = "20060102_150405"

const maxRenameAttempts = 1000

// Resolver builds placement decisions for one configuration
type Resolver struct {
	destRoot  string
	collision string
	dryRun    bool
	now       func() time.Time
}

// Option customizes a Resolver
type Option func(*Resolver)

// WithClock replaces time.Now, for deterministic names in tests
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// New creates a resolver
func New(cfg *config.WatchConfig, opts ...Option) *Resolver {
	r := &Resolver{
		destRoot:  cfg.DestinationRoot(),
		collision: cfg.Collision(),
		dryRun:    cfg.DryRun(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns destinationRoot/category/<timestamp>_<name>, creating the
// category folder if needed. With the default "fail" collision strategy
// nothing is probed: two files with the same name resolved within the same
// second get the same path and the second move fails. The "rename" strategy
// appends _(n) to the stem instead.
func (r *Resolver) Resolve(c types.CandidateFile, category string) (types.PlacementDecision, error) {
	folder := filepath.Join(r.destRoot, category)
	if !r.dryRun {
		if err := os.MkdirAll(folder, 0755); err != nil {
			return types.PlacementDecision{}, errors.NewFileError("failed to create category folder", folder, errors.FileAccessDenied, err)
		}
	}

	name := fmt.Sprintf("%s_%s", r.now().Format(TimestampLayout), c.Name)
	dest := filepath.Join(folder, name)

	if r.collision == config.CollisionRename {
		unique, err := findUniqueDestName(dest)
		if err != nil {
			return types.PlacementDecision{}, err
		}
		dest = unique
	}

	return types.PlacementDecision{Category: category, DestinationPath: dest}, nil
}

// findUniqueDestName returns path if free, otherwise the first free
// <stem>_(n)<ext>.
func findUniqueDestName(path string) (string, error) {
	if _, err := os.Lstat(path); os.IsNotExist(err) {
		return path, nil
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for counter := 1; counter <= maxRenameAttempts; counter++ {
		candidate := fmt.Sprintf("%s_(%d)%s", base, counter, ext)
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			log.Debugf("Renaming destination to %s due to collision", candidate)
			return candidate, nil
		}
	}
	return "", errors.NewFileError(
		fmt.Sprintf("no free name after %d attempts", maxRenameAttempts), path, errors.FileCollision, nil)
}
