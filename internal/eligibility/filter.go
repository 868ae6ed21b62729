// Package eligibility decides whether a file seen in the watch root is safe
// to act on this cycle.
//
// There is no lock or lease to tell that another process is still producing
// a file, so readiness is inferred from the name and size alone: partial
// download suffixes, hidden names and zero-byte files are left alone, and a
// file whose size cannot be read is treated the same as an empty one. A
// complete file that really is 0 bytes is therefore skipped every cycle until
// it gains content or is handled by hand; there is no retry escalation.
package eligibility

import (
	"path/filepath"
	"strings"

	"dlsort/internal/config"
	"dlsort/pkg/types"

	"github.com/gobwas/glob"
)

// Filter applies the eligibility rules of one configuration
type Filter struct {
	sortedSegment string
	suffixes      []string
	patterns      []glob.Glob
}

// New builds a filter. Ignore patterns were validated with the config, so a
// compile failure here only drops that pattern.
func New(cfg *config.WatchConfig) *Filter {
	f := &Filter{
		sortedSegment: filepath.Base(cfg.DestinationRoot()),
		suffixes:      cfg.IgnoreSuffixes(),
	}
	for _, pattern := range cfg.IgnorePatterns() {
		g, err := glob.Compile(pattern)
		if err != nil {
			continue
		}
		f.patterns = append(f.patterns, g)
	}
	return f
}

// IsEligible reports whether c may be moved this cycle
func (f *Filter) IsEligible(c types.CandidateFile) bool {
	ok, _ := f.Check(c)
	return ok
}

// Check is IsEligible plus the reason for a rejection
func (f *Filter) Check(c types.CandidateFile) (bool, string) {
	if f.inSortedTree(c.Path) {
		return false, types.ReasonAlreadySorted
	}

	lower := strings.ToLower(c.Name)
	for _, suffix := range f.suffixes {
		if strings.HasSuffix(lower, suffix) {
			return false, types.ReasonIgnoredSuffix
		}
	}
	for _, g := range f.patterns {
		if g.Match(c.Name) {
			return false, types.ReasonIgnoredGlob
		}
	}

	if c.IsHidden || strings.HasPrefix(c.Name, ".") {
		return false, types.ReasonHidden
	}
	if c.SizeErr != nil {
		return false, types.ReasonUnreadable
	}
	if c.SizeBytes == 0 {
		return false, types.ReasonEmpty
	}
	return true, ""
}

func (f *Filter) inSortedTree(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == f.sortedSegment {
			return true
		}
	}
	return false
}
