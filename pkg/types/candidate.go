package types

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CandidateFile is one watch-root entry observed during a single scan cycle.
// It has no identity beyond its path for that cycle.
type CandidateFile struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	SizeBytes int64  `json:"size"`
	IsHidden  bool   `json:"hidden"`
	// SizeErr records why the size could not be read; the entry may have
	// vanished between listing and stat.
	SizeErr error `json:"-"`
}

// NewCandidate stats path and builds a candidate. A failed stat is kept in
// SizeErr rather than returned.
func NewCandidate(path string) CandidateFile {
	name := filepath.Base(path)
	c := CandidateFile{
		Path:     path,
		Name:     name,
		IsHidden: strings.HasPrefix(name, "."),
	}
	info, err := os.Stat(path)
	if err != nil {
		c.SizeErr = err
		return c
	}
	c.SizeBytes = info.Size()
	return c
}

// Ext returns the extension including the leading dot, as found in the name
func (c CandidateFile) Ext() string {
	return filepath.Ext(c.Name)
}

// String returns a human-readable representation
func (c CandidateFile) String() string {
	if c.SizeErr != nil {
		return fmt.Sprintf("%s (size unknown: %v)", c.Path, c.SizeErr)
	}
	return fmt.Sprintf("%s (%d bytes)", c.Path, c.SizeBytes)
}
