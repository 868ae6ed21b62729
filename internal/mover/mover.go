// Package mover relocates a file to its placement and reports the result as
// a value. Nothing here returns an error or panics for routine conditions:
// a vanished source is a skip, a locked file is an "in-use" failure, and any
// other rename problem is a failure carrying the message.
package mover

import (
	"fmt"
	"os"

	"dlsort/internal/errors"
	"dlsort/pkg/types"
)

// Mover performs relocations
type Mover struct {
	rename func(oldpath, newpath string) error
}

// New returns a mover backed by os.Rename
func New() *Mover {
	return &Mover{rename: os.Rename}
}

// Move relocates c to d.DestinationPath
func (m *Mover) Move(c types.CandidateFile, d types.PlacementDecision) types.MoveOutcome {
	out := m.move(c, d)
	out = out.For(c)
	out.Category = d.Category
	if out.To == "" {
		out.To = d.DestinationPath
	}
	return out
}

func (m *Mover) move(c types.CandidateFile, d types.PlacementDecision) types.MoveOutcome {
	if _, err := os.Lstat(c.Path); err != nil {
		if os.IsNotExist(err) {
			return types.Skipped(types.ReasonVanished)
		}
		if isInUse(err) {
			return types.Failed(types.ReasonInUse, errors.NewFileError("file in use", c.Path, errors.FileInUse, err))
		}
		return types.Failed(err.Error(), errors.NewFileError("cannot stat source", c.Path, errors.MoveFailed, err))
	}

	// os.Rename replaces an existing target on Unix, so collisions are
	// checked explicitly.
	if _, err := os.Lstat(d.DestinationPath); err == nil {
		reason := fmt.Sprintf("collision: %s already exists", d.DestinationPath)
		return types.Failed(reason, errors.NewFileError("destination exists", d.DestinationPath, errors.FileCollision, nil))
	}

	if err := m.rename(c.Path, d.DestinationPath); err != nil {
		switch {
		case os.IsNotExist(err):
			// gone between the check and the rename
			if _, statErr := os.Lstat(c.Path); os.IsNotExist(statErr) {
				return types.Skipped(types.ReasonVanished)
			}
			return types.Failed(err.Error(), errors.NewFileError("move failed", c.Path, errors.MoveFailed, err))
		case isInUse(err):
			return types.Failed(types.ReasonInUse, errors.NewFileError("file in use", c.Path, errors.FileInUse, err))
		case isCrossDevice(err):
			return types.Failed("cross-device: "+err.Error(), errors.NewFileError("move failed", c.Path, errors.MoveFailed, err))
		default:
			return types.Failed(err.Error(), errors.NewFileError("move failed", c.Path, errors.MoveFailed, err))
		}
	}

	return types.Moved(c.Path, d.DestinationPath)
}
