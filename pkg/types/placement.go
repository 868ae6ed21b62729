package types

import "path/filepath"

// PlacementDecision is where a candidate goes. It is derived from the
// candidate and the configuration and has no lifecycle of its own.
type PlacementDecision struct {
	Category        string `json:"category"`
	DestinationPath string `json:"destination_path"`
}

// FileName returns the final path element of the destination
func (d PlacementDecision) FileName() string {
	return filepath.Base(d.DestinationPath)
}
