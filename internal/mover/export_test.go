package mover

// NewWithRename swaps the rename primitive so failure paths can be forced
func NewWithRename(rename func(oldpath, newpath string) error) *Mover {
	return &Mover{rename: rename}
}
