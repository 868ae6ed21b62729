//go:build unix

package mover

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// isInUse reports errors raised when another process holds the file or the
// directory denies the operation.
func isInUse(err error) bool {
	return errors.Is(err, os.ErrPermission) ||
		errors.Is(err, unix.EBUSY) ||
		errors.Is(err, unix.ETXTBSY)
}

func isCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}
