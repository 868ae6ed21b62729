//go:build !unix

package mover

import (
	"errors"
	"os"
)

func isInUse(err error) bool {
	return errors.Is(err, os.ErrPermission)
}

func isCrossDevice(error) bool {
	return false
}
