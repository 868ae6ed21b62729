package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())

	var appErr *ApplicationError
	assert.True(t, As(err, &appErr))
	assert.Equal(t, Unknown, appErr.Kind())
}

func TestWrapping(t *testing.T) {
	origErr := New("original error")
	wrappedErr := Wrap(origErr, "wrapped")
	assert.Equal(t, "wrapped: original error", wrappedErr.Error())
	assert.Equal(t, origErr, Unwrap(wrappedErr))

	assert.Nil(t, Wrap(nil, "wrapper"))

	deepWrapped := Wrap(wrappedErr, "deeper")
	assert.Equal(t, "deeper: wrapped: original error", deepWrapped.Error())
	assert.True(t, Is(deepWrapped, origErr))
}

func TestFileError(t *testing.T) {
	fileErr := NewFileError("cannot move", "/path/to/file", FileInUse, nil)
	assert.Equal(t, "cannot move: /path/to/file", fileErr.Error())
	assert.Equal(t, "/path/to/file", fileErr.Path())
	assert.Equal(t, FileInUse, fileErr.Kind())
	assert.True(t, IsFileInUse(fileErr))
	assert.False(t, IsFileInUse(NewFileError("cannot list", "/path", FileAccessDenied, nil)))

	cause := fmt.Errorf("device busy")
	wrapped := NewFileError("cannot move", "/path/to/file", FileInUse, cause)
	assert.Equal(t, "cannot move: /path/to/file: device busy", wrapped.Error())
	assert.True(t, errors.Is(wrapped, cause))
}

func TestConfigError(t *testing.T) {
	cfgErr := NewConfigError("watch root does not exist", "/missing", WatchRootMissing, nil)
	assert.Equal(t, "watch root does not exist: /missing", cfgErr.Error())
	assert.Equal(t, "/missing", cfgErr.Param())
	assert.True(t, IsWatchRootMissing(cfgErr))
	assert.False(t, IsInvalidConfig(cfgErr))

	// sentinel comparison ignores the param
	assert.True(t, Is(cfgErr, ErrWatchRootMissing))
	assert.False(t, Is(cfgErr, NewConfigError("invalid configuration", "", InvalidConfig, nil)))

	wrapped := Wrap(cfgErr, "cycle aborted")
	assert.True(t, IsWatchRootMissing(wrapped))
	assert.Equal(t, WatchRootMissing, KindOf(wrapped))
}

func TestCategoryError(t *testing.T) {
	catErr := NewCategoryError("empty extension list", "images", nil)
	assert.Equal(t, "empty extension list: images", catErr.Error())
	assert.Equal(t, "images", catErr.Category())
	assert.True(t, IsInvalidCategory(catErr))
	assert.Equal(t, InvalidCategory, KindOf(catErr))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Unknown, KindOf(fmt.Errorf("plain")))
	assert.Equal(t, LockHeld, KindOf(NewKind(LockHeld, "locked", nil)))
	assert.Equal(t, "in-use", FileInUse.String())
	assert.Equal(t, "kind(99)", ErrorKind(99).String())
}
