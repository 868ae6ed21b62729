// Package errors provides standardized error handling for dlsort.
// It defines the error kinds raised while loading configuration, scanning the
// watch root and relocating files, plus helpers for wrapping and inspecting them.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileAccessDenied
	FileInUse
	FileCollision
	MoveFailed
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	WatchRootMissing
	// Category error kinds
	InvalidCategory
	// Runtime error kinds
	LockHeld
	JournalFailed
)

var kindNames = map[ErrorKind]string{
	Unknown:          "unknown",
	FileAccessDenied: "file-access-denied",
	FileInUse:        "in-use",
	FileCollision:    "collision",
	MoveFailed:       "move-failed",
	InvalidConfig:    "invalid-config",
	ConfigNotFound:   "config-not-found",
	WatchRootMissing: "watch-root-missing",
	InvalidCategory:  "invalid-category",
	LockHeld:         "lock-held",
	JournalFailed:    "journal-failed",
}

// String returns the short name of the kind
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Common error constants for frequently occurring errors
var (
	ErrWatchRootMissing = NewConfigError("watch root does not exist", "", WatchRootMissing, nil)
	ErrLockHeld         = NewKind(LockHeld, "another dlsort instance holds the lock", nil)
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// Is matches config errors of the same kind so sentinel values like
// ErrWatchRootMissing can be compared against errors carrying a param.
func (e *ConfigError) Is(target error) bool {
	t, ok := target.(*ConfigError)
	if !ok {
		return false
	}
	return t.kind == e.kind && t.param == ""
}

// CategoryError represents errors in the category rules
type CategoryError struct {
	ApplicationError
	category string
}

// NewCategoryError creates a new category error
func NewCategoryError(msg string, category string, err error) *CategoryError {
	return &CategoryError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: InvalidCategory,
		},
		category: category,
	}
}

// Error returns the category error message
func (e *CategoryError) Error() string {
	if e.category != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.category, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.category)
	}
	return e.ApplicationError.Error()
}

// Category returns the category name associated with the error
func (e *CategoryError) Category() string {
	return e.category
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// NewKind creates a new error of the given kind
func NewKind(kind ErrorKind, msg string, err error) error {
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: kind,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the first known kind found in err's chain
func KindOf(err error) ErrorKind {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if kinded, ok := e.(interface{ Kind() ErrorKind }); ok && kinded.Kind() != Unknown {
			return kinded.Kind()
		}
	}
	return Unknown
}

// IsFileInUse checks if the error reports a file held by another process
func IsFileInUse(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileInUse
	}
	return false
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsWatchRootMissing checks if the error reports a missing watch root
func IsWatchRootMissing(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == WatchRootMissing
	}
	return false
}

// IsInvalidCategory checks if the error is a category rule error
func IsInvalidCategory(err error) bool {
	var catErr *CategoryError
	return errors.As(err, &catErr)
}
