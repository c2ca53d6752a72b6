package dataload

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BrobridgeOrg/go-dataload/frame"
	"github.com/BrobridgeOrg/go-dataload/record"
)

// Common errors for go-dataload operations.
var (
	// IO errors
	ErrFileNotFound = errors.New("file not found")
	ErrIOFailed     = errors.New("IO operation failed")
	ErrInvalidPath  = errors.New("invalid file path")

	// Data errors
	ErrInvalidData    = errors.New("invalid data format")
	ErrColumnNotFound = frame.ErrColumnNotFound
	ErrInvalidRecord  = record.ErrInvalidRecord

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ValidationError reports record input rejected before any table was built.
type ValidationError = record.ValidationError

// ColumnNotFoundError names a column missing from a table.
type ColumnNotFoundError = frame.ColumnNotFoundError

// IOError represents an IO error with path information.
type IOError struct {
	Operation string
	Path      string
	Cause     error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("IO error during %s on %s: %v", e.Operation, e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *IOError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error. Missing files also match
// ErrFileNotFound.
func (e *IOError) Is(target error) bool {
	switch target {
	case ErrIOFailed:
		return true
	case ErrFileNotFound:
		return errors.Is(e.Cause, fs.ErrNotExist)
	}
	return false
}

func newIOError(op, path string, cause error) error {
	return &IOError{Operation: op, Path: path, Cause: cause}
}
