package reference

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceNotFound means the reference source does not exist or cannot be opened
	ErrSourceNotFound = errors.New("reference source not found")

	// ErrColumnNotFound means the source exists but lacks the requested column
	ErrColumnNotFound = errors.New("reference column not found")

	// ErrEmptyPool means the column holds no non-null values
	ErrEmptyPool = errors.New("reference column has no values")
)

// Error reports a failed reference load. It is fatal for the run that hit it.
type Error struct {
	Source string
	Column string
	Err    error
}

// Error implements error
func (e *Error) Error() string {
	return fmt.Sprintf("reference %s#%s: %v", e.Source, e.Column, e.Err)
}

// Unwrap allows errors.Is against the sentinel errors
func (e *Error) Unwrap() error {
	return e.Err
}
