package model

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every ValidationError
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidationError identifies the column and field that failed validation
type ValidationError struct {
	Column string // Column name, empty for config objects validated standalone
	Field  string // Offending field (e.g. "degradation.null_rate")
	Reason string
}

// NewValidationError creates a ValidationError
func NewValidationError(column, field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Column: column,
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}

// Error implements error
func (e *ValidationError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s: %s: %s", ErrInvalidConfig, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: column %q: %s: %s", ErrInvalidConfig, e.Column, e.Field, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidConfig)
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// AttributeToColumn returns a copy of err attributed to column, with fieldPrefix
// prepended to its field, when err is a ValidationError. Other errors are
// returned unchanged.
func AttributeToColumn(err error, column, fieldPrefix string) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		copied := *ve
		copied.Column = column
		if fieldPrefix != "" {
			copied.Field = fieldPrefix + "." + copied.Field
		}
		return &copied
	}
	return err
}

func checkProbability(field string, value float64) error {
	// NaN fails both comparisons and is rejected too
	if !(value >= 0 && value <= 1) {
		return NewValidationError("", field, "must be within [0,1], got %v", value)
	}
	return nil
}
