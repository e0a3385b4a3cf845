package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/David-Botos/data-synth/pkg/model"
	"github.com/David-Botos/data-synth/pkg/reference"
	"github.com/David-Botos/data-synth/pkg/target"
)

// ErrorCategory classifies a generation failure
type ErrorCategory int

const (
	ErrorCategoryNone ErrorCategory = iota
	ErrorCategoryValidation
	ErrorCategoryValueGeneration
	ErrorCategoryReference
	ErrorCategoryTarget
	ErrorCategoryCancelled
)

// String returns a string representation of the error category
func (ec ErrorCategory) String() string {
	switch ec {
	case ErrorCategoryNone:
		return "None"
	case ErrorCategoryValidation:
		return "Validation"
	case ErrorCategoryValueGeneration:
		return "ValueGeneration"
	case ErrorCategoryReference:
		return "Reference"
	case ErrorCategoryTarget:
		return "Target"
	case ErrorCategoryCancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("Unknown(%d)", ec)
	}
}

// RowError identifies the row and column where generation stopped
type RowError struct {
	Category ErrorCategory
	Row      int
	Column   string
	Err      error
}

func newRowError(row int, column string, err error) *RowError {
	return &RowError{
		Category: CategorizeError(err),
		Row:      row,
		Column:   column,
		Err:      err,
	}
}

// Error implements error
func (e *RowError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] row %d", e.Category, e.Row))
	if e.Column != "" {
		sb.WriteString(fmt.Sprintf(" column %q", e.Column))
	}
	sb.WriteString(": ")
	sb.WriteString(e.Err.Error())
	return sb.String()
}

// Unwrap returns the underlying error
func (e *RowError) Unwrap() error {
	return e.Err
}

// CategorizeError maps an error to its category
func CategorizeError(err error) ErrorCategory {
	var refErr *reference.Error
	switch {
	case err == nil:
		return ErrorCategoryNone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorCategoryCancelled
	case errors.As(err, &refErr):
		return ErrorCategoryReference
	case errors.Is(err, target.ErrNoTargetConfig):
		return ErrorCategoryTarget
	case errors.Is(err, model.ErrInvalidConfig):
		return ErrorCategoryValidation
	default:
		return ErrorCategoryValueGeneration
	}
}
