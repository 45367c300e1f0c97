// Package apperr holds the typed errors that travel from the validation
// layer and the ticket controller to the terminal HTTP error handler.
package apperr

import (
	"fmt"
	"strings"
)

// Violation names one rejected input field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found in a request.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Invalid wraps a non-empty violation list.  It returns nil for an empty
// list so callers can gate with a single check.
func Invalid(v []Violation) error {
	if len(v) == 0 {
		return nil
	}
	return &ValidationError{Violations: v}
}

// NotFoundError is a 404 with a client-facing message.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// NotFound builds a NotFoundError with a formatted message.
func NotFound(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}
