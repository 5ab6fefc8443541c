package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a record does not exist or is not visible to
// the caller. Ownership mismatches deliberately look identical to absence.
var ErrNotFound = errors.New("record not found")

// ValidationError describes constraint-violating input on a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
