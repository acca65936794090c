package model

import (
	"errors"
	"fmt"
)

// ErrValidationFailed marks a record that cannot be persisted because a
// required field is missing or a field pair is incomplete.
var ErrValidationFailed = errors.New("validation failed")

// ValidationError describes which field failed validation and why.  It
// matches ErrValidationFailed under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidationFailed) succeed for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
