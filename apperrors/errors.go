// Package apperrors holds the error kinds handlers translate into HTTP statuses.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError carries a message that is safe to show the caller (400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// AsValidation unwraps err to a ValidationError if there is one in the chain.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
