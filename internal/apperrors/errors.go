// Package apperrors defines the error values shared by the service,
// handler and tool layers. Handlers map these onto HTTP status codes.
package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that a resource does not exist or is not owned by
// the requesting user. The two cases are deliberately indistinguishable
// so that responses do not leak the existence of other users' data.
var ErrNotFound = errors.New("resource not found")

// ValidationError reports a rejected field with the reason for rejection.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// AsValidation unwraps err into a *ValidationError if possible.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
