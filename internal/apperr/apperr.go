// Package apperr defines the error taxonomy shared by services and transport.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound marks errors for entities that do not exist. Wrap it with
// fmt.Errorf("group %s: %w", id, apperr.ErrNotFound) and test with errors.Is.
var ErrNotFound = errors.New("not found")

// ValidationError is a caller-input error: malformed split details or a
// settlement that does not match any outstanding balance. It is always
// surfaced to the caller, never silently corrected.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundf wraps ErrNotFound with a resource name, matching the error
// messages the API returns ("Group not found", "User not found").
func NotFoundf(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}
