// Package errs defines the typed error kinds shared by the stores and the
// marketplace engines. Callers classify failures with errors.Is / errors.As;
// the API layer maps each kind to an HTTP status.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports an unknown template, version or collection ID.
	// Never retried.
	ErrNotFound = errors.New("not found")

	// ErrConflict reports a concurrent-write race that survived the
	// engine's internal bounded retries.
	ErrConflict = errors.New("concurrent modification conflict")

	// ErrUnavailable reports a transient persistence failure. Idempotent
	// operations retry it with backoff before surfacing.
	ErrUnavailable = errors.New("store unavailable")
)

// ValidationError reports invalid caller input. Validation always happens
// before any write and is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError for a field.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFound wraps ErrNotFound with the record kind and ID for log context.
func NotFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, ErrNotFound)
}
