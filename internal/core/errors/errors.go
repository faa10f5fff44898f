// Package errors defines the error kinds shared by the personnel ledger.
// Transport adapters map these kinds to status codes; everything else is an
// internal failure.
package errors

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

// kindError carries a human readable reason while unwrapping to its kind.
type kindError struct {
	kind   error
	reason string
}

func (e *kindError) Error() string { return e.reason }

func (e *kindError) Unwrap() error { return e.kind }

// New returns an error with the given kind and reason.
func New(kind error, reason string) error {
	return &kindError{kind: kind, reason: reason}
}

// NotFoundf returns an ErrNotFound error.
func NotFoundf(format string, args ...any) error {
	return New(ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflictf returns an ErrConflict error.
func Conflictf(format string, args ...any) error {
	return New(ErrConflict, fmt.Sprintf(format, args...))
}

// Invalidf returns an ErrValidation error.
func Invalidf(format string, args ...any) error {
	return New(ErrValidation, fmt.Sprintf(format, args...))
}

// KindOf reports which kind err belongs to, or nil for internal errors.
func KindOf(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrConflict):
		return ErrConflict
	case errors.Is(err, ErrValidation):
		return ErrValidation
	default:
		return nil
	}
}

// IsClientError reports whether err was caused by the caller rather than the system.
func IsClientError(err error) bool {
	return KindOf(err) != nil
}
