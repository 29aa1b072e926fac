// Package apperror defines the application's error taxonomy.
//
// Every failure that crosses a layer boundary is one of the sentinel kinds
// below, wrapped in an *AppError carrying the human-readable message. The
// HTTP layer maps each kind to a status code exactly once (in writeError);
// anything that isn't a typed kind becomes a generic 500 so internal detail
// never reaches a client.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Checked with errors.Is, which walks the wrap chain
// via AppError.Unwrap.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// AppError pairs a sentinel kind with a message safe to show to clients.
type AppError struct {
	Err     error  // one of the sentinel kinds above
	Message string // human-readable, client-safe
	Field   string // optional: the field that caused a validation error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing resource. Also used when an existing resource
// is not owned by the caller — the two cases are deliberately
// indistinguishable so ownership cannot be probed.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// ValidationFailed reports malformed or missing input.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation, e.g. a duplicate username or a
// second snippet with the same title by the same author.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Unauthorized reports a missing or invalid credential.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Forbidden reports that the caller is authenticated but lacks permission.
// Kept for completeness; ownership failures use NotFound instead.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}
