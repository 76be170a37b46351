// Package apperror defines the domain error taxonomy shared by every layer.
//
// The store, auth contexts, and handlers all speak in these errors. Handlers
// translate them to HTTP status codes; nothing below the handler layer knows
// about HTTP. Sentinel errors + errors.Is() give callers a stable way to
// branch on the KIND of failure without string matching.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError carries a sentinel (for errors.Is) plus a human-readable message.
type AppError struct {
	Err     error  // sentinel — one of the Err* values above
	Message string // human-readable error message
	Field   string // optional: field causing a validation error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that no record of the given kind matched the key.
// The key is whatever the lookup used — an id for admin operations, a slug
// for the public detail endpoint.
func NotFound(resource, key string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, key),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, key string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict: %s", resource, key),
	}
}

// Unauthorized reports a failed or missing authentication.
// HTTP handlers map this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
