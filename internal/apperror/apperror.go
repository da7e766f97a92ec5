// Package apperror defines the error taxonomy shared by every layer.
//
// Each failure kind is a sentinel (ErrNotFound, ErrConflict, ...) wrapped in an
// *AppError that carries a human-readable message. Callers test the kind with
// errors.Is and pull the message out with errors.As; the HTTP layer maps kinds
// to status codes in exactly one place (handler/response.go).
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Test for them with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("Validation Error")
	ErrConflict        = errors.New("conflict")
	ErrInvalidID       = errors.New("invalid id")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// AppError pairs a sentinel kind with a message that is safe to show clients.
type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

// Error returns the client-facing message.
func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes the sentinel so errors.Is can match it.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that no resource exists with the given id.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// ValidationFailed reports a rejected input field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports that a unique attribute of a resource is already taken.
// The offending value is deliberately left out of the message: echoing an
// email back would confirm that the account exists.
func Conflict(resource, field string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s with this %s already exists", resource, field),
		Field:   field,
	}
}

// InvalidID reports an identifier that is not well-formed for the store's
// ID scheme. It is returned before any lookup happens.
func InvalidID(resource, id string) *AppError {
	return &AppError{
		Err:     ErrInvalidID,
		Message: fmt.Sprintf("invalid %s id %q", resource, id),
	}
}

// Unauthenticated returns the single opaque login failure. It never says
// which half of the credentials was wrong.
func Unauthenticated() *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: "invalid email or password",
	}
}
