package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("store unavailable")
)

type AppError struct {
	Err     error  // sentinel category (ErrNotFound, ErrConflict, ...)
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

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

// DuplicateEmail is returned when a registration targets an email that already
// has an account. HTTP handlers map this to 409 Conflict.
func DuplicateEmail(_ string) *AppError {
	// The email itself is deliberately not echoed back in the message — the
	// caller already knows it, and logs should not accumulate addresses.
	return &AppError{
		Err:     ErrConflict,
		Message: "email already registered",
		Field:   "email",
	}
}

// InvalidCredentials is the single failure returned for every authentication
// mismatch: unknown email, missing credential material, or wrong password.
// Keeping one indistinguishable error means the API cannot be used to probe
// which addresses have accounts.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: "invalid credentials",
	}
}

// StoreUnavailable signals that the document store is unreachable or was never
// configured. HTTP handlers map this to 503 Service Unavailable. The cause is
// kept on the error chain for logs but never reaches the response body.
func StoreUnavailable(cause error) *AppError {
	err := ErrUnavailable
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrUnavailable, cause)
	}
	return &AppError{
		Err:     err,
		Message: "database not available",
	}
}
