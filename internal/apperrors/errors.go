package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the acting user lacks the capability for the attempted action.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates the request carries no valid actor identity.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConflict indicates the entity is not in the state the operation requires.
// Wrapped messages carry the entity's actual current state so the caller can refresh.
var ErrConflict = errors.New("state conflict")

// ErrInsufficientBalance indicates an expense amount exceeds the advance's
// remaining balance at decrement time.
var ErrInsufficientBalance = errors.New("insufficient remaining balance")

// ErrLockTimeout indicates the per-advance serialization lock could not be
// acquired within the configured bound.
var ErrLockTimeout = errors.New("timed out waiting for advance lock")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside the wrapped cause.
// Repositories use it for infrastructure failures that have no domain sentinel.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
