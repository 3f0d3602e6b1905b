package domain

import (
	"errors"
	"fmt"
)

// Error kinds consumed by the central HTTP error translator. Services return
// these instead of writing responses, so no handler hand-rolls an error body.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrMissingEmailClaim  = errors.New("external identity has no email claim")
)

// NotFoundError marks a referenced resource as absent. It carries the
// user-facing message verbatim.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFound(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ValidationError wraps malformed-input failures so the translator can map
// them to 400 without leaking internals.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(message string) *ValidationError {
	return &ValidationError{Message: message}
}
