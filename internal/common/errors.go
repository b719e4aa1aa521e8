// Package common defines shared constants and sentinel errors used across
// the e-Arsip server layers. Callers should use errors.Is / errors.As to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors.
	ErrMissingCredentials = errors.New("missing credentials")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrorValidation       = errors.New("validation error")

	// Login failure. Unknown username and wrong password both map here.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Auth errors (missing, malformed, forged or expired token).
	ErrInvalidToken = errors.New("invalid token")
)

// ConflictError reports a uniqueness violation on a named field
// (for example "username" or "email").
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// NewConflict returns a ConflictError for field.
func NewConflict(field string) error {
	return &ConflictError{Field: field}
}

// ValidationError wraps ErrorValidation with a user-facing message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrorValidation }

// NewValidation returns a ValidationError carrying msg.
func NewValidation(msg string) error {
	return &ValidationError{Message: msg}
}
