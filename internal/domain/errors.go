package domain

import (
	"errors"
	"fmt"
)

// Common validation errors shared across domain entities.
var (
	ErrEmptyUserID      = errors.New("user ID cannot be empty")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong  = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrInvalidGender    = errors.New("gender must be one of: male, female, other")
	ErrZeroDateOfBirth  = errors.New("date of birth cannot be empty")
	ErrFutureDate       = errors.New("date of birth cannot be in the future")
	ErrUnknownPage      = errors.New("unknown blueprint page")
)

// General errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// ValidationError describes a validation failure on a specific field,
// wrapping one of the sentinel errors above so callers can still use
// errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
