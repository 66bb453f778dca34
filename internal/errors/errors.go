package errors

import (
	"errors"
	"fmt"
)

var (
	// ValidationError
	ErrValidation = errors.New("validation failed")

	// ConflictError
	ErrEmailAlreadyInUse = errors.New("email already in use")

	// AuthenticationError
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingToken       = errors.New("authentication token required")

	// AuthorizationError
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// NotFoundError
	ErrUserNotFound = errors.New("user not found")

	// ResourceUnavailable
	ErrResourceUnavailable = errors.New("resource temporarily unavailable")

	// IntegrityError
	ErrCorruptCredential = errors.New("stored credential is corrupt")
)

// ValidationError reports the first offending input field.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
