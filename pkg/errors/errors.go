package errors

import (
	"errors"
	"fmt"
)

// Common application errors with proper types for error handling

var (
	// ErrAuth indicates bad credentials or a malformed email
	ErrAuth = errors.New("authentication failed")

	// ErrPersistence indicates the session store is unreachable or a reference is invalid
	ErrPersistence = errors.New("persistence failure")

	// ErrNetwork indicates the query router is unreachable
	ErrNetwork = errors.New("network failure")

	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied indicates the user doesn't have permission
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")
)

// AuthError creates an authentication error with context
func AuthError(reason string) error {
	if reason != "" {
		return fmt.Errorf("%s: %w", reason, ErrAuth)
	}
	return ErrAuth
}

// PersistenceError creates a persistence error with context
func PersistenceError(operation string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%s: %v: %w", operation, cause, ErrPersistence)
	}
	return fmt.Errorf("%s: %w", operation, ErrPersistence)
}

// NotFoundError creates a not found error with context
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// AccessDeniedError creates an access denied error with context
func AccessDeniedError(reason string) error {
	if reason != "" {
		return fmt.Errorf("%s: %w", reason, ErrAccessDenied)
	}
	return ErrAccessDenied
}

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// NetworkError creates a network error with context
func NetworkError(service string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%s: %v: %w", service, cause, ErrNetwork)
	}
	return fmt.Errorf("%s: %w", service, ErrNetwork)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}
