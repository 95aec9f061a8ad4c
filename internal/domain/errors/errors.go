// Package errors provides domain-specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for domain errors.
const (
	ErrCodeNotConfigured      = "NOT_CONFIGURED"
	ErrCodeConnectionFailure  = "CONNECTION_FAILURE"
	ErrCodeDatabaseNotFound   = "DATABASE_NOT_FOUND"
	ErrCodeCollectionNotFound = "COLLECTION_NOT_FOUND"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeOperationFailed    = "OPERATION_FAILED"
)

// DomainError represents a domain-specific error.
type DomainError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	Err        error  `json:"-"`
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewNotConfiguredError creates the error returned when no connection
// handle is active. It always carries a remediation suggestion.
func NewNotConfiguredError() *DomainError {
	return &DomainError{
		Code:       ErrCodeNotConfigured,
		Message:    "no active connection. Use mongodb_configure_connection first",
		Suggestion: "use the 'mongodb_configure_connection' tool to set up your MongoDB connection",
	}
}

// NewConnectionError creates a connection failure error. The message must
// already be credential-free; the registry redacts before constructing it.
func NewConnectionError(message string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeConnectionFailure,
		Message: message,
		Err:     err,
	}
}

// NewDatabaseNotFoundError creates an error for a missing database.
func NewDatabaseNotFoundError(name string) *DomainError {
	return &DomainError{
		Code:    ErrCodeDatabaseNotFound,
		Message: fmt.Sprintf("database '%s' not found", name),
	}
}

// NewCollectionNotFoundError creates an error for a missing collection.
func NewCollectionNotFoundError(name string) *DomainError {
	return &DomainError{
		Code:    ErrCodeCollectionNotFound,
		Message: fmt.Sprintf("collection '%s' not found", name),
	}
}

// NewNotFoundError creates a generic not-found error for a named resource.
func NewNotFoundError(resource string) *DomainError {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewValidationError creates a validation error for caller-supplied input.
func NewValidationError(message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// NewOperationError wraps a driver failure with the operation name.
func NewOperationError(operation string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeOperationFailed,
		Message: fmt.Sprintf("%s failed: %v", operation, err),
		Err:     err,
	}
}

// GetDomainError extracts the domain error from an error.
func GetDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// IsNotFound reports whether the error is any of the not-found kinds, so
// callers can branch on "does not exist" vs a transient failure.
func IsNotFound(err error) bool {
	domainErr, ok := GetDomainError(err)
	if !ok {
		return false
	}
	switch domainErr.Code {
	case ErrCodeNotFound, ErrCodeDatabaseNotFound, ErrCodeCollectionNotFound:
		return true
	}
	return false
}

// IsNotConfigured checks if the error is a not-configured error.
func IsNotConfigured(err error) bool {
	domainErr, ok := GetDomainError(err)
	return ok && domainErr.Code == ErrCodeNotConfigured
}

// IsValidationError checks if the error is a validation error.
func IsValidationError(err error) bool {
	domainErr, ok := GetDomainError(err)
	return ok && domainErr.Code == ErrCodeValidation
}

// IsConnectionFailure checks if the error is a connection failure.
func IsConnectionFailure(err error) bool {
	domainErr, ok := GetDomainError(err)
	return ok && domainErr.Code == ErrCodeConnectionFailure
}
