// Package errors provides structured error handling for the meal
// engine, pairing stable error codes with HTTP-style statuses so policy
// rejections surface as actionable results.
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents a stable, machine-readable error code.
type ErrorCode string

const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeNotFound         ErrorCode = "NOT_FOUND"

	// Policy rejections
	CodeRateLimited  ErrorCode = "RATE_LIMITED"
	CodeLimitReached ErrorCode = "LIMIT_REACHED"

	// Server errors (5xx)
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeStorageError ErrorCode = "STORAGE_ERROR"
	CodeCatalogError ErrorCode = "CATALOG_ERROR"
)

// AppError is an application error with structured information.
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status a transport layer should use.
func (e *AppError) StatusCode() int {
	return StatusFor(e.Code)
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code ErrorCode) int {
	switch code {
	case CodeBadRequest, CodeValidationFailed:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeLimitReached:
		return http.StatusForbidden
	case CodeStorageError, CodeCatalogError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error.
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause attaches a cause error.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error.
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// NewValidationError creates a validation error.
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewCatalogError wraps a catalog load/decode failure.
func NewCatalogError(operation string, cause error) *AppError {
	return NewAppError(
		CodeCatalogError,
		"Catalog operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// NewStorageError wraps a counter/cache store failure.
func NewStorageError(operation string, cause error) *AppError {
	return NewAppError(
		CodeStorageError,
		"Storage operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// NewInternalError creates an internal error.
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// Wrap wraps an error as an internal error if it's not already an AppError.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// Is checks whether an error carries a specific error code.
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error.
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}
