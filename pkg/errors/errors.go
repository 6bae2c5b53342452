// Package errors provides categorized errors for the reconciliation service,
// with stack traces captured at the point of creation.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryStore          ErrorCategory = "store"
	CategoryConfiguration  ErrorCategory = "configuration"
	CategoryReconciliation ErrorCategory = "reconciliation"
	CategoryInternal       ErrorCategory = "internal"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// Store errors
	CodeQueryFailed  ErrorCode = "query_failed"
	CodeUpdateFailed ErrorCode = "update_failed"
	CodeMigration    ErrorCode = "migration_failed"
	CodeBadRecord    ErrorCode = "bad_record"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeMissingConfig ErrorCode = "missing_config"

	// Reconciliation errors
	CodeInvalidScope    ErrorCode = "invalid_scope"
	CodeProcessingError ErrorCode = "processing_error"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// ServiceError is the base error type for all application errors
type ServiceError struct {
	Category   ErrorCategory `json:"category"`
	Code       ErrorCode     `json:"code"`
	Message    string        `json:"message"`
	Context    Context       `json:"context,omitempty"`
	Cause      error         `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate process exit code for the error
func (e *ServiceError) GetExitCode() int {
	switch e.Category {
	case CategoryStore:
		return 2
	case CategoryConfiguration:
		return 3
	case CategoryReconciliation, CategoryInternal:
		return 4
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *ServiceError) WithContext(key string, value interface{}) *ServiceError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// New creates a new ServiceError
func New(category ErrorCategory, code ErrorCode, message string) *ServiceError {
	return &ServiceError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with ServiceError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *ServiceError {
	if err == nil {
		return nil
	}

	return &ServiceError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// StoreError creates a persistence-related error
func StoreError(code ErrorCode, operation string, err error) *ServiceError {
	message := fmt.Sprintf("store error during %s", operation)
	result := wrapOrNew(err, CategoryStore, code, message)
	return result.WithContext("operation", operation)
}

// ConfigurationError creates a configuration-related error
func ConfigurationError(code ErrorCode, setting string, err error) *ServiceError {
	message := fmt.Sprintf("configuration error for '%s'", setting)
	result := wrapOrNew(err, CategoryConfiguration, code, message)
	return result.WithContext("setting", setting)
}

// ReconciliationError creates a reconciliation-related error
func ReconciliationError(code ErrorCode, operation string, err error) *ServiceError {
	message := fmt.Sprintf("reconciliation error during %s", operation)
	result := wrapOrNew(err, CategoryReconciliation, code, message)
	return result.WithContext("operation", operation)
}

func wrapOrNew(err error, category ErrorCategory, code ErrorCode, message string) *ServiceError {
	if err != nil {
		return Wrap(err, category, code, message)
	}
	return New(category, code, message)
}

// IsServiceError checks if an error is a ServiceError
func IsServiceError(err error) bool {
	_, ok := AsServiceError(err)
	return ok
}

// AsServiceError extracts a ServiceError from an error chain
func AsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}
