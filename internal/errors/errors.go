// Package errors provides structured error handling for live metrics operations.
// It defines error codes, error types, and provides utilities for creating
// and handling errors with context and structured information.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents different types of errors that can occur.
type ErrorCode string

const (
	// General errors.
	CodeUnknown       ErrorCode = "UNKNOWN"
	CodeValidation    ErrorCode = "VALIDATION"
	CodeConfiguration ErrorCode = "CONFIGURATION"
	CodeTimeout       ErrorCode = "TIMEOUT"
	CodeCanceled      ErrorCode = "CANCELED"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeConflict      ErrorCode = "CONFLICT"

	// Live metrics configuration errors.
	CodeMetricValidation ErrorCode = "METRIC_VALIDATION"

	// Capture service errors.
	CodeCaptureFailed      ErrorCode = "CAPTURE_FAILED"
	CodeCaptureNoData      ErrorCode = "CAPTURE_NO_DATA"
	CodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	CodeServiceTimeout     ErrorCode = "SERVICE_TIMEOUT"

	// Database errors.
	CodeDatabaseConnection ErrorCode = "DATABASE_CONNECTION"
	CodeDatabaseQuery      ErrorCode = "DATABASE_QUERY"
	CodeDatabaseMigration  ErrorCode = "DATABASE_MIGRATION"
	CodeDatabaseTimeout    ErrorCode = "DATABASE_TIMEOUT"

	// File system errors.
	CodeFileNotFound   ErrorCode = "FILE_NOT_FOUND"
	CodeFilePermission ErrorCode = "FILE_PERMISSION"
)

// ConfigError represents configuration-related errors, including malformed
// live metrics declarations.
type ConfigError struct {
	Code     ErrorCode
	Message  string
	Resource string
	Field    string
	Value    interface{}
	Cause    error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	switch {
	case e.Resource != "" && e.Field != "":
		return fmt.Sprintf("[%s] %s (resource: %s, field: %s)", e.Code, e.Message, e.Resource, e.Field)
	case e.Resource != "":
		return fmt.Sprintf("[%s] %s (resource: %s)", e.Code, e.Message, e.Resource)
	case e.Field != "":
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// WithResource records the configuration resource the error refers to.
func (e *ConfigError) WithResource(resource string) *ConfigError {
	e.Resource = resource
	return e
}

// NewConfigError creates a new configuration error.
func NewConfigError(code ErrorCode, message string) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
	}
}

// NewConfigFieldError creates a configuration error for a specific field.
func NewConfigFieldError(code ErrorCode, message, field string, value interface{}) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
		Field:   field,
		Value:   value,
	}
}

// WrapConfigError wraps an existing error as a configuration error.
func WrapConfigError(code ErrorCode, message string, err error) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// CaptureError represents a failure reported by a capture service.
type CaptureError struct {
	Code      ErrorCode
	Message   string
	Metric    string
	Operation string
	Cause     error
	Context   map[string]interface{}
}

// Error implements the error interface.
func (e *CaptureError) Error() string {
	if e.Metric != "" {
		return fmt.Sprintf("[%s] %s (metric: %s)", e.Code, e.Message, e.Metric)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *CaptureError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *CaptureError) WithContext(key string, value interface{}) *CaptureError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewCaptureError creates a new capture error for a metric.
func NewCaptureError(code ErrorCode, message, metric string) *CaptureError {
	return &CaptureError{
		Code:    code,
		Message: message,
		Metric:  metric,
		Context: make(map[string]interface{}),
	}
}

// WrapCaptureError wraps an existing error as a capture error.
func WrapCaptureError(code ErrorCode, message, metric string, err error) *CaptureError {
	return &CaptureError{
		Code:    code,
		Message: message,
		Metric:  metric,
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// DatabaseError represents database-related errors.
type DatabaseError struct {
	Code      ErrorCode
	Message   string
	Operation string
	Query     string
	Cause     error
}

// Error implements the error interface.
func (e *DatabaseError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("[%s] %s (operation: %s)", e.Code, e.Message, e.Operation)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *DatabaseError) Unwrap() error {
	return e.Cause
}

// WithQuery adds the SQL query that caused the error.
func (e *DatabaseError) WithQuery(query string) *DatabaseError {
	e.Query = query
	return e
}

// NewDatabaseError creates a new database error.
func NewDatabaseError(code ErrorCode, message string) *DatabaseError {
	return &DatabaseError{
		Code:    code,
		Message: message,
	}
}

// WrapDatabaseError wraps an existing error as a database error.
func WrapDatabaseError(code ErrorCode, message string, err error) *DatabaseError {
	return &DatabaseError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// ValidationError represents invalid caller input.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", CodeValidation, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", CodeValidation, e.Message)
}

// NewValidationError creates a validation error for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Utility functions for common error operations

// IsCode checks if an error, or any error it wraps, has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && GetCode(err) == code
}

// GetCode extracts the error code from the first coded error in the chain.
func GetCode(err error) ErrorCode {
	for err != nil {
		switch e := err.(type) {
		case *ConfigError:
			return e.Code
		case *CaptureError:
			return e.Code
		case *DatabaseError:
			return e.Code
		case *ValidationError:
			return CodeValidation
		}
		err = stderrors.Unwrap(err)
	}
	return CodeUnknown
}

// IsRetryable determines if an error indicates a retryable condition.
func IsRetryable(err error) bool {
	switch GetCode(err) {
	case CodeTimeout, CodeServiceTimeout, CodeServiceUnavailable, CodeDatabaseTimeout, CodeDatabaseConnection:
		return true
	default:
		return false
	}
}

// IsFatal determines if an error indicates a fatal condition that should stop execution.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case CodeConfiguration, CodeMetricValidation, CodeDatabaseMigration:
		return true
	default:
		return false
	}
}

// Common error creation functions

// ErrMetricValidation creates an error for a malformed live metrics declaration.
func ErrMetricValidation(resource string, err error) *ConfigError {
	return WrapConfigError(CodeMetricValidation, "Invalid live metrics configuration", err).WithResource(resource)
}

// ErrNoCaptures creates an error for a metric that has no captured samples.
func ErrNoCaptures(metric string) *CaptureError {
	return NewCaptureError(CodeCaptureNoData, "No captures recorded", metric)
}

// ErrDatabaseConnection creates an error for database connection failures.
func ErrDatabaseConnection(err error) *DatabaseError {
	return WrapDatabaseError(CodeDatabaseConnection, "Failed to connect to database", err)
}

// ErrDatabaseQuery creates an error for database query failures.
func ErrDatabaseQuery(query string, err error) *DatabaseError {
	return WrapDatabaseError(CodeDatabaseQuery, "Database query failed", err).WithQuery(query)
}

// ErrConfigInvalid creates an error for invalid configuration.
func ErrConfigInvalid(field string, value interface{}) *ConfigError {
	return NewConfigFieldError(CodeConfiguration, "Invalid configuration value", field, value)
}
