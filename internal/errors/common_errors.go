package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeExtraction ErrorType = "EXTRACTION"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper functions for common error types

// NewSourceNotFoundError reports a missing input path
func NewSourceNotFoundError(path string, cause error) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("source %s not found", path), cause).
		WithContext("path", path)
}

// NewParseError creates a parsing-related error
func NewParseError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewExtractionError reports a text field without the expected numeric token
func NewExtractionError(text, pattern string) *AppError {
	return NewAppError(ErrTypeExtraction, fmt.Sprintf("no match for %q in %q", pattern, text), nil).
		WithContext("text", text).
		WithContext("pattern", pattern)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeValidation, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or "".
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsSourceNotFound reports whether err is a SourceNotFoundError
func IsSourceNotFound(err error) bool {
	return TypeOf(err) == ErrTypeNotFound
}

// IsParse reports whether err is a ParseError
func IsParse(err error) bool {
	return TypeOf(err) == ErrTypeParsing
}

// IsExtraction reports whether err is an ExtractionError
func IsExtraction(err error) bool {
	return TypeOf(err) == ErrTypeExtraction
}
