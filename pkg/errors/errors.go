// Package errors provides structured error types for the micromap engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, API, and inspector
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Every validation failure the engine can produce maps to exactly one code.
// Validation errors are raised eagerly during the resolve/allocate phase of a
// rebuild, before any derived structure is constructed, so a failed rebuild
// never exposes partial state.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidGrouping, "grouping sums to %d, want %d", sum, n)
//	if errors.Is(err, errors.ErrCodeInvalidGrouping) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "geometry lookup for %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Rebuild validation errors
	ErrCodeInvalidGrouping        Code = "INVALID_GROUPING"
	ErrCodeUnknownVariable        Code = "UNKNOWN_VARIABLE"
	ErrCodeNonUniqueID            Code = "NON_UNIQUE_ID"
	ErrCodeEmptyDataset           Code = "EMPTY_DATASET"
	ErrCodeDegenerateDomain       Code = "DEGENERATE_DOMAIN"
	ErrCodeReservedColor          Code = "RESERVED_COLOR"
	ErrCodeInvalidAttributeLength Code = "INVALID_ATTRIBUTE_LENGTH"

	// Configuration errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Lifecycle errors
	ErrCodeRebuildInProgress Code = "REBUILD_IN_PROGRESS"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
