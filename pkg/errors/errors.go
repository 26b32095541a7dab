// Package errors provides structured error types for the pianoroll application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the preview server and the library
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// All layout failures are input-correctness errors: they are fatal to the
// current plot call and are never retried. Batch callers are expected to
// report them and move on to the next file.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownTempo, "no usable tempo in %d marks", n)
//	if errors.Is(err, errors.ErrCodeUnknownTempo) {
//	    // Handle missing tempo
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidMIDI, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Score resolution errors
	ErrCodeUnknownTempo           Code = "UNKNOWN_TEMPO"
	ErrCodeMultipleTempoChanges   Code = "MULTIPLE_TEMPO_CHANGES"
	ErrCodeMultipleTimeSignatures Code = "MULTIPLE_TIME_SIGNATURES"

	// Configuration errors
	ErrCodeInvalidTimeSignature Code = "INVALID_TIME_SIGNATURE"
	ErrCodeUnknownColoring      Code = "UNKNOWN_COLORING"
	ErrCodeInvalidConfig        Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat        Code = "INVALID_FORMAT"

	// Input errors
	ErrCodeInvalidMIDI  Code = "INVALID_MIDI"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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
