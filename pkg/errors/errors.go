// Package errors carries coded, wrappable errors used across drawbridge.
//
// Every error that crosses a package boundary gets a [Code] so the CLI
// can pick its exit path and the HTTP API can map failures to status
// codes without string matching. Codes group by prefix:
//
//   - INVALID_*: input that failed validation
//   - *_NOT_FOUND: a missing file, diagram or resource
//   - STORE_ERROR, CACHE_ERROR: persistence backends
//   - INTERNAL_ERROR, UNSUPPORTED: nothing the caller did wrong
//
// Construct errors with [New], or with [Wrap] to keep the cause chain:
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "invalid output format: %s", format)
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "read %s", path)
//
// and branch on them with [Is]:
//
//	if errors.Is(err, errors.ErrCodeInvalidFormat) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidSource Code = "INVALID_SOURCE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeDiagramNotFound Code = "DIAGRAM_NOT_FOUND"

	// Persistence errors
	ErrCodeStore Code = "STORE_ERROR"
	ErrCodeCache Code = "CACHE_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a code with a human-readable message and an optional
// underlying cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error prints "CODE: message", with the cause appended when present.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause to the stdlib errors helpers.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds a coded error from a format string.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap builds a coded error around a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether the first coded error in the chain carries code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the code of the first coded error in the chain, or
// the empty string for foreign errors.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix. Foreign
// errors fall back to their full Error() string.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
