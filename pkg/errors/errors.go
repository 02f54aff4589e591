// Package errors provides the structured error type shared by providers,
// the dispatcher and the presentation layers.
//
// Every failure that crosses the dispatch boundary is an [*Error] carrying a
// machine-readable [Code]. Callers branch on the code instead of matching
// heterogeneous error types:
//
//	if errors.Is(err, errors.ErrCodeUnsupported) {
//	    // hub has no identifier in the provider's namespace
//	}
//
// # Error Codes
//
// Suggestion failures:
//   - NOT_APPLICABLE: the provider's gate rejected the hub
//   - UNSUPPORTED: no identifier mapping into the provider's namespace
//   - UPSTREAM_UNAVAILABLE: network or transport failure
//   - MALFORMED_RESPONSE: the upstream answered with an unusable payload
//   - TIMEOUT: the provider's own upper bound was exceeded
//   - CANCELLED: the caller cancelled the dispatch
//
// Ambient codes (INVALID_INPUT, NOT_FOUND, BUSY, INTERNAL) cover request
// validation and dispatcher bookkeeping.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Suggestion error codes.
const (
	ErrCodeNotApplicable       Code = "NOT_APPLICABLE"
	ErrCodeUnsupported         Code = "UNSUPPORTED"
	ErrCodeUpstreamUnavailable Code = "UPSTREAM_UNAVAILABLE"
	ErrCodeMalformedResponse   Code = "MALFORMED_RESPONSE"
	ErrCodeTimeout             Code = "TIMEOUT"
	ErrCodeCancelled           Code = "CANCELLED"
)

// Ambient error codes.
const (
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeBusy         Code = "BUSY"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
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

// Classify converts any error into an *Error.
//
// Coded errors are returned unchanged. Context errors map to TIMEOUT and
// CANCELLED. Everything else becomes an INTERNAL error wrapping err, so the
// result can always be delivered through the failure channel. Classify(nil)
// returns nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(ErrCodeTimeout, err, "upstream call exceeded its time limit")
	case errors.Is(err, context.Canceled):
		return Wrap(ErrCodeCancelled, err, "cancelled")
	default:
		return Wrap(ErrCodeInternal, err, "unexpected failure")
	}
}

// Retryable reports whether a failure with this code may succeed when the
// caller re-issues the request. The dispatcher itself never retries.
func (c Code) Retryable() bool {
	return c == ErrCodeUpstreamUnavailable || c == ErrCodeTimeout
}
