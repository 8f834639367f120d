// Package errors provides structured error types for the requirements tool.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes that matter most to callers are the three failure modes of a
// freeze:
//   - MALFORMED_SPECIFIER: a requirement string is neither a valid
//     specifier nor a resolvable project location
//   - UNRESOLVED_DEPENDENCY: a required distribution is missing even after
//     one install attempt (see [UnresolvedDependencyError])
//   - INSTALL_FAILED: the install attempt itself failed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedSpecifier, "invalid requirement: %q", raw)
//	if errors.Is(err, errors.ErrCodeMalformedSpecifier) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInstallFailed, origErr, "pip install %s", name)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidPackage     Code = "INVALID_PACKAGE"
	ErrCodeInvalidManifest    Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath        Code = "INVALID_PATH"
	ErrCodeMalformedSpecifier Code = "MALFORMED_SPECIFIER"

	// Resolution errors
	ErrCodeNotFound             Code = "NOT_FOUND"
	ErrCodeFileNotFound         Code = "FILE_NOT_FOUND"
	ErrCodeUnresolvedDependency Code = "UNRESOLVED_DEPENDENCY"
	ErrCodeInstallFailed        Code = "INSTALL_FAILED"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// coder is implemented by typed errors that carry a fixed code.
type coder interface {
	Code() Code
}

// Is reports whether err has the given error code.
// It walks the error chain and matches the first *Error or typed error
// exposing a Code method.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Code
		case coder:
			return e.Code()
		}
		err = errors.Unwrap(err)
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var u *UnresolvedDependencyError
	if errors.As(err, &u) {
		return u.Error()
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}

// UnresolvedDependencyError reports a distribution that could not be found
// even after an install attempt. Path lists the canonical names that led to
// it, starting at a root and ending with Name.
type UnresolvedDependencyError struct {
	Name  string
	Path  []string
	Cause error
}

// Error implements the error interface.
func (e *UnresolvedDependencyError) Error() string {
	msg := fmt.Sprintf("unresolved dependency %q", e.Name)
	if len(e.Path) > 1 {
		msg += " (required by " + strings.Join(e.Path[:len(e.Path)-1], " -> ") + ")"
	}
	if e.Cause != nil {
		msg += ": " + UserMessage(e.Cause)
	}
	return msg
}

// Unwrap returns the install or lookup failure, if any.
func (e *UnresolvedDependencyError) Unwrap() error { return e.Cause }

// Code returns the error code for this error type.
func (e *UnresolvedDependencyError) Code() Code {
	return ErrCodeUnresolvedDependency
}
