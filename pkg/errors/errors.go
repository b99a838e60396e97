// Package errors defines the coded errors dscmigrate reports.
//
// A code names the failure category (bad input, filesystem trouble, a
// resource emitted with reduced fidelity) so callers branch on the category
// and never on message text:
//
//	if errors.Is(err, errors.ErrCodeFileNotFound) {
//	    // the named document does not exist
//	}
//
// Filesystem failures wrap the underlying error:
//
//	return errors.Wrap(errors.ErrCodeReadFailed, err, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable failure category.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeReadFailed   Code = "READ_FAILED"
	ErrCodeWriteFailed  Code = "WRITE_FAILED"

	// Diagnostic codes. The document is still written.
	ErrCodeUnhandledResource Code = "UNHANDLED_RESOURCE"
	ErrCodeDroppedDependency Code = "DROPPED_DEPENDENCY"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error carries a code, a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause == nil {
		return msg
	}
	return msg + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether the first *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}

// UserMessage returns err without its code prefix, for the console.
func UserMessage(err error) string {
	var e *Error
	switch {
	case !errors.As(err, &e):
		return err.Error()
	case e.Cause != nil:
		return e.Message + ": " + e.Cause.Error()
	default:
		return e.Message
	}
}
