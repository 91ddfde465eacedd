// Package errors defines the coded errors shared by the catalog, layout and
// snapshot packages.
//
// Codes are machine-readable so the CLI can decide between aborting an
// import, ignoring a stale move, or rebuilding from the CSV file:
//
//	err := errors.New(errors.CodeSchemaMismatch, "missing column %q", "title")
//	if errors.Is(err, errors.CodeSchemaMismatch) {
//	    // abort import
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeSchemaMismatch means a CSV header does not match the expected columns.
	CodeSchemaMismatch Code = "SCHEMA_MISMATCH"
	// CodeInvalidReference means a shelf, bookcase, library or book id does not exist.
	CodeInvalidReference Code = "INVALID_REFERENCE"
	// CodeCorruptSnapshot means a persisted snapshot failed validation.
	CodeCorruptSnapshot Code = "CORRUPT_SNAPSHOT"
	// CodeInvalidInput covers malformed user input.
	CodeInvalidInput Code = "INVALID_INPUT"
	// CodeNotFound means a requested record does not exist.
	CodeNotFound Code = "NOT_FOUND"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any coded error in err's chain carries code,
// including coded causes wrapped by another coded error.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
