// Package errors defines the coded errors returned at treetable's edges.
//
// The drop engine itself never fails: illegal and no-op drops resolve to a
// blocked result. Errors come from decoding documents, validating ids and
// field keys, and from the hosts (CLI, terminal UI, HTTP) around the engine.
// Each carries a [Code] that hosts map to exit statuses and HTTP statuses.
//
//	err := errors.New(errors.ErrCodeInvalidRecord, "row %d: id must be a string", i)
//	if errors.Is(err, errors.ErrCodeInvalidRecord) {
//	    // ...
//	}
//
//	err = errors.Wrap(errors.ErrCodeInvalidFormat, cause, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

// Validation reports whether c describes bad input rather than a missing
// resource or an internal failure.
func (c Code) Validation() bool {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidRecord, ErrCodeInvalidFormat,
		ErrCodeInvalidInstruction, ErrCodeInvalidPath, ErrCodeDuplicateID:
		return true
	}
	return false
}

const (
	// Bad input.
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidRecord      Code = "INVALID_RECORD"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeInvalidInstruction Code = "INVALID_INSTRUCTION"
	ErrCodeInvalidPath        Code = "INVALID_PATH"
	ErrCodeDuplicateID        Code = "DUPLICATE_ID"

	// Missing resources.
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// A host was asked to apply a drop the engine blocks.
	ErrCodeIllegalMove Code = "ILLEGAL_MOVE"

	// Everything else.
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap returns an Error that records cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := asError(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of a coded error without its code, or
// err.Error() for any other error.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

// IsValidation reports whether err carries a bad-input code.
func IsValidation(err error) bool {
	return GetCode(err).Validation()
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
