package scanerr

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable failure class. Every error that crosses
// the command-handling boundary carries one so the dispatcher can pick a
// user-facing reply without string matching.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidInput
	CodeNotFound
	CodeProviderUnavailable
	CodeInvalidImage
	CodeEmptyResponse
	CodeServiceUnavailable
	CodeMissingArgument
)

func (c Code) String() string {
	switch c {
	case CodeInvalidInput:
		return "invalid_input"
	case CodeNotFound:
		return "not_found"
	case CodeProviderUnavailable:
		return "provider_unavailable"
	case CodeInvalidImage:
		return "invalid_image"
	case CodeEmptyResponse:
		return "empty_response"
	case CodeServiceUnavailable:
		return "service_unavailable"
	case CodeMissingArgument:
		return "missing_argument"
	default:
		return "internal"
	}
}

// Error is a typed error carrying a stable code and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, a ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// As unwraps err into a typed *Error if one is anywhere in the chain.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// CodeOf returns the code of err, or CodeInternal for untyped errors.
func CodeOf(err error) Code {
	if e, ok := As(err); ok {
		return e.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
