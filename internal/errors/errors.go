package errors

import (
	"errors"
	"fmt"
)

// Basic error check functions from standard library
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// ErrorCode represents a unique identifier for each error type
type ErrorCode string

// Error represents a domain-specific error with context
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	Unwrap() error
}

// appError implements the Error interface
type appError struct {
	code    ErrorCode
	message string
	err     error
}

func (e *appError) Error() string {
	msg := e.message
	if msg == "" {
		msg = GetErrorMessage(e.code)
	}

	if e.err != nil {
		return fmt.Sprintf("%s: %v", msg, e.err)
	}

	return msg
}

func (e *appError) Code() ErrorCode {
	return e.code
}

func (e *appError) WithMessage(msg string) Error {
	return &appError{
		code:    e.code,
		message: msg,
		err:     e.err,
	}
}

func (e *appError) Unwrap() error {
	return e.err
}

// New creates an error from a code
func New(code ErrorCode) Error {
	return &appError{code: code}
}

// Wrap attaches a code to an underlying error
func Wrap(code ErrorCode, err error) Error {
	return &appError{code: code, err: err}
}

// WithMessage creates a coded error with an explicit message
func WithMessage(code ErrorCode, msg string) Error {
	return &appError{code: code, message: msg}
}

// IsCode reports whether any error in err's chain carries the given code
func IsCode(err error, code ErrorCode) bool {
	var coded Error
	if As(err, &coded) {
		if coded.Code() == code {
			return true
		}

		return IsCode(coded.Unwrap(), code)
	}

	return false
}
