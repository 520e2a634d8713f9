// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and fault reporting for hioload-csp.

package api

import "fmt"

// ErrorCode classifies a structured Error.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	// ErrCodeMisuse marks a programming defect: send on a closed channel,
	// double close, select without operands.
	ErrCodeMisuse
	// ErrCodeInternal marks a broken runtime invariant.
	ErrCodeInternal
	ErrCodeNotSupported
	ErrCodeClosed
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeMisuse:
		return "misuse"
	case ErrCodeInternal:
		return "internal"
	case ErrCodeNotSupported:
		return "not supported"
	case ErrCodeClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Error represents a structured error with code, cause and context.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if len(e.Context) == 0 {
		return msg
	}
	return fmt.Sprintf("%s (context: %+v)", msg, e.Context)
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// Wrap creates a structured error around cause.
func Wrap(code ErrorCode, cause error) *Error {
	return &Error{
		Code:    code,
		Err:     cause,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
