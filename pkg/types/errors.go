package types

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the gateway and the services wraps
// exactly one of these, so callers branch with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrRemoteFailure = errors.New("record store reported failure")
	ErrNetwork       = errors.New("record store unreachable")
)

// Error is a normalized failure with a message ready to show to a user.
type Error struct {
	Op      string // fetch, get, create, update, delete, validate
	Table   string // store table, empty for client-side validation
	Message string // display-ready message
	Err     error  // one of the kind sentinels, possibly wrapping a cause
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error of the given kind. cause, when non-nil, stays
// reachable through errors.Is and errors.As.
func NewError(kind error, op, table, message string, cause error) *Error {
	err := kind
	if cause != nil {
		err = &causeError{kind: kind, cause: cause}
	}
	return &Error{Op: op, Table: table, Message: message, Err: err}
}

// Validationf builds a client-side validation error.
func Validationf(format string, args ...any) *Error {
	return &Error{Op: "validate", Message: fmt.Sprintf(format, args...), Err: ErrValidation}
}

// Message returns the display-ready message of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

type causeError struct {
	kind  error
	cause error
}

func (c *causeError) Error() string {
	return c.kind.Error() + ": " + c.cause.Error()
}

func (c *causeError) Unwrap() []error {
	return []error{c.kind, c.cause}
}
