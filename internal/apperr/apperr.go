// Package apperr defines the application's error taxonomy. Every failure
// returned by the auth and task layers carries one of the kinds below;
// transport code maps kinds to status codes and never inspects causes.
package apperr

import (
	"errors"
	"net/http"
)

// Kind is a machine-readable error classification.
type Kind string

const (
	// KindValidationFailed marks bad input shape or length.
	KindValidationFailed Kind = "VALIDATION_FAILED"
	// KindConflict marks a uniqueness violation, e.g. a duplicate email.
	KindConflict Kind = "CONFLICT"
	// KindUnauthorized marks bad credentials or a bad/expired token. It is
	// deliberately information-minimizing: multiple causes collapse into it.
	KindUnauthorized Kind = "UNAUTHORIZED"
	// KindNotFound marks a missing resource. A resource owned by someone
	// else is reported identically to one that never existed.
	KindNotFound Kind = "NOT_FOUND"
	// KindInternal marks store failures and other faults the caller
	// cannot recover from.
	KindInternal Kind = "INTERNAL"
)

// Error is the domain error type carrying a kind and a human message.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// New creates an error with a kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error that records an underlying cause. The cause is kept
// for logs; callers only ever see the kind and message.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf classifies an arbitrary error. Anything that is not an *Error is an
// internal fault.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps a kind to the wire-level status the transport uses.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidationFailed:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
