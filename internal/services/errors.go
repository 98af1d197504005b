package services

import (
	"context"
	"errors"
)

// Kind classifies service failures. Handlers map kinds to status codes.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindConflict      Kind = "conflict"
	KindSelfReference Kind = "self_reference"
	KindNotFound      Kind = "not_found"
	KindStorage       Kind = "storage"
)

// Error is returned by every service operation that fails. Message is safe to
// show to callers; Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Kind sentinels for errors.Is.
var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrConflict      = &Error{Kind: KindConflict}
	ErrSelfReference = &Error{Kind: KindSelfReference}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrStorage       = &Error{Kind: KindStorage}
)

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Retryable reports a storage failure caused by the per-call deadline.
func (e *Error) Retryable() bool {
	return e.Kind == KindStorage && errors.Is(e.Err, context.DeadlineExceeded)
}

// IsRetryable reports whether err is a retryable service error.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable()
}

func validationError(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func conflictError(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func selfReferenceError(msg string) error {
	return &Error{Kind: KindSelfReference, Message: msg}
}

func notFoundError(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// storageError wraps an unexpected failure. Errors that are already service
// errors pass through, so transaction callbacks can return them unchanged.
func storageError(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindStorage, Message: "something went wrong", Err: err}
}
