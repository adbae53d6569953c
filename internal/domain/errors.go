package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure surfaced by the core wraps exactly one of these
// so the transport layer can dispatch with errors.Is.
var (
	// ErrNotFound indicates a referenced project/ticket/comment/user is absent.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the actor is authenticated but not permitted.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated indicates missing or invalid identity.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalid indicates malformed or out-of-enum field values.
	ErrInvalid = errors.New("invalid")
	// ErrConflict indicates a duplicate membership or unique-key collision.
	ErrConflict = errors.New("conflict")
)

// Error pairs a kind with a human-readable message. The message is safe to
// show to callers; store diagnostics never travel through it.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) error {
	return &Error{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(format string, args ...any) error {
	return &Error{Kind: ErrUnauthenticated, Message: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...any) error {
	return &Error{Kind: ErrInvalid, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}
