package errors

import (
	"errors"
	"fmt"
)

// Kind classifies application failures so the transport layer can map them
// without inspecting messages.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindAccessDenied
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAccessDenied:
		return "access_denied"
	case KindPersistence:
		return "persistence"
	}
	return "unknown"
}

// Error is the typed failure surfaced by every service operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports malformed or out-of-range input. Detected before any
// mutation; state is left untouched.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NotFound reports that the targeted Like, Match or User does not exist.
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// AccessDenied reports that the actor is not authorized for the target,
// e.g. not a participant of the match.
func AccessDenied(msg string) error {
	return &Error{Kind: KindAccessDenied, Message: msg}
}

// Persistence wraps a transaction/storage failure. The in-flight transaction
// has been rolled back by the time this is returned.
func Persistence(err error) error {
	return &Error{Kind: KindPersistence, Message: "storage operation failed", Err: err}
}

// KindOf extracts the Kind of an application error.
func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return 0, false
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
