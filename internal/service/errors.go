package service

import "errors"

// Kind classifies workflow failures so the transport layer can map them
// to responses without string matching
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindForbidden
	KindInvalidState
	KindExpired
	KindValidation
	KindRateLimited
)

// Error is a typed workflow failure
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NotFound reports that an entity ID does not resolve
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict reports a duplicate or already-completed operation
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Forbidden reports that the actor is not the authorized party
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// InvalidState reports a transition attempted from the wrong state
func InvalidState(message string) *Error {
	return &Error{Kind: KindInvalidState, Message: message}
}

// Expired reports a time-boxed entity past its deadline
func Expired(message string) *Error {
	return &Error{Kind: KindExpired, Message: message}
}

// Validation reports a field-level validation failure
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// RateLimited reports that an attempt cap was exceeded
func RateLimited(message string) *Error {
	return &Error{Kind: KindRateLimited, Message: message}
}

// KindOf extracts the failure kind from an error chain, or KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
