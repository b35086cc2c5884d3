package domain

import "errors"

// ErrorKind classifies a battle engine failure for callers. Callers branch on
// the kind and show the message; they never need to parse error text.
type ErrorKind string

const (
	// KindValidation marks malformed or missing input.
	KindValidation ErrorKind = "VALIDATION"
	// KindNotFound marks a missing battle, action, or character reference.
	KindNotFound ErrorKind = "NOT_FOUND"
	// KindForbidden marks an authenticated caller without authority for the
	// attempted mutation.
	KindForbidden ErrorKind = "FORBIDDEN"
	// KindConflict marks an operation that violates a state invariant, such
	// as recording into a closed battle or re-adding a participant.
	KindConflict ErrorKind = "CONFLICT"
	// KindInternal marks an unexpected infrastructure failure surfaced with
	// a safe message.
	KindInternal ErrorKind = "INTERNAL"
)

// Error is a caller-recoverable battle engine failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// NewValidation builds a validation failure.
func NewValidation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewNotFound builds a missing-record failure.
func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewForbidden builds an authorization failure.
func NewForbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NewConflict builds a state-invariant failure.
func NewConflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewInternal wraps an infrastructure failure with a safe message.
func NewInternal(message string) *Error {
	return &Error{Kind: KindInternal, Message: message}
}

// KindOf extracts the error kind, or KindInternal for unclassified errors.
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}
