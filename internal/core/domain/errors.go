package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindStore
)

// Error is a classified error carrying a caller-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NewValidationError returns a KindValidation error with msg.
func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// MessageOf returns the caller-safe message of the first *Error in err's chain.
func MessageOf(err error) (string, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Message, true
	}
	return "", false
}

// StoreError wraps a backend failure. Its message is never shown to callers.
func StoreError(op string, err error) error {
	return &Error{Kind: KindStore, Message: op, Err: err}
}
