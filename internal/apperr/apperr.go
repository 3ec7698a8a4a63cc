// Package apperr classifies failures into the small set of kinds the CLI and
// the interactive front-end know how to present.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the category of a failure.
type Kind string

const (
	// KindNotFound covers a missing live identity, slot or backup. The user
	// can fix it, so the message names the corrective action.
	KindNotFound Kind = "not_found"
	// KindInvalidState covers a malformed ledger or config backup. Never
	// repaired automatically.
	KindInvalidState Kind = "invalid_state"
	// KindIO wraps filesystem and external-process failures.
	KindIO Kind = "io"
)

// Error carries a kind, the operation that failed and an optional cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Cause)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Cause)
	}
	return e.Op
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns an error of the given kind without a cause.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap attaches a kind to err. It returns nil for a nil err. An err that is
// already classified keeps its original kind.
func Wrap(kind Kind, op, message string, err error) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		if message == "" {
			return fmt.Errorf("%s: %w", op, err)
		}
		return fmt.Errorf("%s: %s: %w", op, message, err)
	}
	return &Error{Kind: kind, Op: op, Message: message, Cause: err}
}

// KindOf reports the kind of the first classified error in the chain.
func KindOf(err error) (Kind, bool) {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind, true
	}
	return "", false
}

// IsKind checks whether the first classified error in the chain has kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
