package session

import "errors"

var (
	// ErrIncomplete reports a submit attempt while required answers are
	// missing.
	ErrIncomplete = errors.New("session: required fields unanswered")
	// ErrInvalidState reports an operation not allowed in the current state.
	ErrInvalidState = errors.New("session: operation not allowed in current state")
	// ErrClosed reports use after Close.
	ErrClosed = errors.New("session: closed")
	// ErrUnknownSection reports a toggle for an identifier that is not a
	// section of the loaded tree.
	ErrUnknownSection = errors.New("session: unknown section")
)
