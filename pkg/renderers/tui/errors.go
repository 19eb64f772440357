package tui

import "errors"

var (
	// ErrAborted signals the operator aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrInvalidSelection is returned by drivers that answer outside the
	// offered options.
	ErrInvalidSelection = errors.New("tui: selection out of range")
)
