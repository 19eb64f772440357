package backend

import "errors"

var (
	// ErrNetworkFailure reports a transport error or a non-success status on
	// a fetch.
	ErrNetworkFailure = errors.New("backend: network failure")
	// ErrSubmissionRejected reports a non-success status on submit.
	ErrSubmissionRejected = errors.New("backend: submission rejected")
)
