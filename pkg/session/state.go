package session

// State is a session's position in the load and submit lifecycle.
type State string

const (
	StateIdle            State = "idle"
	StateLoading         State = "loading"
	StateReady           State = "ready"
	StateLoadFailed      State = "load_failed"
	StateSubmitting      State = "submitting"
	StateSubmitSucceeded State = "submit_succeeded"
	StateClosed          State = "closed"
)

// CanLoad reports whether Load may start from s. LoadFailed counts as a retry.
func (s State) CanLoad() bool {
	return s == StateIdle || s == StateLoadFailed
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateSubmitSucceeded || s == StateClosed
}
