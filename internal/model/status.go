package model

// SessionStatus is the lifecycle state of the current classification attempt.
type SessionStatus int

// Session status values.
const (
	StatusIdle SessionStatus = iota
	StatusSubmitting
	StatusSettled
	StatusSettledWithError
)

// String returns a human readable status name.
func (s SessionStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSettled:
		return "settled"
	case StatusSettledWithError:
		return "settled-with-error"
	default:
		return "unknown"
	}
}

// CanSubmit reports whether a new submission may start from this status.
func (s SessionStatus) CanSubmit() bool {
	return s != StatusSubmitting
}
