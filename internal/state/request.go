package state

import "fmt"

// Status is the lifecycle position of one asynchronous request.
type Status int

const (
	Idle Status = iota
	Loading
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Request is the UI-visible view of a state machine.
//
// Payload is the last successful result and survives a later failure, so a
// view can keep showing stale data under an error banner.
type Request[T any] struct {
	Status     Status
	Payload    T
	HasPayload bool
	Err        string
}

// Match dispatches on r.Status. Every branch is a required argument, so a
// caller cannot forget a state.
func Match[T, R any](r Request[T],
	idle func() R,
	loading func() R,
	succeeded func(payload T) R,
	failed func(msg string) R,
) R {
	switch r.Status {
	case Loading:
		return loading()
	case Succeeded:
		return succeeded(r.Payload)
	case Failed:
		return failed(r.Err)
	default:
		return idle()
	}
}
