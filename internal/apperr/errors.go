// Package apperr defines the error taxonomy shared by pantry's adapters.
//
// Adapters wrap failures in one of three kinds. State machines turn any error
// into a failed status plus a message, so Message is the only place that
// decides what the user reads.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNetwork marks transport or remote API failures.
	ErrNetwork = errors.New("network error")
	// ErrNotFound marks a valid request with no matching entity.
	ErrNotFound = errors.New("not found")
	// ErrStorage marks local or remote persistence failures.
	ErrStorage = errors.New("storage error")
)

// Error carries the kind, the failing operation and the underlying cause.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Network wraps a transport failure.
func Network(op string, err error) error {
	return &Error{Kind: ErrNetwork, Op: op, Err: err}
}

// NotFound reports that what could not be found.
func NotFound(op, what string) error {
	return &Error{Kind: ErrNotFound, Op: op, Err: fmt.Errorf("%s not found", what)}
}

// Storage wraps a persistence failure.
func Storage(op string, err error) error {
	return &Error{Kind: ErrStorage, Op: op, Err: err}
}

// Message returns the human-readable text for err, or fallback when err has none.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Err != nil {
		if msg := strings.TrimSpace(appErr.Err.Error()); msg != "" {
			return msg
		}
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}
