package state

import (
	"context"
	"sync"

	"github.com/five82/pantry/internal/apperr"
)

const defaultFallback = "Something went wrong"

// Ticket identifies one Begin call. Resolve uses it to recognise stale work.
type Ticket struct {
	seq uint64
}

// Option configures a Machine.
type Option func(*machineOptions)

type machineOptions struct {
	fallback string
	unfenced bool
}

// WithFallback sets the message used when a failure carries no text.
func WithFallback(msg string) Option {
	return func(o *machineOptions) { o.fallback = msg }
}

// Unfenced makes the machine apply every resolution in the order it arrives,
// so the last request to resolve wins even when it was issued first.
// By default a resolution for a superseded ticket is dropped.
func Unfenced() Option {
	return func(o *machineOptions) { o.unfenced = true }
}

// Machine drives one Request through idle, loading, succeeded and failed.
type Machine[T any] struct {
	store *Store
	opts  machineOptions

	mu     sync.RWMutex
	req    Request[T]
	seq    uint64
	floor  uint64 // tickets at or below floor were cleared
	closed bool
}

// NewMachine returns an idle machine that notifies store on every transition.
// store may be nil.
func NewMachine[T any](store *Store, opts ...Option) *Machine[T] {
	o := machineOptions{fallback: defaultFallback}
	for _, opt := range opts {
		opt(&o)
	}
	return &Machine[T]{store: store, opts: o}
}

// Snapshot returns the current request view.
func (m *Machine[T]) Snapshot() Request[T] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.req
}

// Begin moves the machine to Loading, clears the error and returns the ticket
// the eventual Resolve must present.
func (m *Machine[T]) Begin() Ticket {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return Ticket{}
	}
	m.seq++
	t := Ticket{seq: m.seq}
	m.req.Status = Loading
	m.req.Err = ""
	m.mu.Unlock()

	m.store.notify()
	return t
}

// Resolve applies the outcome of the request identified by t. It reports
// whether the outcome was applied.
func (m *Machine[T]) Resolve(t Ticket, payload T, err error) bool {
	m.mu.Lock()
	if m.closed || t.seq <= m.floor || (!m.opts.unfenced && t.seq != m.seq) {
		m.mu.Unlock()
		return false
	}
	if err != nil {
		m.req.Status = Failed
		m.req.Err = apperr.Message(err, m.opts.fallback)
	} else {
		m.req.Status = Succeeded
		m.req.Payload = payload
		m.req.HasPayload = true
		m.req.Err = ""
	}
	m.mu.Unlock()

	m.store.notify()
	return true
}

// Run begins a request, calls fn and resolves with its outcome.
func (m *Machine[T]) Run(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	t := m.Begin()
	payload, err := fn(ctx)
	m.Resolve(t, payload, err)
	return payload, err
}

// Set stores payload as a success without a request, as a push update does.
// It does not supersede in-flight requests.
func (m *Machine[T]) Set(payload T) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.req.Status = Succeeded
	m.req.Payload = payload
	m.req.HasPayload = true
	m.req.Err = ""
	m.mu.Unlock()

	m.store.notify()
}

// Update replaces the payload with fn(payload) without changing the status.
// fn must return a new value rather than mutate its argument.
func (m *Machine[T]) Update(fn func(T) T) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.req.Payload = fn(m.req.Payload)
	m.req.HasPayload = true
	m.mu.Unlock()

	m.store.notify()
}

// ResetError drops the error message and keeps everything else.
func (m *Machine[T]) ResetError() {
	m.mu.Lock()
	m.req.Err = ""
	m.mu.Unlock()

	m.store.notify()
}

// Clear returns the machine to Idle with no payload. In-flight requests are
// superseded, also for unfenced machines.
func (m *Machine[T]) Clear() {
	m.mu.Lock()
	m.floor = m.seq
	m.req = Request[T]{}
	m.mu.Unlock()

	m.store.notify()
}

// Close tears the machine down. Later transitions are ignored.
func (m *Machine[T]) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}
