package favorites

import (
	"context"
	"sync"
)

// Subscription is the handle of one realtime favorites stream.
type Subscription struct {
	cancel   context.CancelFunc
	done     chan struct{}
	once     sync.Once
	mu       sync.Mutex
	closed   bool
	onChange func([]Record)
}

// newSubscription starts run in its own goroutine. run hands lists to deliver,
// which forwards them to onChange until the handle is closed.
func newSubscription(parent context.Context, onChange func([]Record), run func(ctx context.Context, deliver func([]Record))) *Subscription {
	ctx, cancel := context.WithCancel(parent)
	s := &Subscription{cancel: cancel, done: make(chan struct{}), onChange: onChange}
	go func() {
		defer close(s.done)
		run(ctx, s.deliver)
	}()
	return s
}

// Close releases the stream. It is safe to call more than once and before the
// stream is established. No list is delivered after Close returns, so
// onChange must not call Close.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		s.cancel()
	})
}

// Done is closed once the stream goroutine has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) deliver(records []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.onChange == nil {
		return
	}
	s.onChange(records)
}
