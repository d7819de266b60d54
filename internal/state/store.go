package state

import "sync"

// Store is the observable container shared by every state machine of one
// application instance. Machines notify it after each transition and
// subscribers are called synchronously, outside any machine lock.
type Store struct {
	mu     sync.Mutex
	subs   map[uint64]func()
	nextID uint64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{subs: make(map[uint64]func())}
}

// Subscribe registers fn for change notifications. The returned cancel func
// removes it and is safe to call more than once.
func (s *Store) Subscribe(fn func()) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = make(map[uint64]func())
	}
	s.nextID++
	id := s.nextID
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) notify() {
	if s == nil {
		return
	}
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
