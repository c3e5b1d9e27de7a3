package pagestate

import (
	"sync"
)

// Navigation tells how a state change should be recorded in history.
type Navigation int

const (
	// Push records a new history entry. User navigation uses it.
	Push Navigation = iota
	// Replace rewrites the current history entry. Corrections use it so that
	// the back button does not return to a page that does not exist.
	Replace
)

// String implements fmt.Stringer.
func (n Navigation) String() string {
	if n == Replace {
		return "replace"
	}
	return "push"
}

// Change is delivered to subscribers whenever the state changes.
type Change struct {
	Previous   State
	Current    State
	Navigation Navigation
}

// Store is an observable holder of one view's State.
// It is safe for concurrent use. Subscribers are called synchronously, in
// subscription order, outside of the store lock.
type Store struct {
	mu          sync.Mutex
	state       State
	subscribers map[int]func(Change)
	nextID      int
}

// NewStore creates a store holding initial.
func NewStore(initial State) *Store {
	return &Store{
		state:       initial.clone(),
		subscribers: map[int]func(Change){},
	}
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Set moves to next as a push navigation.
// It reports whether the state changed.
func (s *Store) Set(next State) bool {
	return s.apply(next, Push)
}

// Replace moves to next as a replace navigation.
// It reports whether the state changed.
func (s *Store) Replace(next State) bool {
	return s.apply(next, Replace)
}

// SetPage navigates to page.
func (s *Store) SetPage(page int) bool {
	return s.Set(s.State().WithPage(page))
}

// SetPageSize changes the page size and returns to page 1.
func (s *Store) SetPageSize(size int) bool {
	return s.Set(s.State().WithPageSize(size))
}

// SetFilter changes one filter value and returns to page 1 when it differs.
func (s *Store) SetFilter(name, value string) bool {
	return s.Set(s.State().WithFilter(name, value))
}

// Subscribe registers fn for every subsequent change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) apply(next State, nav Navigation) bool {
	s.mu.Lock()
	if s.state.Equal(next) {
		s.mu.Unlock()
		return false
	}

	change := Change{
		Previous:   s.state,
		Current:    next.clone(),
		Navigation: nav,
	}
	s.state = change.Current
	subscribers := s.snapshot()
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(change)
	}
	return true
}

// snapshot returns the subscribers in subscription order. Callers hold mu.
func (s *Store) snapshot() []func(Change) {
	out := make([]func(Change), 0, len(s.subscribers))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.subscribers[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}
