package gateway

import "sync"

// subscribers is a set of callbacks addressed by the id handed out on add.
type subscribers[T any] struct {
	mu     sync.RWMutex
	nextID int
	items  map[int]T
}

// add registers item and returns the function removing it again.
func (s *subscribers[T]) add(item T) func() {
	s.mu.Lock()
	if s.items == nil {
		s.items = make(map[int]T)
	}
	s.nextID++
	id := s.nextID
	s.items[id] = item
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.items, id)
		s.mu.Unlock()
	}
}

// snapshot copies the current callbacks so they can run without the lock.
func (s *subscribers[T]) snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	return out
}

func (s *subscribers[T]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
