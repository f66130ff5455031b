package repositories

import (
	"slices"
	"sync"
)

// memoryStore is an insertion-ordered, mutex-guarded slice keyed by id.
type memoryStore[T any] struct {
	mu    sync.RWMutex
	items []T
	idOf  func(T) string
}

func newMemoryStore[T any](idOf func(T) string) *memoryStore[T] {
	return &memoryStore[T]{idOf: idOf}
}

func (s *memoryStore[T]) snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

func (s *memoryStore[T]) get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

func (s *memoryStore[T]) find(match func(T) bool) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (s *memoryStore[T]) count(match func(T) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if match == nil {
		return len(s.items)
	}
	n := 0
	for _, item := range s.items {
		if match(item) {
			n++
		}
	}
	return n
}

func (s *memoryStore[T]) insert(items ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
}

// update applies fn to the stored item under the write lock. It reports
// false when the id is unknown.
func (s *memoryStore[T]) update(id string, fn func(T) T) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		var zero T
		return zero, false
	}
	s.items[i] = fn(s.items[i])
	return s.items[i], true
}

func (s *memoryStore[T]) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

// indexOf must be called with the lock held.
func (s *memoryStore[T]) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(item T) bool { return s.idOf(item) == id })
}
