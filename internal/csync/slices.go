package csync

import (
	"slices"
	"sync"
)

// Slice is a slice guarded by a read/write mutex.
type Slice[T any] struct {
	inner []T
	mu    sync.RWMutex
}

func NewSlice[T any]() *Slice[T] {
	return &Slice[T]{}
}

func (s *Slice[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.inner)
}

// SetSlice replaces the contents with a copy of items.
func (s *Slice[T]) SetSlice(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner = slices.Clone(items)
}

// Window returns a copy of the elements in [start, end), clamped to bounds,
// together with the length at the time of the copy.
func (s *Slice[T]) Window(start, end int) ([]T, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.inner)
	start = min(max(start, 0), n)
	end = min(max(end, start), n)
	return slices.Clone(s.inner[start:end]), n
}
