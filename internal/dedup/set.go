package dedup

import (
	"container/list"
	"sync"
)

// Set records message ids already routed into the pipeline.
type Set interface {
	// Add inserts id and reports whether it was not present before.
	Add(id string) bool
	Contains(id string) bool
	Len() int
}

// MemorySet is a process-lifetime Set. With a positive capacity the oldest ids
// are evicted first; zero capacity keeps every id.
type MemorySet struct {
	mu       sync.Mutex
	capacity int
	ids      map[string]*list.Element
	order    *list.List
}

func NewMemorySet(capacity int) *MemorySet {
	if capacity < 0 {
		capacity = 0
	}
	return &MemorySet{
		capacity: capacity,
		ids:      make(map[string]*list.Element),
		order:    list.New(),
	}
}

func (s *MemorySet) Add(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		return false
	}

	s.ids[id] = s.order.PushBack(id)
	if s.capacity > 0 && s.order.Len() > s.capacity {
		oldest := s.order.Front()
		s.order.Remove(oldest)
		delete(s.ids, oldest.Value.(string))
	}
	return true
}

func (s *MemorySet) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

func (s *MemorySet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}
