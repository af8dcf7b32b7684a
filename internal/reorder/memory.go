package reorder

import "sync"

// MemoryStore keeps orderings in memory
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string][]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string][]string)}
}

// LoadOrder returns the ordering saved under key
func (s *MemoryStore) LoadOrder(key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.orders[key]...), nil
}

// SaveOrder replaces the ordering saved under key
func (s *MemoryStore) SaveOrder(key string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[key] = append([]string(nil), ids...)
	return nil
}
