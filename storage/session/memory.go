package sessionstore

import (
	"sync"

	"github.com/mawere/uniport/core/session"
)

// MemoryStore is an in-memory session.Store for tests and throwaway runs.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]string
}

var _ session.Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[key]
}

func (s *MemoryStore) Set(entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range entries {
		s.entries[k] = v
	}
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]string)
	return nil
}

// Snapshot copies the current entries; handy for asserting a store was left
// untouched.
func (s *MemoryStore) Snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		cp[k] = v
	}
	return cp
}
