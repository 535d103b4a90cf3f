package store

import (
	"sync"

	"github.com/arbit-labs/arbit/core"
	"github.com/arbit-labs/arbit/ports"
)

// MemoryStore is an in-memory implementation of the TokenStore interface.
// Tokens are never written anywhere durable.
type MemoryStore struct {
	mu   sync.RWMutex
	pair core.TokenPair
}

// NewMemoryStore creates a new in-memory token store.
func NewMemoryStore() ports.TokenStore {
	return &MemoryStore{}
}

// Get returns the stored pair and whether one is held.
func (s *MemoryStore) Get() (core.TokenPair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.pair.Empty() {
		return core.TokenPair{}, false
	}
	return s.pair, true
}

// Set replaces the stored pair.
func (s *MemoryStore) Set(pair core.TokenPair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
}

// Clear drops the stored pair.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = core.TokenPair{}
}
