package storage

import (
	"context"
	"sync"

	"github.com/pricelens/backend/internal/domain"
)

// MemoryStore is a thread-safe in-memory key-value store. It backs ephemeral
// watchlist runs that should leave nothing on disk.
// Values are copied on the way in and out so callers cannot alias stored bytes.
type MemoryStore struct {
	data  map[string][]byte
	mutex sync.RWMutex
}

var _ domain.KeyValueStore = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

// Get retrieves a value from the store
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, exists := s.data[key]
	if !exists {
		return nil, domain.ErrKeyNotFound
	}

	return cloneBytes(value), nil
}

// Set stores a value under key
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[key] = cloneBytes(value)
	return nil
}

// Delete removes a value from the store
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, key)
	return nil
}

// Size returns the current number of keys
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
