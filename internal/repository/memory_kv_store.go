package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fadilmartias/candidate-screener/internal/model"
)

// MemoryKVStore keeps entries in process memory. It backs STORAGE_DRIVER=memory
// and the tests; nothing survives a restart.
type MemoryKVStore struct {
	mu      sync.RWMutex
	entries map[string]model.KVEntry
}

func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{entries: make(map[string]model.KVEntry)}
}

func (s *MemoryKVStore) Get(_ context.Context, key string) (*model.KVEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	out := cloneEntry(entry)
	return &out, nil
}

func (s *MemoryKVStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	entry, ok := s.entries[key]
	if !ok {
		entry = model.KVEntry{Key: key, CreatedAt: now}
	}
	entry.Value = append([]byte(nil), value...)
	entry.Version++
	entry.UpdatedAt = now
	s.entries[key] = entry
	return nil
}

func (s *MemoryKVStore) GetByPrefix(_ context.Context, prefix string) ([]model.KVEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.KVEntry, 0, len(s.entries))
	for key, entry := range s.entries {
		if strings.HasPrefix(key, prefix) {
			out = append(out, cloneEntry(entry))
		}
	}
	return out, nil
}

func (s *MemoryKVStore) CompareAndSwap(_ context.Context, key string, version int64, value []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || entry.Version != version {
		return false, nil
	}
	entry.Value = append([]byte(nil), value...)
	entry.Version++
	entry.UpdatedAt = time.Now()
	s.entries[key] = entry
	return true, nil
}

func cloneEntry(e model.KVEntry) model.KVEntry {
	e.Value = append([]byte(nil), e.Value...)
	return e
}
