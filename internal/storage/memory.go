package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps values for the lifetime of the process only.
type MemoryStore struct {
	mu      sync.RWMutex
	writer  string
	entries map[string]fileEntry
}

func NewMemoryStore(writer string) *MemoryStore {
	return &MemoryStore{
		writer:  writer,
		entries: make(map[string]fileEntry),
	}
}

func (m *MemoryStore) Backend() string {
	return BackendMemory
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(entry.Value), nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = fileEntry{
		Value:     string(value),
		Writer:    m.writer,
		UpdatedAt: time.Now().UnixMilli(),
	}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

func (m *MemoryStore) Stat(ctx context.Context, key string) (*Meta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &Meta{
		Key:       key,
		Size:      len(entry.Value),
		Writer:    entry.Writer,
		UpdatedAt: time.UnixMilli(entry.UpdatedAt),
	}, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
