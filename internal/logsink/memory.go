// internal/logsink/memory.go
package logsink

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemory() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Append(ctx context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *MemoryStore) ReadAll(ctx context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
