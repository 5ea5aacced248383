package usage

import (
	"context"
	"sync"
)

// MemoryBackend keeps usage in process memory. It backs tests and
// sessions started with history disabled.
type MemoryBackend struct {
	mu      sync.Mutex
	entries map[string]Entry
	pinned  map[string]struct{}
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend returns an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		entries: make(map[string]Entry),
		pinned:  make(map[string]struct{}),
	}
}

func (m *MemoryBackend) Get(_ context.Context, identity string) (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[identity]
	return e, ok, nil
}

func (m *MemoryBackend) Set(_ context.Context, identity string, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[identity] = e
	return nil
}

func (m *MemoryBackend) All(_ context.Context, _ func(string, error)) (map[string]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]Entry, len(m.entries))
	for id, e := range m.entries {
		out[id] = e
	}
	return out, nil
}

func (m *MemoryBackend) PinnedSet(_ context.Context) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]struct{}, len(m.pinned))
	for id := range m.pinned {
		out[id] = struct{}{}
	}
	return out, nil
}

func (m *MemoryBackend) SetPinnedSet(_ context.Context, pinned map[string]struct{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pinned = make(map[string]struct{}, len(pinned))
	for id := range pinned {
		m.pinned[id] = struct{}{}
	}
	return nil
}
