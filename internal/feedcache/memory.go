package feedcache

import (
	"context"
	"sync"
)

// MemoryBackend is a mutex-guarded in-process cache backend.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]Entry)}
}

var _ Backend = (*MemoryBackend)(nil)

// Get returns the entry for key, or (nil, nil) when absent.
func (b *MemoryBackend) Get(_ context.Context, key string) (*Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	entry, ok := b.entries[key]
	if !ok {
		return nil, nil
	}
	out := entry
	return &out, nil
}

// Set stores the entry for key.
func (b *MemoryBackend) Set(_ context.Context, key string, entry *Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[key] = *entry
	return nil
}
