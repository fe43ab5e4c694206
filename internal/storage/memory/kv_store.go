// Package memory provides in-memory implementations of the storage
// interfaces, used for tests and for running without external backends.
package memory

import (
	"context"
	"sync"

	"github.com/iinyiska/dextrend/internal/storage"
)

// PreferenceStore is an in-memory implementation of storage.PreferenceStore.
type PreferenceStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewPreferenceStore creates a new in-memory preference store.
func NewPreferenceStore() *PreferenceStore {
	return &PreferenceStore{data: make(map[string]string)}
}

var _ storage.PreferenceStore = (*PreferenceStore)(nil)

// Get retrieves the value for key. Returns ErrNotFound if absent.
func (s *PreferenceStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

// Set writes the value for key, replacing any previous value.
func (s *PreferenceStore) Set(_ context.Context, key, value string) error {
	if key == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

// WatchlistStore is an in-memory implementation of storage.WatchlistStore.
type WatchlistStore struct {
	mu      sync.RWMutex
	entries []string
}

// NewWatchlistStore creates a new in-memory watchlist store.
func NewWatchlistStore() *WatchlistStore {
	return &WatchlistStore{}
}

var _ storage.WatchlistStore = (*WatchlistStore)(nil)

// List returns the watchlist in insertion order.
func (s *WatchlistStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Put replaces the stored watchlist.
func (s *WatchlistStore) Put(_ context.Context, entries []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make([]string, len(entries))
	copy(s.entries, entries)
	return nil
}
