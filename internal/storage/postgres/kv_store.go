// Package postgres implements the storage interfaces on PostgreSQL.
package postgres

import (
	"context"
	"fmt"

	"github.com/iinyiska/dextrend/internal/storage"
)

// PreferenceStore implements storage.PreferenceStore using PostgreSQL.
type PreferenceStore struct {
	pool *Pool
}

// NewPreferenceStore creates a new PreferenceStore.
func NewPreferenceStore(pool *Pool) *PreferenceStore {
	return &PreferenceStore{pool: pool}
}

var _ storage.PreferenceStore = (*PreferenceStore)(nil)

// Get retrieves the value for key. Returns ErrNotFound if absent.
func (s *PreferenceStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM preferences WHERE key = $1`, key,
	).Scan(&value)
	if err != nil {
		if isNotFoundError(err) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("get preference: %w", err)
	}
	return value, nil
}

// Set writes the value for key, replacing any previous value.
func (s *PreferenceStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return storage.ErrInvalidInput
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO preferences (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set preference: %w", err)
	}
	return nil
}

// WatchlistStore implements storage.WatchlistStore using PostgreSQL.
// The whole list is replaced per write, matching the write-through
// contract of the consuming state manager.
type WatchlistStore struct {
	pool *Pool
}

// NewWatchlistStore creates a new WatchlistStore.
func NewWatchlistStore(pool *Pool) *WatchlistStore {
	return &WatchlistStore{pool: pool}
}

var _ storage.WatchlistStore = (*WatchlistStore)(nil)

// List returns the watchlist in insertion order.
func (s *WatchlistStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT pair_key FROM watchlist ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	defer rows.Close()

	var entries []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan watchlist entry: %w", err)
		}
		entries = append(entries, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watchlist: %w", err)
	}
	return entries, nil
}

// Put replaces the stored watchlist atomically.
func (s *WatchlistStore) Put(ctx context.Context, entries []string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin watchlist tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM watchlist`); err != nil {
		return fmt.Errorf("clear watchlist: %w", err)
	}
	for i, key := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO watchlist (position, pair_key) VALUES ($1, $2)`, i, key,
		); err != nil {
			return fmt.Errorf("insert watchlist entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit watchlist: %w", err)
	}
	return nil
}
