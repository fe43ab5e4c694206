// Package storage defines the persistence interfaces of the service and
// their shared error values. Implementations live in the memory, postgres
// and clickhouse subpackages.
package storage

import (
	"context"

	"github.com/iinyiska/dextrend/internal/domain"
)

// PreferenceStore is a small durable key-value store for user-facing
// preferences (theme, selected chain).
type PreferenceStore interface {
	// Get retrieves the value for key. Returns ErrNotFound if absent.
	Get(ctx context.Context, key string) (string, error)

	// Set writes the value for key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// WatchlistStore persists the ordered watchlist of pair keys.
// The whole list is written on every mutation (write-through, no batching).
type WatchlistStore interface {
	// List returns the watchlist in insertion order. Empty, not
	// ErrNotFound, when nothing has been stored.
	List(ctx context.Context) ([]string, error)

	// Put replaces the stored watchlist.
	Put(ctx context.Context, entries []string) error
}

// SiteSettingsStore holds the single site branding record.
type SiteSettingsStore interface {
	// Get returns the settings. Returns ErrNotFound before first Put.
	Get(ctx context.Context) (*domain.SiteSettings, error)

	// Put creates or replaces the settings.
	Put(ctx context.Context, s *domain.SiteSettings) error
}

// BannerStore provides CRUD over banners.
type BannerStore interface {
	// Insert adds a banner. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, b *domain.Banner) error

	// Update replaces a banner. Returns ErrNotFound if absent.
	Update(ctx context.Context, b *domain.Banner) error

	// Delete removes a banner. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// GetByID retrieves one banner. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*domain.Banner, error)

	// List returns banners ordered by order_index ASC, created_at ASC.
	// onlyActive filters to active records; position "" means all slots.
	List(ctx context.Context, onlyActive bool, position string) ([]*domain.Banner, error)
}

// AdStore provides CRUD over ad units.
type AdStore interface {
	Insert(ctx context.Context, a *domain.Ad) error
	Update(ctx context.Context, a *domain.Ad) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ad, error)

	// List returns ads ordered by order_index ASC, created_at ASC.
	List(ctx context.Context, onlyActive bool, position string) ([]*domain.Ad, error)
}

// PromotedTokenStore provides CRUD over operator-pinned tokens.
type PromotedTokenStore interface {
	Insert(ctx context.Context, p *domain.PromotedToken) error
	Update(ctx context.Context, p *domain.PromotedToken) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.PromotedToken, error)

	// List returns promoted tokens ordered by order_index ASC, created_at ASC.
	List(ctx context.Context, onlyActive bool) ([]*domain.PromotedToken, error)
}

// AdminAccountStore persists admin identities.
type AdminAccountStore interface {
	// Insert adds an account. Returns ErrDuplicateKey if the email exists.
	Insert(ctx context.Context, a *domain.AdminAccount) error

	// GetByEmail retrieves an account. Returns ErrNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*domain.AdminAccount, error)
}

// SessionStore persists issued admin session tokens.
type SessionStore interface {
	// Insert adds a session. Returns ErrDuplicateKey if the token exists.
	Insert(ctx context.Context, s *domain.Session) error

	// GetByToken retrieves a session. Returns ErrNotFound if absent.
	GetByToken(ctx context.Context, token string) (*domain.Session, error)

	// Delete removes a session. Returns ErrNotFound if absent.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes sessions with ExpiresAt <= now (ms).
	// Returns the number removed.
	DeleteExpired(ctx context.Context, nowMs int64) (int, error)
}

// PriceHistoryStore records sampled price points per pair.
type PriceHistoryStore interface {
	// InsertBulk appends price points. Duplicate (chain, pair, timestamp)
	// points are tolerated by timeseries backends.
	InsertBulk(ctx context.Context, points []*domain.PricePoint) error

	// GetByPairRange retrieves points for one pair within [from, to]
	// (epoch ms, inclusive), ordered by timestamp ASC.
	GetByPairRange(ctx context.Context, chainID, pairAddress string, from, to int64) ([]*domain.PricePoint, error)
}
