// Package appstate holds per-deployment session state: theme, selected
// chain, watchlist and transient search state. Durable pieces write
// through to the preference and watchlist stores.
package appstate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/iinyiska/dextrend/internal/domain"
	"github.com/iinyiska/dextrend/internal/storage"
)

// ThemeListener is notified after a theme change has been persisted.
type ThemeListener func(theme string)

// Options configures a Manager.
type Options struct {
	Preferences storage.PreferenceStore
	Watchlist   storage.WatchlistStore
	Logger      *log.Logger
}

// Manager is the mutable application state. All methods are safe for
// concurrent use. Construct with New, then call Init before serving.
type Manager struct {
	prefs  storage.PreferenceStore
	watch  storage.WatchlistStore
	logger *log.Logger

	mu            sync.RWMutex
	theme         string
	selectedChain string // "" means all chains
	watchlist     []string
	searchQuery   string
	searchResults []domain.Pair
	searchLoading bool
	sidebarOpen   bool
	listeners     []ThemeListener
}

// New creates a Manager. No storage reads happen until Init.
func New(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[appstate] ", log.LstdFlags)
	}
	return &Manager{
		prefs:  opts.Preferences,
		watch:  opts.Watchlist,
		logger: logger,
		theme:  domain.DefaultTheme,
	}
}

// Init loads the persisted theme, selected chain and watchlist. Missing
// values fall back to defaults (dark theme, all chains, empty list).
func (m *Manager) Init(ctx context.Context) error {
	theme, err := m.prefs.Get(ctx, domain.PrefTheme)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("load theme: %w", err)
		}
		theme = domain.DefaultTheme
	}
	if theme != domain.ThemeDark && theme != domain.ThemeLight {
		m.logger.Printf("ignoring persisted theme %q", theme)
		theme = domain.DefaultTheme
	}

	chain, err := m.prefs.Get(ctx, domain.PrefSelectedChain)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("load selected chain: %w", err)
		}
		chain = ""
	}

	entries, err := m.watch.List(ctx)
	if err != nil {
		return fmt.Errorf("load watchlist: %w", err)
	}

	m.mu.Lock()
	m.theme = theme
	m.selectedChain = chain
	m.watchlist = entries
	m.mu.Unlock()
	return nil
}

// SubscribeTheme registers a listener invoked after each theme change.
func (m *Manager) SubscribeTheme(fn ThemeListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Theme returns the current theme.
func (m *Manager) Theme() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.theme
}

// SetTheme persists and applies the theme. Only "dark" and "light" are
// accepted.
func (m *Manager) SetTheme(ctx context.Context, theme string) error {
	if theme != domain.ThemeDark && theme != domain.ThemeLight {
		return fmt.Errorf("unknown theme %q: %w", theme, storage.ErrInvalidInput)
	}
	if err := m.prefs.Set(ctx, domain.PrefTheme, theme); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}

	m.mu.Lock()
	m.theme = theme
	listeners := make([]ThemeListener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(theme)
	}
	return nil
}

// ToggleTheme flips between dark and light and returns the new theme.
func (m *Manager) ToggleTheme(ctx context.Context) (string, error) {
	next := domain.ThemeDark
	if m.Theme() == domain.ThemeDark {
		next = domain.ThemeLight
	}
	if err := m.SetTheme(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

// SelectedChain returns the chain filter; "" means all chains.
func (m *Manager) SelectedChain() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selectedChain
}

// SetSelectedChain persists and applies the chain filter. Empty clears it;
// a non-empty chain must be a supported chain ID.
func (m *Manager) SetSelectedChain(ctx context.Context, chainID string) error {
	if chainID != "" && domain.ChainByID(chainID) == nil {
		return fmt.Errorf("unknown chain %q: %w", chainID, storage.ErrInvalidInput)
	}
	if err := m.prefs.Set(ctx, domain.PrefSelectedChain, chainID); err != nil {
		return fmt.Errorf("persist selected chain: %w", err)
	}

	m.mu.Lock()
	m.selectedChain = chainID
	m.mu.Unlock()
	return nil
}

// Watchlist returns a copy of the watchlist in insertion order.
func (m *Manager) Watchlist() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.watchlist))
	copy(out, m.watchlist)
	return out
}

// IsInWatchlist reports whether the pair is on the watchlist.
func (m *Manager) IsInWatchlist(chainID, pairAddress string) bool {
	key := domain.PairKey(chainID, pairAddress)

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, entry := range m.watchlist {
		if entry == key {
			return true
		}
	}
	return false
}

// AddToWatchlist appends the pair. Adding a pair already on the list is a
// no-op, so the list behaves as an ordered set.
func (m *Manager) AddToWatchlist(ctx context.Context, chainID, pairAddress string) error {
	if chainID == "" || pairAddress == "" {
		return storage.ErrInvalidInput
	}
	key := domain.PairKey(chainID, pairAddress)

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, entry := range m.watchlist {
		if entry == key {
			return nil
		}
	}

	next := make([]string, len(m.watchlist), len(m.watchlist)+1)
	copy(next, m.watchlist)
	next = append(next, key)

	if err := m.watch.Put(ctx, next); err != nil {
		return fmt.Errorf("persist watchlist: %w", err)
	}
	m.watchlist = next
	return nil
}

// RemoveFromWatchlist drops the pair. Removing an absent pair is a no-op.
func (m *Manager) RemoveFromWatchlist(ctx context.Context, chainID, pairAddress string) error {
	key := domain.PairKey(chainID, pairAddress)

	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]string, 0, len(m.watchlist))
	for _, entry := range m.watchlist {
		if entry != key {
			next = append(next, entry)
		}
	}
	if len(next) == len(m.watchlist) {
		return nil
	}

	if err := m.watch.Put(ctx, next); err != nil {
		return fmt.Errorf("persist watchlist: %w", err)
	}
	m.watchlist = next
	return nil
}

// SearchQuery returns the current search query.
func (m *Manager) SearchQuery() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.searchQuery
}

// SetSearchQuery stores the query string.
func (m *Manager) SetSearchQuery(q string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchQuery = q
}

// SearchResults returns the last stored search results.
func (m *Manager) SearchResults() []domain.Pair {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Pair, len(m.searchResults))
	copy(out, m.searchResults)
	return out
}

// SetSearchResults stores search results and clears the loading flag.
func (m *Manager) SetSearchResults(pairs []domain.Pair) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.searchResults = make([]domain.Pair, len(pairs))
	copy(m.searchResults, pairs)
	m.searchLoading = false
}

// SearchLoading reports whether a search is in flight.
func (m *Manager) SearchLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.searchLoading
}

// SetSearchLoading sets the in-flight flag.
func (m *Manager) SetSearchLoading(loading bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchLoading = loading
}

// SidebarOpen reports the sidebar state.
func (m *Manager) SidebarOpen() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sidebarOpen
}

// SetSidebarOpen sets the sidebar state.
func (m *Manager) SetSidebarOpen(open bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sidebarOpen = open
}

// ToggleSidebar flips the sidebar state and returns the new value.
func (m *Manager) ToggleSidebar() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sidebarOpen = !m.sidebarOpen
	return m.sidebarOpen
}
