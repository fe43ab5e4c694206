package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/iinyiska/dextrend/internal/domain"
	"github.com/iinyiska/dextrend/internal/storage"
)

// SiteSettingsStore is an in-memory implementation of storage.SiteSettingsStore.
type SiteSettingsStore struct {
	mu       sync.RWMutex
	settings *domain.SiteSettings
}

// NewSiteSettingsStore creates a new in-memory settings store.
func NewSiteSettingsStore() *SiteSettingsStore {
	return &SiteSettingsStore{}
}

var _ storage.SiteSettingsStore = (*SiteSettingsStore)(nil)

// Get returns the settings. Returns ErrNotFound before first Put.
func (s *SiteSettingsStore) Get(_ context.Context) (*domain.SiteSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return nil, storage.ErrNotFound
	}
	settingsCopy := *s.settings
	return &settingsCopy, nil
}

// Put creates or replaces the settings.
func (s *SiteSettingsStore) Put(_ context.Context, settings *domain.SiteSettings) error {
	if settings == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settingsCopy := *settings
	s.settings = &settingsCopy
	return nil
}

// BannerStore is an in-memory implementation of storage.BannerStore.
type BannerStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Banner
}

// NewBannerStore creates a new in-memory banner store.
func NewBannerStore() *BannerStore {
	return &BannerStore{data: make(map[string]*domain.Banner)}
}

var _ storage.BannerStore = (*BannerStore)(nil)

// Insert adds a banner. Returns ErrDuplicateKey if the ID exists.
func (s *BannerStore) Insert(_ context.Context, b *domain.Banner) error {
	if b == nil || b.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[b.ID]; exists {
		return storage.ErrDuplicateKey
	}
	bannerCopy := *b
	s.data[b.ID] = &bannerCopy
	return nil
}

// Update replaces a banner. Returns ErrNotFound if absent.
func (s *BannerStore) Update(_ context.Context, b *domain.Banner) error {
	if b == nil || b.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[b.ID]; !exists {
		return storage.ErrNotFound
	}
	bannerCopy := *b
	s.data[b.ID] = &bannerCopy
	return nil
}

// Delete removes a banner. Returns ErrNotFound if absent.
func (s *BannerStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[id]; !exists {
		return storage.ErrNotFound
	}
	delete(s.data, id)
	return nil
}

// GetByID retrieves one banner. Returns ErrNotFound if absent.
func (s *BannerStore) GetByID(_ context.Context, id string) (*domain.Banner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	bannerCopy := *b
	return &bannerCopy, nil
}

// List returns banners ordered by order_index ASC, created_at ASC.
func (s *BannerStore) List(_ context.Context, onlyActive bool, position string) ([]*domain.Banner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Banner
	for _, b := range s.data {
		if onlyActive && !b.Active {
			continue
		}
		if position != "" && b.Position != position {
			continue
		}
		bannerCopy := *b
		result = append(result, &bannerCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].OrderIndex != result[j].OrderIndex {
			return result[i].OrderIndex < result[j].OrderIndex
		}
		return result[i].CreatedAt < result[j].CreatedAt
	})
	return result, nil
}

// AdStore is an in-memory implementation of storage.AdStore.
type AdStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Ad
}

// NewAdStore creates a new in-memory ad store.
func NewAdStore() *AdStore {
	return &AdStore{data: make(map[string]*domain.Ad)}
}

var _ storage.AdStore = (*AdStore)(nil)

// Insert adds an ad. Returns ErrDuplicateKey if the ID exists.
func (s *AdStore) Insert(_ context.Context, a *domain.Ad) error {
	if a == nil || a.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[a.ID]; exists {
		return storage.ErrDuplicateKey
	}
	adCopy := *a
	s.data[a.ID] = &adCopy
	return nil
}

// Update replaces an ad. Returns ErrNotFound if absent.
func (s *AdStore) Update(_ context.Context, a *domain.Ad) error {
	if a == nil || a.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[a.ID]; !exists {
		return storage.ErrNotFound
	}
	adCopy := *a
	s.data[a.ID] = &adCopy
	return nil
}

// Delete removes an ad. Returns ErrNotFound if absent.
func (s *AdStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[id]; !exists {
		return storage.ErrNotFound
	}
	delete(s.data, id)
	return nil
}

// GetByID retrieves one ad. Returns ErrNotFound if absent.
func (s *AdStore) GetByID(_ context.Context, id string) (*domain.Ad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	adCopy := *a
	return &adCopy, nil
}

// List returns ads ordered by order_index ASC, created_at ASC.
func (s *AdStore) List(_ context.Context, onlyActive bool, position string) ([]*domain.Ad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Ad
	for _, a := range s.data {
		if onlyActive && !a.Active {
			continue
		}
		if position != "" && a.Position != position {
			continue
		}
		adCopy := *a
		result = append(result, &adCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].OrderIndex != result[j].OrderIndex {
			return result[i].OrderIndex < result[j].OrderIndex
		}
		return result[i].CreatedAt < result[j].CreatedAt
	})
	return result, nil
}

// PromotedTokenStore is an in-memory implementation of storage.PromotedTokenStore.
type PromotedTokenStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PromotedToken
}

// NewPromotedTokenStore creates a new in-memory promoted token store.
func NewPromotedTokenStore() *PromotedTokenStore {
	return &PromotedTokenStore{data: make(map[string]*domain.PromotedToken)}
}

var _ storage.PromotedTokenStore = (*PromotedTokenStore)(nil)

// Insert adds a promoted token. Returns ErrDuplicateKey if the ID exists.
func (s *PromotedTokenStore) Insert(_ context.Context, p *domain.PromotedToken) error {
	if p == nil || p.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.ID]; exists {
		return storage.ErrDuplicateKey
	}
	tokenCopy := *p
	s.data[p.ID] = &tokenCopy
	return nil
}

// Update replaces a promoted token. Returns ErrNotFound if absent.
func (s *PromotedTokenStore) Update(_ context.Context, p *domain.PromotedToken) error {
	if p == nil || p.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.ID]; !exists {
		return storage.ErrNotFound
	}
	tokenCopy := *p
	s.data[p.ID] = &tokenCopy
	return nil
}

// Delete removes a promoted token. Returns ErrNotFound if absent.
func (s *PromotedTokenStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[id]; !exists {
		return storage.ErrNotFound
	}
	delete(s.data, id)
	return nil
}

// GetByID retrieves one promoted token. Returns ErrNotFound if absent.
func (s *PromotedTokenStore) GetByID(_ context.Context, id string) (*domain.PromotedToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	tokenCopy := *p
	return &tokenCopy, nil
}

// List returns promoted tokens ordered by order_index ASC, created_at ASC.
func (s *PromotedTokenStore) List(_ context.Context, onlyActive bool) ([]*domain.PromotedToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PromotedToken
	for _, p := range s.data {
		if onlyActive && !p.Active {
			continue
		}
		tokenCopy := *p
		result = append(result, &tokenCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].OrderIndex != result[j].OrderIndex {
			return result[i].OrderIndex < result[j].OrderIndex
		}
		return result[i].CreatedAt < result[j].CreatedAt
	})
	return result, nil
}
