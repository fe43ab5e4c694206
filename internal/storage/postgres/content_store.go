package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iinyiska/dextrend/internal/domain"
	"github.com/iinyiska/dextrend/internal/storage"
)

// SiteSettingsStore implements storage.SiteSettingsStore using PostgreSQL.
// Settings live in a single fixed row (id = 1).
type SiteSettingsStore struct {
	pool *Pool
}

// NewSiteSettingsStore creates a new SiteSettingsStore.
func NewSiteSettingsStore(pool *Pool) *SiteSettingsStore {
	return &SiteSettingsStore{pool: pool}
}

var _ storage.SiteSettingsStore = (*SiteSettingsStore)(nil)

// Get returns the settings. Returns ErrNotFound before first Put.
func (s *SiteSettingsStore) Get(ctx context.Context) (*domain.SiteSettings, error) {
	var out domain.SiteSettings
	err := s.pool.QueryRow(ctx, `
		SELECT logo_url, logo_text, site_title, site_description,
		       primary_color, secondary_color, header_bg_color, updated_at
		FROM site_settings WHERE id = 1
	`).Scan(
		&out.LogoURL, &out.LogoText, &out.SiteTitle, &out.SiteDescription,
		&out.PrimaryColor, &out.SecondaryColor, &out.HeaderBgColor, &out.UpdatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get site settings: %w", err)
	}
	return &out, nil
}

// Put creates or replaces the settings.
func (s *SiteSettingsStore) Put(ctx context.Context, settings *domain.SiteSettings) error {
	if settings == nil {
		return storage.ErrInvalidInput
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO site_settings (
			id, logo_url, logo_text, site_title, site_description,
			primary_color, secondary_color, header_bg_color, updated_at
		) VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			logo_url = EXCLUDED.logo_url,
			logo_text = EXCLUDED.logo_text,
			site_title = EXCLUDED.site_title,
			site_description = EXCLUDED.site_description,
			primary_color = EXCLUDED.primary_color,
			secondary_color = EXCLUDED.secondary_color,
			header_bg_color = EXCLUDED.header_bg_color,
			updated_at = EXCLUDED.updated_at
	`,
		settings.LogoURL, settings.LogoText, settings.SiteTitle,
		settings.SiteDescription, settings.PrimaryColor,
		settings.SecondaryColor, settings.HeaderBgColor, settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("put site settings: %w", err)
	}
	return nil
}

// BannerStore implements storage.BannerStore using PostgreSQL.
type BannerStore struct {
	pool *Pool
}

// NewBannerStore creates a new BannerStore.
func NewBannerStore(pool *Pool) *BannerStore {
	return &BannerStore{pool: pool}
}

var _ storage.BannerStore = (*BannerStore)(nil)

// Insert adds a banner. Returns ErrDuplicateKey if the ID exists.
func (s *BannerStore) Insert(ctx context.Context, b *domain.Banner) error {
	if b == nil || b.ID == "" {
		return storage.ErrInvalidInput
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO banners (id, title, description, image_url, link_url,
			position, is_active, order_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, b.ID, b.Title, b.Description, b.ImageURL, b.LinkURL,
		b.Position, b.Active, b.OrderIndex, b.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert banner: %w", err)
	}
	return nil
}

// Update replaces a banner. Returns ErrNotFound if absent.
func (s *BannerStore) Update(ctx context.Context, b *domain.Banner) error {
	if b == nil || b.ID == "" {
		return storage.ErrInvalidInput
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE banners SET title = $2, description = $3, image_url = $4,
			link_url = $5, position = $6, is_active = $7, order_index = $8
		WHERE id = $1
	`, b.ID, b.Title, b.Description, b.ImageURL, b.LinkURL,
		b.Position, b.Active, b.OrderIndex)
	if err != nil {
		return fmt.Errorf("update banner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Delete removes a banner. Returns ErrNotFound if absent.
func (s *BannerStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM banners WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete banner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetByID retrieves one banner. Returns ErrNotFound if absent.
func (s *BannerStore) GetByID(ctx context.Context, id string) (*domain.Banner, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, title, description, image_url, link_url,
		       position, is_active, order_index, created_at
		FROM banners WHERE id = $1
	`, id)
	b, err := scanBanner(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get banner: %w", err)
	}
	return b, nil
}

// List returns banners ordered by order_index ASC, created_at ASC.
func (s *BannerStore) List(ctx context.Context, onlyActive bool, position string) ([]*domain.Banner, error) {
	query := `
		SELECT id, title, description, image_url, link_url,
		       position, is_active, order_index, created_at
		FROM banners
		WHERE ($1 = false OR is_active)
		  AND ($2 = '' OR position = $2)
		ORDER BY order_index ASC, created_at ASC
	`
	rows, err := s.pool.Query(ctx, query, onlyActive, position)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	defer rows.Close()

	var result []*domain.Banner
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan banner: %w", err)
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

func scanBanner(row pgx.Row) (*domain.Banner, error) {
	var b domain.Banner
	err := row.Scan(&b.ID, &b.Title, &b.Description, &b.ImageURL, &b.LinkURL,
		&b.Position, &b.Active, &b.OrderIndex, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// AdStore implements storage.AdStore using PostgreSQL.
type AdStore struct {
	pool *Pool
}

// NewAdStore creates a new AdStore.
func NewAdStore(pool *Pool) *AdStore {
	return &AdStore{pool: pool}
}

var _ storage.AdStore = (*AdStore)(nil)

// Insert adds an ad. Returns ErrDuplicateKey if the ID exists.
func (s *AdStore) Insert(ctx context.Context, a *domain.Ad) error {
	if a == nil || a.ID == "" {
		return storage.ErrInvalidInput
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ads (id, name, ad_code, position, is_active, order_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.ID, a.Name, a.AdCode, a.Position, a.Active, a.OrderIndex, a.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert ad: %w", err)
	}
	return nil
}

// Update replaces an ad. Returns ErrNotFound if absent.
func (s *AdStore) Update(ctx context.Context, a *domain.Ad) error {
	if a == nil || a.ID == "" {
		return storage.ErrInvalidInput
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE ads SET name = $2, ad_code = $3, position = $4,
			is_active = $5, order_index = $6
		WHERE id = $1
	`, a.ID, a.Name, a.AdCode, a.Position, a.Active, a.OrderIndex)
	if err != nil {
		return fmt.Errorf("update ad: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Delete removes an ad. Returns ErrNotFound if absent.
func (s *AdStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM ads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete ad: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetByID retrieves one ad. Returns ErrNotFound if absent.
func (s *AdStore) GetByID(ctx context.Context, id string) (*domain.Ad, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, ad_code, position, is_active, order_index, created_at
		FROM ads WHERE id = $1
	`, id)
	a, err := scanAd(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get ad: %w", err)
	}
	return a, nil
}

// List returns ads ordered by order_index ASC, created_at ASC.
func (s *AdStore) List(ctx context.Context, onlyActive bool, position string) ([]*domain.Ad, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, ad_code, position, is_active, order_index, created_at
		FROM ads
		WHERE ($1 = false OR is_active)
		  AND ($2 = '' OR position = $2)
		ORDER BY order_index ASC, created_at ASC
	`, onlyActive, position)
	if err != nil {
		return nil, fmt.Errorf("list ads: %w", err)
	}
	defer rows.Close()

	var result []*domain.Ad
	for rows.Next() {
		a, err := scanAd(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ad: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func scanAd(row pgx.Row) (*domain.Ad, error) {
	var a domain.Ad
	err := row.Scan(&a.ID, &a.Name, &a.AdCode, &a.Position,
		&a.Active, &a.OrderIndex, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// PromotedTokenStore implements storage.PromotedTokenStore using PostgreSQL.
type PromotedTokenStore struct {
	pool *Pool
}

// NewPromotedTokenStore creates a new PromotedTokenStore.
func NewPromotedTokenStore(pool *Pool) *PromotedTokenStore {
	return &PromotedTokenStore{pool: pool}
}

var _ storage.PromotedTokenStore = (*PromotedTokenStore)(nil)

// Insert adds a promoted token. Returns ErrDuplicateKey if the ID exists.
func (s *PromotedTokenStore) Insert(ctx context.Context, p *domain.PromotedToken) error {
	if p == nil || p.ID == "" {
		return storage.ErrInvalidInput
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO promoted_tokens (id, chain_id, pair_address, token_name,
			token_symbol, logo_url, is_active, order_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.ChainID, p.PairAddress, p.TokenName, p.TokenSymbol,
		p.LogoURL, p.Active, p.OrderIndex, p.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert promoted token: %w", err)
	}
	return nil
}

// Update replaces a promoted token. Returns ErrNotFound if absent.
func (s *PromotedTokenStore) Update(ctx context.Context, p *domain.PromotedToken) error {
	if p == nil || p.ID == "" {
		return storage.ErrInvalidInput
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE promoted_tokens SET chain_id = $2, pair_address = $3,
			token_name = $4, token_symbol = $5, logo_url = $6,
			is_active = $7, order_index = $8
		WHERE id = $1
	`, p.ID, p.ChainID, p.PairAddress, p.TokenName, p.TokenSymbol,
		p.LogoURL, p.Active, p.OrderIndex)
	if err != nil {
		return fmt.Errorf("update promoted token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Delete removes a promoted token. Returns ErrNotFound if absent.
func (s *PromotedTokenStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM promoted_tokens WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete promoted token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetByID retrieves one promoted token. Returns ErrNotFound if absent.
func (s *PromotedTokenStore) GetByID(ctx context.Context, id string) (*domain.PromotedToken, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, chain_id, pair_address, token_name, token_symbol,
		       logo_url, is_active, order_index, created_at
		FROM promoted_tokens WHERE id = $1
	`, id)
	p, err := scanPromotedToken(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get promoted token: %w", err)
	}
	return p, nil
}

// List returns promoted tokens ordered by order_index ASC, created_at ASC.
func (s *PromotedTokenStore) List(ctx context.Context, onlyActive bool) ([]*domain.PromotedToken, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, chain_id, pair_address, token_name, token_symbol,
		       logo_url, is_active, order_index, created_at
		FROM promoted_tokens
		WHERE ($1 = false OR is_active)
		ORDER BY order_index ASC, created_at ASC
	`, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("list promoted tokens: %w", err)
	}
	defer rows.Close()

	var result []*domain.PromotedToken
	for rows.Next() {
		p, err := scanPromotedToken(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promoted token: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func scanPromotedToken(row pgx.Row) (*domain.PromotedToken, error) {
	var p domain.PromotedToken
	err := row.Scan(&p.ID, &p.ChainID, &p.PairAddress, &p.TokenName,
		&p.TokenSymbol, &p.LogoURL, &p.Active, &p.OrderIndex, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
