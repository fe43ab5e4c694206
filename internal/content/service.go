// Package content implements the operator-facing content service: site
// settings, banners, ads, promoted tokens, and the single-admin login that
// guards their mutation.
package content

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iinyiska/dextrend/internal/domain"
	"github.com/iinyiska/dextrend/internal/observability"
	"github.com/iinyiska/dextrend/internal/storage"
)

// SessionTTL is how long an issued admin session stays valid.
const SessionTTL = 24 * time.Hour

// MinPasswordLength is the minimum accepted password length at registration.
const MinPasswordLength = 6

var (
	// ErrInvalidCredentials is returned by Login on a bad email/password
	// combination. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotAuthenticated is returned by Validate for missing, unknown or
	// expired tokens.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrPasswordTooShort is returned by Register.
	ErrPasswordTooShort = fmt.Errorf("password shorter than %d characters", MinPasswordLength)
)

// Options configures a Service.
type Options struct {
	Settings storage.SiteSettingsStore
	Banners  storage.BannerStore
	Ads      storage.AdStore
	Promoted storage.PromotedTokenStore
	Accounts storage.AdminAccountStore
	Sessions storage.SessionStore
	Metrics  *observability.Metrics
	Logger   *log.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Service is the admin content service.
type Service struct {
	settings storage.SiteSettingsStore
	banners  storage.BannerStore
	ads      storage.AdStore
	promoted storage.PromotedTokenStore
	accounts storage.AdminAccountStore
	sessions storage.SessionStore
	metrics  *observability.Metrics
	logger   *log.Logger
	now      func() time.Time
}

// New creates a content service.
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[content] ", log.LstdFlags)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		settings: opts.Settings,
		banners:  opts.Banners,
		ads:      opts.Ads,
		promoted: opts.Promoted,
		accounts: opts.Accounts,
		sessions: opts.Sessions,
		metrics:  opts.Metrics,
		logger:   logger,
		now:      now,
	}
}

// Register creates an admin account. The password is stored as a salted
// SHA-256 digest; the plaintext is discarded.
func (s *Service) Register(ctx context.Context, email, password string) error {
	if email == "" {
		return storage.ErrInvalidInput
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	salt, err := newSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	account := &domain.AdminAccount{
		Email:        email,
		PasswordHash: hashPassword(password, salt),
		Salt:         salt,
		CreatedAt:    s.now().UnixMilli(),
	}
	if err := s.accounts.Insert(ctx, account); err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// Login checks credentials and issues a session token valid for SessionTTL.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if hashPassword(password, account.Salt) != account.PasswordHash {
		return nil, ErrInvalidCredentials
	}

	session := &domain.Session{
		Token:     uuid.NewString(),
		Email:     account.Email,
		ExpiresAt: s.now().Add(SessionTTL).UnixMilli(),
	}
	if err := s.sessions.Insert(ctx, session); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ActiveSessions.Inc()
	}
	return session, nil
}

// Logout revokes a session token. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	err := s.sessions.Delete(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("delete session: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ActiveSessions.Dec()
	}
	return nil
}

// Validate resolves a session token to the admin email. Missing, unknown
// and expired tokens all return ErrNotAuthenticated.
func (s *Service) Validate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNotAuthenticated
	}
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrNotAuthenticated
		}
		return "", fmt.Errorf("lookup session: %w", err)
	}
	if session.ExpiresAt <= s.now().UnixMilli() {
		return "", ErrNotAuthenticated
	}
	return session.Email, nil
}

// CleanupExpiredSessions removes expired sessions and returns the count.
func (s *Service) CleanupExpiredSessions(ctx context.Context) (int, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	if s.metrics != nil && n > 0 {
		s.metrics.ActiveSessions.Sub(float64(n))
	}
	return n, nil
}

func newSalt() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashPassword(password, salt string) string {
	digest := sha256.Sum256([]byte(salt + password))
	return hex.EncodeToString(digest[:])
}

// GetSettings returns the site settings, or defaults before first save.
func (s *Service) GetSettings(ctx context.Context) (*domain.SiteSettings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &domain.SiteSettings{}, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

// SaveSettings replaces the site settings, stamping UpdatedAt.
func (s *Service) SaveSettings(ctx context.Context, settings *domain.SiteSettings) error {
	if settings == nil {
		return storage.ErrInvalidInput
	}
	settings.UpdatedAt = s.now().UnixMilli()
	if err := s.settings.Put(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func validBannerPosition(p string) bool {
	switch p {
	case domain.BannerPositionHero, domain.BannerPositionSidebar, domain.BannerPositionFooter:
		return true
	}
	return false
}

func validAdPosition(p string) bool {
	switch p {
	case domain.AdPositionHeader, domain.AdPositionSidebar, domain.AdPositionBetweenContent,
		domain.AdPositionFooter, domain.AdPositionPopup:
		return true
	}
	return false
}

// CreateBanner stores a new banner with a generated ID.
func (s *Service) CreateBanner(ctx context.Context, b *domain.Banner) (*domain.Banner, error) {
	if b == nil || b.Title == "" || b.ImageURL == "" || !validBannerPosition(b.Position) {
		return nil, storage.ErrInvalidInput
	}
	b.ID = uuid.NewString()
	b.CreatedAt = s.now().UnixMilli()
	if err := s.banners.Insert(ctx, b); err != nil {
		return nil, fmt.Errorf("insert banner: %w", err)
	}
	return b, nil
}

// UpdateBanner replaces an existing banner.
func (s *Service) UpdateBanner(ctx context.Context, b *domain.Banner) error {
	if b == nil || b.ID == "" || !validBannerPosition(b.Position) {
		return storage.ErrInvalidInput
	}
	return s.banners.Update(ctx, b)
}

// DeleteBanner removes a banner.
func (s *Service) DeleteBanner(ctx context.Context, id string) error {
	return s.banners.Delete(ctx, id)
}

// ListBanners lists banners, optionally active-only and slot-filtered.
func (s *Service) ListBanners(ctx context.Context, onlyActive bool, position string) ([]*domain.Banner, error) {
	return s.banners.List(ctx, onlyActive, position)
}

// CreateAd stores a new ad unit with a generated ID.
func (s *Service) CreateAd(ctx context.Context, a *domain.Ad) (*domain.Ad, error) {
	if a == nil || a.Name == "" || a.AdCode == "" || !validAdPosition(a.Position) {
		return nil, storage.ErrInvalidInput
	}
	a.ID = uuid.NewString()
	a.CreatedAt = s.now().UnixMilli()
	if err := s.ads.Insert(ctx, a); err != nil {
		return nil, fmt.Errorf("insert ad: %w", err)
	}
	return a, nil
}

// UpdateAd replaces an existing ad unit.
func (s *Service) UpdateAd(ctx context.Context, a *domain.Ad) error {
	if a == nil || a.ID == "" || !validAdPosition(a.Position) {
		return storage.ErrInvalidInput
	}
	return s.ads.Update(ctx, a)
}

// DeleteAd removes an ad unit.
func (s *Service) DeleteAd(ctx context.Context, id string) error {
	return s.ads.Delete(ctx, id)
}

// ListAds lists ad units, optionally active-only and slot-filtered.
func (s *Service) ListAds(ctx context.Context, onlyActive bool, position string) ([]*domain.Ad, error) {
	return s.ads.List(ctx, onlyActive, position)
}

// CreatePromotedToken stores a new promoted token with a generated ID.
func (s *Service) CreatePromotedToken(ctx context.Context, p *domain.PromotedToken) (*domain.PromotedToken, error) {
	if p == nil || p.ChainID == "" || p.PairAddress == "" || p.TokenSymbol == "" {
		return nil, storage.ErrInvalidInput
	}
	p.ID = uuid.NewString()
	p.CreatedAt = s.now().UnixMilli()
	if err := s.promoted.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("insert promoted token: %w", err)
	}
	return p, nil
}

// UpdatePromotedToken replaces an existing promoted token.
func (s *Service) UpdatePromotedToken(ctx context.Context, p *domain.PromotedToken) error {
	if p == nil || p.ID == "" {
		return storage.ErrInvalidInput
	}
	return s.promoted.Update(ctx, p)
}

// DeletePromotedToken removes a promoted token.
func (s *Service) DeletePromotedToken(ctx context.Context, id string) error {
	return s.promoted.Delete(ctx, id)
}

// ListPromotedTokens lists promoted tokens, optionally active-only.
func (s *Service) ListPromotedTokens(ctx context.Context, onlyActive bool) ([]*domain.PromotedToken, error) {
	return s.promoted.List(ctx, onlyActive)
}
