package content

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/iinyiska/dextrend/internal/domain"
	"github.com/iinyiska/dextrend/internal/storage"
	"github.com/iinyiska/dextrend/internal/storage/memory"
)

func newTestService(now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return New(Options{
		Settings: memory.NewSiteSettingsStore(),
		Banners:  memory.NewBannerStore(),
		Ads:      memory.NewAdStore(),
		Promoted: memory.NewPromotedTokenStore(),
		Accounts: memory.NewAdminAccountStore(),
		Sessions: memory.NewSessionStore(),
		Logger:   log.New(io.Discard, "", 0),
		Now:      now,
	})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	if err := svc.Register(ctx, "admin@example.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	session, err := svc.Login(ctx, "admin@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Token == "" {
		t.Error("empty session token")
	}
	if session.Email != "admin@example.com" {
		t.Errorf("session email = %q", session.Email)
	}

	email, err := svc.Validate(ctx, session.Token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if email != "admin@example.com" {
		t.Errorf("Validate email = %q", email)
	}
}

func TestRegisterShortPassword(t *testing.T) {
	svc := newTestService(nil)

	err := svc.Register(context.Background(), "admin@example.com", "short")
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("Register = %v, want ErrPasswordTooShort", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	if err := svc.Register(ctx, "admin@example.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	err := svc.Register(ctx, "admin@example.com", "secret2")
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("duplicate Register = %v, want ErrDuplicateKey", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	if err := svc.Register(ctx, "admin@example.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Wrong password and unknown email look identical to the caller.
	if _, err := svc.Login(ctx, "admin@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password Login = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email Login = %v, want ErrInvalidCredentials", err)
	}
}

func TestPasswordsStoredHashed(t *testing.T) {
	accounts := memory.NewAdminAccountStore()
	svc := New(Options{
		Settings: memory.NewSiteSettingsStore(),
		Banners:  memory.NewBannerStore(),
		Ads:      memory.NewAdStore(),
		Promoted: memory.NewPromotedTokenStore(),
		Accounts: accounts,
		Sessions: memory.NewSessionStore(),
		Logger:   log.New(io.Discard, "", 0),
	})
	ctx := context.Background()

	if err := svc.Register(ctx, "admin@example.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	account, err := accounts.GetByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if account.PasswordHash == "secret1" || account.PasswordHash == "" {
		t.Error("password not hashed")
	}
	if account.Salt == "" {
		t.Error("empty salt")
	}
	if account.PasswordHash != hashPassword("secret1", account.Salt) {
		t.Error("stored hash does not match salted digest")
	}
}

func TestValidateExpiredSession(t *testing.T) {
	clock := time.UnixMilli(1700000000000)
	svc := newTestService(func() time.Time { return clock })

	ctx := context.Background()
	if err := svc.Register(ctx, "admin@example.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	session, err := svc.Login(ctx, "admin@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	clock = clock.Add(SessionTTL + time.Minute)
	if _, err := svc.Validate(ctx, session.Token); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("expired Validate = %v, want ErrNotAuthenticated", err)
	}

	removed, err := svc.CleanupExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("CleanupExpiredSessions: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
}

func TestValidateMissingAndUnknownToken(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	if _, err := svc.Validate(ctx, ""); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("empty token Validate = %v, want ErrNotAuthenticated", err)
	}
	if _, err := svc.Validate(ctx, "no-such-token"); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("unknown token Validate = %v, want ErrNotAuthenticated", err)
	}
}

func TestLogout(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	if err := svc.Register(ctx, "admin@example.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	session, err := svc.Login(ctx, "admin@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.Logout(ctx, session.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Validate(ctx, session.Token); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Validate after Logout = %v, want ErrNotAuthenticated", err)
	}

	// Logging out twice is a no-op.
	if err := svc.Logout(ctx, session.Token); err != nil {
		t.Errorf("second Logout = %v", err)
	}
}

func TestSettingsDefaultsAndSave(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	settings, err := svc.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if settings == nil {
		t.Fatal("nil default settings")
	}

	settings.SiteTitle = "DexTrend"
	if err := svc.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	saved, err := svc.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings after save: %v", err)
	}
	if saved.SiteTitle != "DexTrend" {
		t.Errorf("SiteTitle = %q", saved.SiteTitle)
	}
	if saved.UpdatedAt == 0 {
		t.Error("UpdatedAt not stamped")
	}
}

func TestBannerLifecycle(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	created, err := svc.CreateBanner(ctx, &domain.Banner{
		Title:    "Launch",
		ImageURL: "https://cdn.example.com/launch.png",
		Position: domain.BannerPositionHero,
		Active:   true,
	})
	if err != nil {
		t.Fatalf("CreateBanner: %v", err)
	}
	if created.ID == "" {
		t.Error("no generated banner ID")
	}
	if created.CreatedAt == 0 {
		t.Error("CreatedAt not stamped")
	}

	created.Title = "Relaunch"
	if err := svc.UpdateBanner(ctx, created); err != nil {
		t.Fatalf("UpdateBanner: %v", err)
	}

	list, err := svc.ListBanners(ctx, true, domain.BannerPositionHero)
	if err != nil {
		t.Fatalf("ListBanners: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Relaunch" {
		t.Errorf("ListBanners = %+v", list)
	}

	if err := svc.DeleteBanner(ctx, created.ID); err != nil {
		t.Fatalf("DeleteBanner: %v", err)
	}
	list, err = svc.ListBanners(ctx, false, "")
	if err != nil {
		t.Fatalf("ListBanners after delete: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("banners remain after delete: %+v", list)
	}
}

func TestCreateBannerRejectsBadPosition(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.CreateBanner(context.Background(), &domain.Banner{
		Title:    "Bad",
		ImageURL: "u",
		Position: "marquee",
	})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("CreateBanner = %v, want ErrInvalidInput", err)
	}
}

func TestAdLifecycle(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	created, err := svc.CreateAd(ctx, &domain.Ad{
		Name:     "Header unit",
		AdCode:   "<script>unit()</script>",
		Position: domain.AdPositionHeader,
		Active:   true,
	})
	if err != nil {
		t.Fatalf("CreateAd: %v", err)
	}
	if created.ID == "" {
		t.Error("no generated ad ID")
	}

	list, err := svc.ListAds(ctx, true, domain.AdPositionHeader)
	if err != nil {
		t.Fatalf("ListAds: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("ListAds = %+v", list)
	}

	if err := svc.DeleteAd(ctx, created.ID); err != nil {
		t.Fatalf("DeleteAd: %v", err)
	}
}

func TestPromotedTokenLifecycle(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	created, err := svc.CreatePromotedToken(ctx, &domain.PromotedToken{
		ChainID:     "ethereum",
		PairAddress: "0xabc",
		TokenName:   "Pepe",
		TokenSymbol: "PEPE",
		Active:      true,
	})
	if err != nil {
		t.Fatalf("CreatePromotedToken: %v", err)
	}

	created.Active = false
	if err := svc.UpdatePromotedToken(ctx, created); err != nil {
		t.Fatalf("UpdatePromotedToken: %v", err)
	}

	active, err := svc.ListPromotedTokens(ctx, true)
	if err != nil {
		t.Fatalf("ListPromotedTokens: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("active list = %+v, want empty after deactivation", active)
	}

	all, err := svc.ListPromotedTokens(ctx, false)
	if err != nil {
		t.Fatalf("ListPromotedTokens all: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("all list = %+v", all)
	}
}
