package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/iinyiska/dextrend/internal/domain"
	"github.com/iinyiska/dextrend/internal/storage"
)

func TestBannerStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store := NewBannerStore()

	b := &domain.Banner{
		ID:       "b1",
		Title:    "Launch week",
		ImageURL: "https://cdn.example/banner.png",
		Position: domain.BannerPositionHero,
		Active:   true,
	}
	if err := store.Insert(ctx, b); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := store.Insert(ctx, b); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey on re-insert, got %v", err)
	}

	got, err := store.GetByID(ctx, "b1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Launch week" {
		t.Errorf("unexpected title %q", got.Title)
	}

	// Mutating the returned copy must not affect the stored record.
	got.Title = "mutated"
	again, _ := store.GetByID(ctx, "b1")
	if again.Title != "Launch week" {
		t.Error("store returned a shared reference")
	}

	b.Title = "Launch month"
	if err := store.Update(ctx, b); err != nil {
		t.Fatalf("Update: %v", err)
	}
	updated, _ := store.GetByID(ctx, "b1")
	if updated.Title != "Launch month" {
		t.Errorf("update not applied: %q", updated.Title)
	}

	if err := store.Delete(ctx, "b1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.GetByID(ctx, "b1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "b1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestBannerStore_ListFiltersAndOrder(t *testing.T) {
	ctx := context.Background()
	store := NewBannerStore()

	banners := []*domain.Banner{
		{ID: "b1", Title: "second", Position: domain.BannerPositionHero, Active: true, OrderIndex: 2},
		{ID: "b2", Title: "first", Position: domain.BannerPositionHero, Active: true, OrderIndex: 1},
		{ID: "b3", Title: "inactive", Position: domain.BannerPositionHero, Active: false, OrderIndex: 0},
		{ID: "b4", Title: "sidebar", Position: domain.BannerPositionSidebar, Active: true, OrderIndex: 0},
	}
	for _, b := range banners {
		if err := store.Insert(ctx, b); err != nil {
			t.Fatalf("Insert %s: %v", b.ID, err)
		}
	}

	hero, err := store.List(ctx, true, domain.BannerPositionHero)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(hero) != 2 {
		t.Fatalf("expected 2 active hero banners, got %d", len(hero))
	}
	if hero[0].Title != "first" || hero[1].Title != "second" {
		t.Errorf("wrong order: %s, %s", hero[0].Title, hero[1].Title)
	}

	all, err := store.List(ctx, false, "")
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 banners, got %d", len(all))
	}
}

func TestSiteSettingsStore(t *testing.T) {
	ctx := context.Background()
	store := NewSiteSettingsStore()

	if _, err := store.Get(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound before Put, got %v", err)
	}

	if err := store.Put(ctx, &domain.SiteSettings{SiteTitle: "DexTrend"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.SiteTitle != "DexTrend" {
		t.Errorf("unexpected title %q", got.SiteTitle)
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	sessions := []*domain.Session{
		{Token: "t1", Email: "a@example.com", ExpiresAt: 1000},
		{Token: "t2", Email: "a@example.com", ExpiresAt: 2000},
		{Token: "t3", Email: "a@example.com", ExpiresAt: 3000},
	}
	for _, sess := range sessions {
		if err := store.Insert(ctx, sess); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	removed, err := store.DeleteExpired(ctx, 2000)
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if _, err := store.GetByToken(ctx, "t3"); err != nil {
		t.Errorf("t3 should survive: %v", err)
	}
	if _, err := store.GetByToken(ctx, "t1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("t1 should be gone, got %v", err)
	}
}

func TestPriceHistoryStore_RangeQuery(t *testing.T) {
	ctx := context.Background()
	store := NewPriceHistoryStore()

	points := []*domain.PricePoint{
		{ChainID: "ethereum", PairAddress: "0xp", TimestampMs: 300, PriceUSD: 3},
		{ChainID: "ethereum", PairAddress: "0xp", TimestampMs: 100, PriceUSD: 1},
		{ChainID: "ethereum", PairAddress: "0xp", TimestampMs: 200, PriceUSD: 2},
		{ChainID: "bsc", PairAddress: "0xother", TimestampMs: 150, PriceUSD: 9},
	}
	if err := store.InsertBulk(ctx, points); err != nil {
		t.Fatalf("InsertBulk: %v", err)
	}

	got, err := store.GetByPairRange(ctx, "ethereum", "0xp", 100, 250)
	if err != nil {
		t.Fatalf("GetByPairRange: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 points in range, got %d", len(got))
	}
	if got[0].TimestampMs != 100 || got[1].TimestampMs != 200 {
		t.Errorf("points not ordered ASC: %d, %d", got[0].TimestampMs, got[1].TimestampMs)
	}
}

func TestWatchlistStore_PutList(t *testing.T) {
	ctx := context.Background()
	store := NewWatchlistStore()

	empty, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty list, got %v", empty)
	}

	entries := []string{"ethereum-0xa", "solana-0xb"}
	if err := store.Put(ctx, entries); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Mutating the caller's slice must not affect the stored list.
	entries[0] = "mutated"
	got, _ := store.List(ctx)
	if got[0] != "ethereum-0xa" {
		t.Error("store aliased the caller's slice")
	}
}
