package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iinyiska/dextrend/internal/domain"
	"github.com/iinyiska/dextrend/internal/storage"
)

func TestBannerStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBannerStore(pool)
	ctx := context.Background()

	banner := &domain.Banner{
		ID:          "banner-001",
		Title:       "Launch Week",
		Description: "New listings every day",
		ImageURL:    "https://cdn.example.com/launch.png",
		LinkURL:     "https://example.com/launch",
		Position:    domain.BannerPositionHero,
		Active:      true,
		OrderIndex:  1,
		CreatedAt:   1700000000000,
	}

	err := store.Insert(ctx, banner)
	require.NoError(t, err)

	retrieved, err := store.GetByID(ctx, "banner-001")
	require.NoError(t, err)

	assert.Equal(t, banner.Title, retrieved.Title)
	assert.Equal(t, banner.Description, retrieved.Description)
	assert.Equal(t, banner.ImageURL, retrieved.ImageURL)
	assert.Equal(t, banner.Position, retrieved.Position)
	assert.True(t, retrieved.Active)
	assert.Equal(t, banner.OrderIndex, retrieved.OrderIndex)
	assert.Equal(t, banner.CreatedAt, retrieved.CreatedAt)
}

func TestBannerStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBannerStore(pool)
	ctx := context.Background()

	banner := &domain.Banner{
		ID:        "banner-dup",
		Title:     "Once",
		ImageURL:  "https://cdn.example.com/a.png",
		Position:  domain.BannerPositionSidebar,
		CreatedAt: 1700000000000,
	}

	require.NoError(t, store.Insert(ctx, banner))
	assert.ErrorIs(t, store.Insert(ctx, banner), storage.ErrDuplicateKey)
}

func TestBannerStore_UpdateAndDelete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBannerStore(pool)
	ctx := context.Background()

	banner := &domain.Banner{
		ID:        "banner-upd",
		Title:     "Before",
		ImageURL:  "https://cdn.example.com/a.png",
		Position:  domain.BannerPositionHero,
		Active:    true,
		CreatedAt: 1700000000000,
	}
	require.NoError(t, store.Insert(ctx, banner))

	banner.Title = "After"
	banner.Active = false
	require.NoError(t, store.Update(ctx, banner))

	retrieved, err := store.GetByID(ctx, "banner-upd")
	require.NoError(t, err)
	assert.Equal(t, "After", retrieved.Title)
	assert.False(t, retrieved.Active)

	require.NoError(t, store.Delete(ctx, "banner-upd"))
	_, err = store.GetByID(ctx, "banner-upd")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "banner-upd"), storage.ErrNotFound)
	assert.ErrorIs(t, store.Update(ctx, banner), storage.ErrNotFound)
}

func TestBannerStore_ListFilters(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBannerStore(pool)
	ctx := context.Background()

	banners := []*domain.Banner{
		{ID: "b1", Title: "hero active", ImageURL: "u", Position: domain.BannerPositionHero, Active: true, OrderIndex: 2, CreatedAt: 1},
		{ID: "b2", Title: "hero inactive", ImageURL: "u", Position: domain.BannerPositionHero, Active: false, OrderIndex: 1, CreatedAt: 2},
		{ID: "b3", Title: "footer active", ImageURL: "u", Position: domain.BannerPositionFooter, Active: true, OrderIndex: 0, CreatedAt: 3},
	}
	for _, b := range banners {
		require.NoError(t, store.Insert(ctx, b))
	}

	all, err := store.List(ctx, false, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Ordered by order_index ASC
	assert.Equal(t, "b3", all[0].ID)
	assert.Equal(t, "b2", all[1].ID)
	assert.Equal(t, "b1", all[2].ID)

	active, err := store.List(ctx, true, "")
	require.NoError(t, err)
	require.Len(t, active, 2)

	hero, err := store.List(ctx, true, domain.BannerPositionHero)
	require.NoError(t, err)
	require.Len(t, hero, 1)
	assert.Equal(t, "b1", hero[0].ID)
}

func TestAdStore_CRUD(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAdStore(pool)
	ctx := context.Background()

	ad := &domain.Ad{
		ID:        "ad-001",
		Name:      "Header unit",
		AdCode:    "<script>unit()</script>",
		Position:  domain.AdPositionHeader,
		Active:    true,
		CreatedAt: 1700000000000,
	}
	require.NoError(t, store.Insert(ctx, ad))
	assert.ErrorIs(t, store.Insert(ctx, ad), storage.ErrDuplicateKey)

	retrieved, err := store.GetByID(ctx, "ad-001")
	require.NoError(t, err)
	assert.Equal(t, ad.AdCode, retrieved.AdCode)

	ad.Name = "Renamed"
	require.NoError(t, store.Update(ctx, ad))

	list, err := store.List(ctx, true, domain.AdPositionHeader)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Renamed", list[0].Name)

	require.NoError(t, store.Delete(ctx, "ad-001"))
	_, err = store.GetByID(ctx, "ad-001")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPromotedTokenStore_CRUD(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPromotedTokenStore(pool)
	ctx := context.Background()

	token := &domain.PromotedToken{
		ID:          "promo-001",
		ChainID:     "ethereum",
		PairAddress: "0xabc",
		TokenName:   "Pepe",
		TokenSymbol: "PEPE",
		Active:      true,
		OrderIndex:  0,
		CreatedAt:   1700000000000,
	}
	require.NoError(t, store.Insert(ctx, token))

	inactive := &domain.PromotedToken{
		ID:          "promo-002",
		ChainID:     "solana",
		PairAddress: "So1abc",
		TokenName:   "Doge",
		TokenSymbol: "DOGE",
		Active:      false,
		OrderIndex:  1,
		CreatedAt:   1700000000001,
	}
	require.NoError(t, store.Insert(ctx, inactive))

	active, err := store.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "promo-001", active[0].ID)

	all, err := store.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	token.TokenSymbol = "PEPE2"
	require.NoError(t, store.Update(ctx, token))
	retrieved, err := store.GetByID(ctx, "promo-001")
	require.NoError(t, err)
	assert.Equal(t, "PEPE2", retrieved.TokenSymbol)
}

func TestSiteSettingsStore_GetBeforePut(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSiteSettingsStore(pool)
	ctx := context.Background()

	_, err := store.Get(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	settings := &domain.SiteSettings{
		LogoText:     "DexTrend",
		SiteTitle:    "DexTrend",
		PrimaryColor: "#00ff88",
		UpdatedAt:    1700000000000,
	}
	require.NoError(t, store.Put(ctx, settings))

	retrieved, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "DexTrend", retrieved.LogoText)

	// Put again replaces the single row
	settings.SiteTitle = "DexTrend Pro"
	require.NoError(t, store.Put(ctx, settings))
	retrieved, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "DexTrend Pro", retrieved.SiteTitle)
}
