// Package main runs the dextrend API server: the DexScreener gateway,
// feed pipeline and pollers, the SWR cache, app state, admin content,
// and the price history sampler behind one HTTP surface.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/iinyiska/dextrend/internal/appstate"
	"github.com/iinyiska/dextrend/internal/content"
	"github.com/iinyiska/dextrend/internal/dexscreener"
	"github.com/iinyiska/dextrend/internal/domain"
	"github.com/iinyiska/dextrend/internal/feedcache"
	"github.com/iinyiska/dextrend/internal/feeds"
	"github.com/iinyiska/dextrend/internal/history"
	"github.com/iinyiska/dextrend/internal/observability"
	"github.com/iinyiska/dextrend/internal/server"
	"github.com/iinyiska/dextrend/internal/storage"
	"github.com/iinyiska/dextrend/internal/storage/clickhouse"
	"github.com/iinyiska/dextrend/internal/storage/memory"
	"github.com/iinyiska/dextrend/internal/storage/migrations"
	pgstore "github.com/iinyiska/dextrend/internal/storage/postgres"
)

const sessionCleanupInterval = 1 * time.Hour

// allStores holds every storage implementation the services need.
type allStores struct {
	preferences  storage.PreferenceStore
	watchlist    storage.WatchlistStore
	settings     storage.SiteSettingsStore
	banners      storage.BannerStore
	ads          storage.AdStore
	promoted     storage.PromotedTokenStore
	accounts     storage.AdminAccountStore
	sessions     storage.SessionStore
	priceHistory storage.PriceHistoryStore
}

func main() {
	// Load .env file if exists. Flags below default to env vars.
	_ = godotenv.Load()

	listenAddr := flag.String("listen-addr", envOr("LISTEN_ADDR", ":8080"), "API HTTP listen address")
	metricsAddr := flag.String("metrics-addr", envOr("METRICS_ADDR", ":9090"), "Prometheus metrics HTTP address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	redisAddr := flag.String("redis-addr", os.Getenv("REDIS_ADDR"), "Redis address for the feed cache (empty = in-memory cache)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	feedsConfig := flag.String("feeds-config", os.Getenv("FEEDS_CONFIG"), "Optional YAML file overriding feed definitions")
	corsOrigins := flag.String("cors-origins", envOr("CORS_ORIGINS", "*"), "Comma-separated allowed CORS origins")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	metrics := observability.NewMetrics("dextrend")

	// Upstream gateway and feed pipeline.
	client := dexscreener.NewClient(dexscreener.WithMetrics(metrics))

	definitions := feeds.DefaultDefinitions()
	if *feedsConfig != "" {
		definitions, err = feeds.LoadDefinitions(*feedsConfig)
		if err != nil {
			logger.Fatalf("Failed to load feed definitions: %v", err)
		}
	}
	pipeline, err := feeds.NewPipeline(feeds.PipelineOptions{
		Searcher:    client,
		Definitions: definitions,
		Metrics:     metrics,
		Logger:      log.New(os.Stdout, "[feeds] ", log.LstdFlags),
	})
	if err != nil {
		logger.Fatalf("Failed to create feed pipeline: %v", err)
	}

	// Feed cache, Redis-backed when an address is configured.
	backend, err := createCacheBackend(ctx, *redisAddr, logger)
	if err != nil {
		logger.Fatalf("Failed to create cache backend: %v", err)
	}
	cache := feedcache.New(feedcache.Options{
		Backend: backend,
		Metrics: metrics,
		Logger:  log.New(os.Stdout, "[feedcache] ", log.LstdFlags),
	})

	// Application state, loaded from the preference stores.
	state := appstate.New(appstate.Options{
		Preferences: stores.preferences,
		Watchlist:   stores.watchlist,
		Logger:      log.New(os.Stdout, "[appstate] ", log.LstdFlags),
	})
	if err := state.Init(ctx); err != nil {
		logger.Fatalf("Failed to load application state: %v", err)
	}

	contentSvc := content.New(content.Options{
		Settings: stores.settings,
		Banners:  stores.banners,
		Ads:      stores.ads,
		Promoted: stores.promoted,
		Accounts: stores.accounts,
		Sessions: stores.sessions,
		Metrics:  metrics,
		Logger:   log.New(os.Stdout, "[content] ", log.LstdFlags),
	})
	if err := bootstrapAdmin(ctx, contentSvc); err != nil {
		logger.Fatalf("Failed to create initial admin account: %v", err)
	}

	sampler := history.New(history.Options{
		Store:   stores.priceHistory,
		Metrics: metrics,
		Logger:  log.New(os.Stdout, "[history] ", log.LstdFlags),
	})

	srv := server.New(server.Options{
		Gateway:     client,
		Feeds:       pipeline,
		Cache:       cache,
		State:       state,
		Content:     contentSvc,
		History:     sampler,
		Metrics:     metrics,
		Logger:      logger,
		CORSOrigins: splitList(*corsOrigins),
	})

	// Background pollers keep the list feeds warm so reads rarely hit
	// the upstream synchronously.
	pollers := startFeedPollers(cache, pipeline, metrics)
	pollers = append(pollers, feedcache.StartPoller(
		"session-cleanup", sessionCleanupInterval,
		func(ctx context.Context) error {
			_, err := contentSvc.CleanupExpiredSessions(ctx)
			return err
		},
		metrics, log.New(os.Stdout, "[content] ", log.LstdFlags),
	))

	httpServer := &http.Server{
		Addr:              *listenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Printf("Starting metrics server on %s", *metricsAddr)
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		if err := http.ListenAndServe(*metricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("Metrics server error: %v", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("Starting API server on %s", *listenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Printf("Received signal %v, shutting down...", sig)
	case err := <-errCh:
		logger.Printf("API server error: %v", err)
	}

	for _, p := range pollers {
		p.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("Shutdown error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates all required stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			preferences:  memory.NewPreferenceStore(),
			watchlist:    memory.NewWatchlistStore(),
			settings:     memory.NewSiteSettingsStore(),
			banners:      memory.NewBannerStore(),
			ads:          memory.NewAdStore(),
			promoted:     memory.NewPromotedTokenStore(),
			accounts:     memory.NewAdminAccountStore(),
			sessions:     memory.NewSessionStore(),
			priceHistory: memory.NewPriceHistoryStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL holds preferences, watchlist, content, and auth.
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	// ClickHouse holds the price history timeseries.
	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	stores := &allStores{
		preferences:  pgstore.NewPreferenceStore(pool),
		watchlist:    pgstore.NewWatchlistStore(pool),
		settings:     pgstore.NewSiteSettingsStore(pool),
		banners:      pgstore.NewBannerStore(pool),
		ads:          pgstore.NewAdStore(pool),
		promoted:     pgstore.NewPromotedTokenStore(pool),
		accounts:     pgstore.NewAdminAccountStore(pool),
		sessions:     pgstore.NewSessionStore(pool),
		priceHistory: clickhouse.NewPriceHistoryStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}

// createCacheBackend returns the Redis backend when an address is
// configured, otherwise the in-process map.
func createCacheBackend(ctx context.Context, redisAddr string, logger *log.Logger) (feedcache.Backend, error) {
	if redisAddr == "" {
		return feedcache.NewMemoryBackend(), nil
	}

	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	backend := feedcache.NewRedisBackend(client)

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := backend.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("ping redis at %s: %w", redisAddr, err)
	}

	logger.Printf("Using Redis feed cache at %s", redisAddr)
	return backend, nil
}

// startFeedPollers starts one poller per list feed, refreshing the
// all-chains variant each feed's detail pages are built from.
func startFeedPollers(cache *feedcache.Service, pipeline *feeds.Pipeline, metrics *observability.Metrics) []*feedcache.Poller {
	intervals := map[feeds.Kind]time.Duration{
		feeds.KindNew:      feedcache.PollIntervalNew,
		feeds.KindGainers:  feedcache.PollIntervalGainers,
		feeds.KindLosers:   feedcache.PollIntervalLosers,
		feeds.KindTrending: feedcache.PollIntervalTrending,
	}

	pollers := make([]*feedcache.Poller, 0, len(intervals))
	for _, kind := range feeds.Kinds {
		kind := kind
		key := feedcache.Key(string(kind), "", "")
		pollers = append(pollers, feedcache.StartPoller(
			"feed-"+string(kind), intervals[kind],
			func(ctx context.Context) error {
				return cache.Refresh(ctx, key, func(ctx context.Context) (json.RawMessage, error) {
					pairs, err := pipeline.Build(ctx, kind, "")
					if err != nil {
						return nil, err
					}
					if pairs == nil {
						pairs = []domain.Pair{}
					}
					return json.Marshal(pairs)
				})
			},
			metrics, log.New(os.Stdout, "[poller] ", log.LstdFlags),
		))
	}
	return pollers
}

// bootstrapAdmin creates the initial admin account from the environment.
// Registration is not exposed over HTTP; an existing account is left as is.
func bootstrapAdmin(ctx context.Context, svc *content.Service) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	err := svc.Register(ctx, email, password)
	if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		return err
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
