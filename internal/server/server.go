// Package server exposes the JSON API: feeds, search, pair detail and
// history, watchlist, preferences, and the admin content surface.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/iinyiska/dextrend/internal/appstate"
	"github.com/iinyiska/dextrend/internal/content"
	"github.com/iinyiska/dextrend/internal/domain"
	"github.com/iinyiska/dextrend/internal/feedcache"
	"github.com/iinyiska/dextrend/internal/feeds"
	"github.com/iinyiska/dextrend/internal/history"
	"github.com/iinyiska/dextrend/internal/observability"
	"github.com/iinyiska/dextrend/internal/storage"
)

// AdminTokenHeader carries the admin session token on guarded routes.
const AdminTokenHeader = "X-Admin-Token"

// Error codes used in the JSON error envelope.
const (
	ErrCodeInvalidQuery       = "INVALID_QUERY"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeNotAuthenticated   = "NOT_AUTHENTICATED"
	ErrCodeUpstreamError      = "UPSTREAM_ERROR"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// apiError is the standard JSON error body.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Gateway is the upstream market-data surface the handlers consume.
// *dexscreener.Client satisfies it.
type Gateway interface {
	SearchPairs(ctx context.Context, query string) ([]domain.Pair, error)
	GetPairByAddress(ctx context.Context, chainID, pairAddress string) (*domain.Pair, error)
	GetTokenPools(ctx context.Context, chainID, tokenAddress string) ([]domain.Pair, error)
	GetTokensByAddresses(ctx context.Context, chainID string, addresses []string) ([]domain.Pair, error)
	GetTokenProfiles(ctx context.Context) ([]domain.TokenProfile, error)
	GetBoostedTokens(ctx context.Context) ([]domain.BoostedToken, error)
	GetTopBoostedTokens(ctx context.Context) ([]domain.BoostedToken, error)
}

// FeedBuilder builds one feed's ranked result set.
type FeedBuilder interface {
	Build(ctx context.Context, kind feeds.Kind, chainID string) ([]domain.Pair, error)
}

// Options wires the server's dependencies.
type Options struct {
	Gateway     Gateway
	Feeds       FeedBuilder
	Cache       *feedcache.Service
	State       *appstate.Manager
	Content     *content.Service
	History     *history.Sampler
	Metrics     *observability.Metrics
	Logger      *log.Logger
	CORSOrigins []string
}

// Server is the HTTP API server.
type Server struct {
	router  *mux.Router
	gateway Gateway
	feeds   FeedBuilder
	cache   *feedcache.Service
	state   *appstate.Manager
	content *content.Service
	history *history.Sampler
	metrics *observability.Metrics
	logger  *log.Logger
	cors    *cors.Cors
}

// New creates the server and registers all routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[server] ", log.LstdFlags)
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		router:  mux.NewRouter(),
		gateway: opts.Gateway,
		feeds:   opts.Feeds,
		cache:   opts.Cache,
		state:   opts.State,
		content: opts.Content,
		history: opts.History,
		metrics: opts.Metrics,
		logger:  logger,
		cors: cors.New(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", AdminTokenHeader},
		}),
	}
	s.routes()
	return s
}

// Handler returns the full handler chain (CORS + metrics + router).
func (s *Server) Handler() http.Handler {
	return s.cors.Handler(s.instrument(s.router))
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/feeds/{kind}", s.handleFeed).Methods("GET")
	api.HandleFunc("/search", s.handleSearch).Methods("GET")
	api.HandleFunc("/pairs/{chain}/{pair}", s.handlePairDetail).Methods("GET")
	api.HandleFunc("/pairs/{chain}/{pair}/history", s.handlePairHistory).Methods("GET")
	api.HandleFunc("/tokens/{chain}/{token}/pools", s.handleTokenPools).Methods("GET")
	api.HandleFunc("/boosts/latest", s.handleBoostsLatest).Methods("GET")
	api.HandleFunc("/boosts/top", s.handleBoostsTop).Methods("GET")
	api.HandleFunc("/profiles", s.handleProfiles).Methods("GET")

	api.HandleFunc("/watchlist", s.handleWatchlistGet).Methods("GET")
	api.HandleFunc("/watchlist", s.handleWatchlistAdd).Methods("POST")
	api.HandleFunc("/watchlist/{chain}/{pair}", s.handleWatchlistRemove).Methods("DELETE")
	api.HandleFunc("/watchlist/pairs", s.handleWatchlistPairs).Methods("GET")

	api.HandleFunc("/prefs/theme", s.handleThemeGet).Methods("GET")
	api.HandleFunc("/prefs/theme", s.handleThemePut).Methods("PUT")
	api.HandleFunc("/prefs/chain", s.handleChainGet).Methods("GET")
	api.HandleFunc("/prefs/chain", s.handleChainPut).Methods("PUT")

	api.HandleFunc("/admin/login", s.handleAdminLogin).Methods("POST")
	api.HandleFunc("/admin/logout", s.handleAdminLogout).Methods("POST")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(s.requireAdmin)
	admin.HandleFunc("/settings", s.handleSettingsGet).Methods("GET")
	admin.HandleFunc("/settings", s.handleSettingsPut).Methods("PUT")
	admin.HandleFunc("/banners", s.handleBannersList).Methods("GET")
	admin.HandleFunc("/banners", s.handleBannerCreate).Methods("POST")
	admin.HandleFunc("/banners/{id}", s.handleBannerUpdate).Methods("PUT")
	admin.HandleFunc("/banners/{id}", s.handleBannerDelete).Methods("DELETE")
	admin.HandleFunc("/ads", s.handleAdsList).Methods("GET")
	admin.HandleFunc("/ads", s.handleAdCreate).Methods("POST")
	admin.HandleFunc("/ads/{id}", s.handleAdUpdate).Methods("PUT")
	admin.HandleFunc("/ads/{id}", s.handleAdDelete).Methods("DELETE")
	admin.HandleFunc("/promoted", s.handlePromotedList).Methods("GET")
	admin.HandleFunc("/promoted", s.handlePromotedCreate).Methods("POST")
	admin.HandleFunc("/promoted/{id}", s.handlePromotedUpdate).Methods("PUT")
	admin.HandleFunc("/promoted/{id}", s.handlePromotedDelete).Methods("DELETE")

	api.HandleFunc("/site/settings", s.handleSiteSettings).Methods("GET")
	api.HandleFunc("/site/banners", s.handleSiteBanners).Methods("GET")
	api.HandleFunc("/site/ads", s.handleSiteAds).Methods("GET")
	api.HandleFunc("/site/promoted", s.handleSitePromoted).Methods("GET")

	api.HandleFunc("/health", s.handleHealth).Methods("GET")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// instrument counts requests per route template and status class.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		var match mux.RouteMatch
		if s.router.Match(r, &match) && match.Route != nil {
			if tpl, err := match.Route.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		s.metrics.HTTPRequests.WithLabelValues(route, statusClass(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}

// requireAdmin guards mutating content routes with a session token check.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(AdminTokenHeader)
		if _, err := s.content.Validate(r.Context(), token); err != nil {
			if errors.Is(err, content.ErrNotAuthenticated) {
				s.writeError(w, http.StatusUnauthorized, ErrCodeNotAuthenticated, "admin session required")
				return
			}
			s.internalError(w, "validate session", err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, map[string]apiError{"error": {Code: code, Message: message}})
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Printf("%s: %v", op, err)
	s.writeError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
}

// storeError maps storage sentinel errors onto the envelope.
func (s *Server) storeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.writeError(w, http.StatusNotFound, ErrCodeNotFound, "not found")
	case errors.Is(err, storage.ErrInvalidInput):
		s.writeError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid input")
	default:
		s.internalError(w, op, err)
	}
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
