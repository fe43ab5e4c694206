package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/iinyiska/dextrend/internal/domain"
	"github.com/iinyiska/dextrend/internal/feedcache"
	"github.com/iinyiska/dextrend/internal/feeds"
)

// MinSearchQueryLength is the shortest accepted search query.
const MinSearchQueryLength = 2

func stalenessForFeed(kind feeds.Kind) time.Duration {
	switch kind {
	case feeds.KindNew:
		return feedcache.StalenessNew
	case feeds.KindGainers:
		return feedcache.StalenessGainers
	case feeds.KindLosers:
		return feedcache.StalenessLosers
	default:
		return feedcache.StalenessTrending
	}
}

// handleFeed serves the four synthesized list feeds. Feed endpoints fail
// soft: when nothing can be fetched and nothing is cached, the response is
// an empty list, not an error.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	kind, err := feeds.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, ErrCodeInvalidQuery, err.Error())
		return
	}
	chain := r.URL.Query().Get("chain")

	key := feedcache.Key(string(kind), chain, "")
	pairs, _, err := feedcache.Cached(r.Context(), s.cache, key, stalenessForFeed(kind),
		func(ctx context.Context) ([]domain.Pair, error) {
			return s.feeds.Build(ctx, kind, chain)
		})
	if err != nil {
		s.logger.Printf("feed %s: %v", key, err)
		pairs = nil
	}
	if pairs == nil {
		pairs = []domain.Pair{}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"pairs": pairs})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) < MinSearchQueryLength {
		s.writeError(w, http.StatusBadRequest, ErrCodeInvalidQuery,
			"query must be at least 2 characters")
		return
	}

	key := feedcache.Key("search", "", strings.ToLower(query))
	pairs, _, err := feedcache.Cached(r.Context(), s.cache, key, feedcache.StalenessSearch,
		func(ctx context.Context) ([]domain.Pair, error) {
			return s.gateway.SearchPairs(ctx, query)
		})
	if err != nil {
		s.logger.Printf("search %q: %v", query, err)
		s.writeError(w, http.StatusBadGateway, ErrCodeUpstreamError, "search failed")
		return
	}
	if pairs == nil {
		pairs = []domain.Pair{}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"pairs": pairs})
}

// handlePairDetail serves one pair snapshot, cached for a short window.
// Each real fetch feeds the price history sampler.
func (s *Server) handlePairDetail(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	chain, pairAddr := vars["chain"], vars["pair"]

	key := feedcache.Key("pair", chain, pairAddr)
	pair, _, err := feedcache.Cached(r.Context(), s.cache, key, feedcache.StalenessPair,
		func(ctx context.Context) (*domain.Pair, error) {
			p, err := s.gateway.GetPairByAddress(ctx, chain, pairAddr)
			if err != nil {
				return nil, err
			}
			if p != nil && s.history != nil {
				if err := s.history.Record(ctx, p); err != nil {
					s.logger.Printf("sample %s: %v", key, err)
				}
			}
			return p, nil
		})
	if err != nil {
		s.logger.Printf("pair %s: %v", key, err)
		s.writeError(w, http.StatusBadGateway, ErrCodeUpstreamError, "pair lookup failed")
		return
	}
	if pair == nil {
		s.writeError(w, http.StatusNotFound, ErrCodeNotFound, "pair not found")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"pair": pair})
}

func (s *Server) handlePairHistory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	chain, pairAddr := vars["chain"], vars["pair"]

	now := time.Now().UnixMilli()
	from, err := queryInt64(r, "from", now-24*time.Hour.Milliseconds())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, ErrCodeInvalidQuery, "from must be epoch milliseconds")
		return
	}
	to, err := queryInt64(r, "to", now)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, ErrCodeInvalidQuery, "to must be epoch milliseconds")
		return
	}

	points, err := s.history.Range(r.Context(), chain, pairAddr, from, to)
	if err != nil {
		s.internalError(w, "price history", err)
		return
	}
	if points == nil {
		points = []*domain.PricePoint{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"points": points})
}

func queryInt64(r *http.Request, name string, def int64) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (s *Server) handleTokenPools(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	pools, err := s.gateway.GetTokenPools(r.Context(), vars["chain"], vars["token"])
	if err != nil {
		s.logger.Printf("token pools: %v", err)
		s.writeError(w, http.StatusBadGateway, ErrCodeUpstreamError, "pool lookup failed")
		return
	}
	if pools == nil {
		pools = []domain.Pair{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"pairs": pools})
}

func (s *Server) handleBoostsLatest(w http.ResponseWriter, r *http.Request) {
	s.serveBoosts(w, r, "latest", s.gateway.GetBoostedTokens)
}

func (s *Server) handleBoostsTop(w http.ResponseWriter, r *http.Request) {
	s.serveBoosts(w, r, "top", s.gateway.GetTopBoostedTokens)
}

func (s *Server) serveBoosts(w http.ResponseWriter, r *http.Request, which string, fetch func(context.Context) ([]domain.BoostedToken, error)) {
	key := feedcache.Key("boosted", "", which)
	boosts, _, err := feedcache.Cached(r.Context(), s.cache, key, feedcache.StalenessBoosted,
		func(ctx context.Context) ([]domain.BoostedToken, error) {
			return fetch(ctx)
		})
	if err != nil {
		s.logger.Printf("boosts %s: %v", which, err)
		boosts = nil
	}
	if boosts == nil {
		boosts = []domain.BoostedToken{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"tokens": boosts})
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	key := feedcache.Key("profiles", "", "")
	profiles, _, err := feedcache.Cached(r.Context(), s.cache, key, feedcache.StalenessBoosted,
		func(ctx context.Context) ([]domain.TokenProfile, error) {
			return s.gateway.GetTokenProfiles(ctx)
		})
	if err != nil {
		s.logger.Printf("profiles: %v", err)
		profiles = nil
	}
	if profiles == nil {
		profiles = []domain.TokenProfile{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"profiles": profiles})
}

// resolveWatchlistPairs fans out pair lookups for all watchlist entries.
// Entries that fail to resolve are skipped.
func (s *Server) resolveWatchlistPairs(ctx context.Context, entries []string) []domain.Pair {
	results := make([]*domain.Pair, len(entries))

	var wg sync.WaitGroup
	for i, entry := range entries {
		chain, addr, ok := strings.Cut(entry, "-")
		if !ok || chain == "" || addr == "" {
			continue
		}
		wg.Add(1)
		go func(i int, chain, addr string) {
			defer wg.Done()
			p, err := s.gateway.GetPairByAddress(ctx, chain, addr)
			if err != nil {
				s.logger.Printf("resolve watchlist %s-%s: %v", chain, addr, err)
				return
			}
			results[i] = p
		}(i, chain, addr)
	}
	wg.Wait()

	pairs := make([]domain.Pair, 0, len(entries))
	for _, p := range results {
		if p != nil {
			pairs = append(pairs, *p)
		}
	}
	return pairs
}
