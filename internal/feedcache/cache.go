// Package feedcache provides a stale-while-revalidate cache for upstream
// market data. Fresh entries are served directly, stale entries are served
// immediately while a single background refresh runs, and misses fetch
// synchronously.
package feedcache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/iinyiska/dextrend/internal/observability"
)

// Staleness windows per cached surface.
const (
	StalenessSearch   = 30 * time.Second
	StalenessNew      = 30 * time.Second
	StalenessGainers  = 60 * time.Second
	StalenessLosers   = 60 * time.Second
	StalenessTrending = 60 * time.Second
	StalenessBoosted  = 60 * time.Second
	StalenessPair     = 10 * time.Second
)

// Poll intervals for the background refreshers. Search results are
// request-driven and never polled.
const (
	PollIntervalNew      = 30 * time.Second
	PollIntervalGainers  = 60 * time.Second
	PollIntervalLosers   = 60 * time.Second
	PollIntervalTrending = 60 * time.Second
	PollIntervalBoosted  = 60 * time.Second
)

// refreshTimeout bounds a single background refresh.
const refreshTimeout = 30 * time.Second

// Entry is one cached payload with its fetch time.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	FetchedAt int64           `json:"fetchedAt"` // epoch milliseconds
}

// Backend stores cache entries by key. Get returns (nil, nil) on a miss.
type Backend interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry *Entry) error
}

// FetchFunc produces a fresh payload for a cache key.
type FetchFunc func(ctx context.Context) (json.RawMessage, error)

// Key builds a cache key from feed name, chain scope and parameter.
// Empty chain means all chains; param carries the query or pair address.
func Key(feed, chain, param string) string {
	return feed + "|" + chain + "|" + param
}

// feedLabel extracts the feed segment of a key for metric labels.
func feedLabel(key string) string {
	if i := strings.IndexByte(key, '|'); i >= 0 {
		return key[:i]
	}
	return key
}

// Options configures a Service.
type Options struct {
	Backend Backend
	Metrics *observability.Metrics
	Logger  *log.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Service implements stale-while-revalidate reads over a Backend.
type Service struct {
	backend Backend
	metrics *observability.Metrics
	logger  *log.Logger
	now     func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

// New creates a cache service. Backend is required.
func New(opts Options) *Service {
	if opts.Backend == nil {
		panic("feedcache: Backend is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[feedcache] ", log.LstdFlags)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		backend:  opts.Backend,
		metrics:  opts.Metrics,
		logger:   logger,
		now:      now,
		inflight: make(map[string]struct{}),
	}
}

// Get returns the payload for key. The stale return reports whether the
// value was served past its staleness window (a background refresh has
// been scheduled in that case).
//
// A backend read error is treated as a miss rather than a failure.
func (s *Service) Get(ctx context.Context, key string, staleness time.Duration, fetch FetchFunc) (json.RawMessage, bool, error) {
	label := feedLabel(key)

	entry, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logger.Printf("backend get %s: %v", key, err)
		entry = nil
	}

	if entry != nil {
		age := s.now().UnixMilli() - entry.FetchedAt
		if age <= staleness.Milliseconds() {
			if s.metrics != nil {
				s.metrics.CacheHits.WithLabelValues(label).Inc()
			}
			return entry.Data, false, nil
		}

		if s.metrics != nil {
			s.metrics.CacheStaleHits.WithLabelValues(label).Inc()
		}
		s.refreshAsync(key, fetch)
		return entry.Data, true, nil
	}

	if s.metrics != nil {
		s.metrics.CacheMisses.WithLabelValues(label).Inc()
	}

	data, err := fetch(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("fetch %s: %w", key, err)
	}
	s.store(ctx, key, data)
	return data, false, nil
}

// Refresh fetches key synchronously and stores the result, bypassing the
// staleness check. Used by pollers.
func (s *Service) Refresh(ctx context.Context, key string, fetch FetchFunc) error {
	data, err := fetch(ctx)
	if err != nil {
		return fmt.Errorf("refresh %s: %w", key, err)
	}
	s.store(ctx, key, data)
	return nil
}

// refreshAsync schedules a single background refresh for key. Concurrent
// callers while one is in flight are no-ops.
func (s *Service) refreshAsync(key string, fetch FetchFunc) {
	s.mu.Lock()
	if _, running := s.inflight[key]; running {
		s.mu.Unlock()
		return
	}
	s.inflight[key] = struct{}{}
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.inflight, key)
			s.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		data, err := fetch(ctx)
		if err != nil {
			s.logger.Printf("background refresh %s: %v", key, err)
			return
		}
		s.store(ctx, key, data)
	}()
}

func (s *Service) store(ctx context.Context, key string, data json.RawMessage) {
	entry := &Entry{Data: data, FetchedAt: s.now().UnixMilli()}
	if err := s.backend.Set(ctx, key, entry); err != nil {
		s.logger.Printf("backend set %s: %v", key, err)
	}
}

// Cached is a typed wrapper over Service.Get: it marshals the fetch result
// into the cache and unmarshals cached payloads back into T.
func Cached[T any](ctx context.Context, s *Service, key string, staleness time.Duration, fetch func(context.Context) (T, error)) (T, bool, error) {
	var zero T

	raw, stale, err := s.Get(ctx, key, staleness, func(ctx context.Context) (json.RawMessage, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return zero, false, err
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return out, stale, nil
}
