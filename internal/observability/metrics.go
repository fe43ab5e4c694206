// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Upstream API metrics
	UpstreamRequests *prometheus.CounterVec
	UpstreamErrors   *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec

	// Cache metrics
	CacheHits      *prometheus.CounterVec
	CacheMisses    *prometheus.CounterVec
	CacheStaleHits *prometheus.CounterVec

	// Feed pipeline metrics
	FeedBuilds        *prometheus.CounterVec
	FeedBuildDuration *prometheus.HistogramVec
	FeedSeedFailures  *prometheus.CounterVec
	FeedResultSize    *prometheus.GaugeVec

	// Poller metrics
	PollerRuns   *prometheus.CounterVec
	PollerErrors *prometheus.CounterVec

	// HTTP API metrics
	HTTPRequests *prometheus.CounterVec

	// History sampler metrics
	PointsSampled prometheus.Counter

	// Admin metrics
	ActiveSessions prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered
// on the default registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "dextrend"
	}

	return &Metrics{
		UpstreamRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total requests issued to the DexScreener API",
		}, []string{"endpoint"}),
		UpstreamErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "Upstream requests that failed or returned non-2xx",
		}, []string{"endpoint"}),
		UpstreamLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_latency_seconds",
			Help:      "Latency of DexScreener API calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),

		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Cache lookups served fresh without an upstream call",
		}, []string{"feed"}),
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Cache lookups with no usable cached value",
		}, []string{"feed"}),
		CacheStaleHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_stale_hits_total",
			Help:      "Cache lookups served stale while a refresh runs",
		}, []string{"feed"}),

		FeedBuilds: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_builds_total",
			Help:      "Feed aggregation pipeline runs",
		}, []string{"feed"}),
		FeedBuildDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_build_duration_seconds",
			Help:      "Duration of feed aggregation pipeline runs",
			Buckets:   prometheus.DefBuckets,
		}, []string{"feed"}),
		FeedSeedFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_seed_failures_total",
			Help:      "Seed searches that failed during feed builds",
		}, []string{"feed"}),
		FeedResultSize: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_result_size",
			Help:      "Size of the most recent result set per feed",
		}, []string{"feed"}),

		PollerRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poller_runs_total",
			Help:      "Scheduled feed refresh runs",
		}, []string{"feed"}),
		PollerErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poller_errors_total",
			Help:      "Scheduled feed refresh runs that failed",
		}, []string{"feed"}),

		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by route and status class",
		}, []string{"route", "status"}),

		PointsSampled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_points_sampled_total",
			Help:      "Price points recorded by the history sampler",
		}),

		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "admin_active_sessions",
			Help:      "Unexpired admin sessions",
		}),
	}
}

// ObserveUpstreamCall records one upstream request outcome.
func (m *Metrics) ObserveUpstreamCall(endpoint string, elapsed time.Duration, err error) {
	m.UpstreamRequests.WithLabelValues(endpoint).Inc()
	m.UpstreamLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
	if err != nil {
		m.UpstreamErrors.WithLabelValues(endpoint).Inc()
	}
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
