// Package history records price points from pair refreshes and serves
// range queries for charting.
package history

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/iinyiska/dextrend/internal/domain"
	"github.com/iinyiska/dextrend/internal/observability"
	"github.com/iinyiska/dextrend/internal/storage"
)

// Options configures a Sampler.
type Options struct {
	Store   storage.PriceHistoryStore
	Metrics *observability.Metrics
	Logger  *log.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Sampler turns pair snapshots into stored price points.
type Sampler struct {
	store   storage.PriceHistoryStore
	metrics *observability.Metrics
	logger  *log.Logger
	now     func() time.Time
}

// New creates a Sampler.
func New(opts Options) *Sampler {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[history] ", log.LstdFlags)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Sampler{store: opts.Store, metrics: opts.Metrics, logger: logger, now: now}
}

// Record stores one point per pair, timestamped now. Pairs with a missing
// or malformed priceUsd are skipped, not failed.
func (s *Sampler) Record(ctx context.Context, pairs ...*domain.Pair) error {
	ts := s.now().UnixMilli()

	points := make([]*domain.PricePoint, 0, len(pairs))
	for _, p := range pairs {
		if p == nil || p.ChainID == "" || p.PairAddress == "" {
			continue
		}
		price, err := strconv.ParseFloat(p.PriceUsd, 64)
		if err != nil {
			s.logger.Printf("skipping %s: unparseable priceUsd %q", p.Key(), p.PriceUsd)
			continue
		}
		points = append(points, &domain.PricePoint{
			ChainID:      p.ChainID,
			PairAddress:  p.PairAddress,
			TimestampMs:  ts,
			PriceUSD:     price,
			VolumeH24:    p.Volume.H24,
			LiquidityUSD: p.LiquidityUSD(),
		})
	}
	if len(points) == 0 {
		return nil
	}

	if err := s.store.InsertBulk(ctx, points); err != nil {
		return fmt.Errorf("store price points: %w", err)
	}
	if s.metrics != nil {
		s.metrics.PointsSampled.Add(float64(len(points)))
	}
	return nil
}

// Range returns points for one pair within [from, to] (epoch ms,
// inclusive), oldest first.
func (s *Sampler) Range(ctx context.Context, chainID, pairAddress string, from, to int64) ([]*domain.PricePoint, error) {
	if chainID == "" || pairAddress == "" {
		return nil, storage.ErrInvalidInput
	}
	points, err := s.store.GetByPairRange(ctx, chainID, pairAddress, from, to)
	if err != nil {
		return nil, fmt.Errorf("query price history: %w", err)
	}
	return points, nil
}
