package feeds

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/iinyiska/dextrend/internal/domain"
	"github.com/iinyiska/dextrend/internal/observability"
)

// Searcher is the slice of the gateway the pipeline needs.
type Searcher interface {
	SearchPairs(ctx context.Context, query string) ([]domain.Pair, error)
}

// Pipeline builds ranked, de-duplicated, bounded feed result sets.
type Pipeline struct {
	searcher Searcher
	defs     map[Kind]Definition
	metrics  *observability.Metrics
	logger   *log.Logger
}

// PipelineOptions configures a Pipeline.
type PipelineOptions struct {
	Searcher    Searcher
	Definitions map[Kind]Definition // nil means DefaultDefinitions
	Metrics     *observability.Metrics
	Logger      *log.Logger
}

// NewPipeline creates a feed pipeline.
func NewPipeline(opts PipelineOptions) (*Pipeline, error) {
	if opts.Searcher == nil {
		return nil, fmt.Errorf("feeds: searcher is required")
	}
	defs := opts.Definitions
	if defs == nil {
		defs = DefaultDefinitions()
	}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("feeds: %w", err)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		searcher: opts.Searcher,
		defs:     defs,
		metrics:  opts.Metrics,
		logger:   logger,
	}, nil
}

// Definition returns the parameters of one feed.
func (p *Pipeline) Definition(kind Kind) (Definition, bool) {
	d, ok := p.defs[kind]
	return d, ok
}

// Build produces the result set for one feed, optionally scoped to a
// single chain (empty chainID means all chains).
//
// A failed seed search logs and contributes nothing; the pipeline returns
// an error only when every seed fails, so a degraded upstream yields a
// partial feed rather than an empty page.
func (p *Pipeline) Build(ctx context.Context, kind Kind, chainID string) ([]domain.Pair, error) {
	def, ok := p.defs[kind]
	if !ok {
		return nil, fmt.Errorf("feeds: unknown feed %q", kind)
	}

	started := time.Now()
	pairs, err := p.build(ctx, def, chainID)
	if p.metrics != nil {
		p.metrics.FeedBuilds.WithLabelValues(string(kind)).Inc()
		p.metrics.FeedBuildDuration.WithLabelValues(string(kind)).Observe(time.Since(started).Seconds())
		if err == nil {
			p.metrics.FeedResultSize.WithLabelValues(string(kind)).Set(float64(len(pairs)))
		}
	}
	return pairs, err
}

func (p *Pipeline) build(ctx context.Context, def Definition, chainID string) ([]domain.Pair, error) {
	results := make([][]domain.Pair, len(def.Seeds))
	errs := make([]error, len(def.Seeds))

	var wg sync.WaitGroup
	for i, seed := range def.Seeds {
		wg.Add(1)
		go func(i int, seed string) {
			defer wg.Done()
			results[i], errs[i] = p.searcher.SearchPairs(ctx, seed)
		}(i, seed)
	}
	wg.Wait()

	var working []domain.Pair
	failed := 0
	for i, seed := range def.Seeds {
		if errs[i] != nil {
			failed++
			p.logger.Printf("feed %s: seed %q failed: %v", def.Kind, seed, errs[i])
			if p.metrics != nil {
				p.metrics.FeedSeedFailures.WithLabelValues(string(def.Kind)).Inc()
			}
			continue
		}
		working = append(working, results[i]...)
	}
	if failed == len(def.Seeds) {
		return nil, fmt.Errorf("feeds: all %d seeds failed for %s", failed, def.Kind)
	}

	filtered := working[:0:0]
	for _, pair := range working {
		if !p.keep(def, chainID, pair) {
			continue
		}
		filtered = append(filtered, pair)
	}

	deduped := dedupe(filtered)
	rank(deduped, def.Ordering)

	if len(deduped) > def.MaxResults {
		deduped = deduped[:def.MaxResults]
	}
	return deduped, nil
}

// keep applies the per-feed filters to one pair.
func (p *Pipeline) keep(def Definition, chainID string, pair domain.Pair) bool {
	if IsExcludedBaseSymbol(pair.BaseToken.Symbol) {
		return false
	}
	if chainID != "" && pair.ChainID != chainID {
		return false
	}
	if pair.LiquidityUSD() < def.MinLiquidity {
		return false
	}
	switch def.Change {
	case ChangePositive:
		if pair.PriceChange.H24 <= 0 {
			return false
		}
	case ChangeNegative:
		if pair.PriceChange.H24 >= 0 {
			return false
		}
	}
	return true
}

// dedupe removes duplicate (chainId, pairAddress) entries, keeping the
// first occurrence in iteration order.
func dedupe(pairs []domain.Pair) []domain.Pair {
	seen := make(map[string]struct{}, len(pairs))
	out := pairs[:0:0]
	for _, pair := range pairs {
		key := pair.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, pair)
	}
	return out
}

// rank sorts pairs in place by the feed's ordering. Sorting is stable so
// upstream result order breaks ties deterministically.
func rank(pairs []domain.Pair, ordering Ordering) {
	switch ordering {
	case OrderCreatedDesc:
		sort.SliceStable(pairs, func(i, j int) bool {
			return pairs[i].PairCreatedAt > pairs[j].PairCreatedAt
		})
	case OrderChange24Desc:
		sort.SliceStable(pairs, func(i, j int) bool {
			return pairs[i].PriceChange.H24 > pairs[j].PriceChange.H24
		})
	case OrderChange24Asc:
		sort.SliceStable(pairs, func(i, j int) bool {
			return pairs[i].PriceChange.H24 < pairs[j].PriceChange.H24
		})
	case OrderVolume24Desc:
		sort.SliceStable(pairs, func(i, j int) bool {
			return pairs[i].Volume.H24 > pairs[j].Volume.H24
		})
	}
}
