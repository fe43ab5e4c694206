package feeds

import (
	"context"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"testing"

	"github.com/iinyiska/dextrend/internal/domain"
)

// fakeSearcher returns canned results per seed keyword.
type fakeSearcher struct {
	results map[string][]domain.Pair
	errs    map[string]error
	calls   atomic.Int64
}

func (f *fakeSearcher) SearchPairs(_ context.Context, query string) ([]domain.Pair, error) {
	f.calls.Add(1)
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	return f.results[query], nil
}

func makePair(chainID, addr, baseSymbol string, liqUSD, changeH24, volH24 float64, createdAt int64) domain.Pair {
	return domain.Pair{
		ChainID:     chainID,
		DexID:       "uniswap",
		PairAddress: addr,
		BaseToken:   domain.Token{Address: "0x" + baseSymbol, Name: baseSymbol, Symbol: baseSymbol},
		QuoteToken:  domain.Token{Address: "0xWETH", Name: "Wrapped Ether", Symbol: "WETH"},
		PriceUsd:    "0.001",
		Liquidity:   &domain.Liquidity{USD: liqUSD},
		PriceChange: domain.PriceChange{H24: changeH24},
		Volume:      domain.Volume{H24: volH24},
		PairCreatedAt: createdAt,
	}
}

func newTestPipeline(t *testing.T, s Searcher, defs map[Kind]Definition) *Pipeline {
	t.Helper()
	p, err := NewPipeline(PipelineOptions{
		Searcher:    s,
		Definitions: defs,
		Logger:      log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return p
}

func TestBuild_FiltersStablecoinBase(t *testing.T) {
	s := &fakeSearcher{results: map[string][]domain.Pair{
		"pepe": {
			makePair("ethereum", "0xa", "USDT", 50000, 5, 1000, 1),
			makePair("ethereum", "0xb", "PEPE", 50000, 5, 1000, 2),
		},
	}}
	defs := map[Kind]Definition{
		KindNew: {Kind: KindNew, Seeds: []string{"pepe"}, MinLiquidity: 1000, MaxResults: 50, Ordering: OrderCreatedDesc},
	}

	got, err := newTestPipeline(t, s, defs).Build(context.Background(), KindNew, "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 pair after stablecoin filter, got %d", len(got))
	}
	if got[0].BaseToken.Symbol != "PEPE" {
		t.Errorf("expected PEPE to survive, got %s", got[0].BaseToken.Symbol)
	}
}

func TestBuild_MinimumLiquidity(t *testing.T) {
	s := &fakeSearcher{results: map[string][]domain.Pair{
		"pepe": {
			makePair("ethereum", "0xa", "PEPE", 999, 5, 1000, 1),
			makePair("ethereum", "0xb", "PEPE2", 1000, 5, 1000, 2),
		},
	}}
	defs := map[Kind]Definition{
		KindNew: {Kind: KindNew, Seeds: []string{"pepe"}, MinLiquidity: 1000, MaxResults: 50, Ordering: OrderCreatedDesc},
	}

	got, err := newTestPipeline(t, s, defs).Build(context.Background(), KindNew, "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected only the pair at the threshold, got %d", len(got))
	}
	if got[0].LiquidityUSD() < 1000 {
		t.Errorf("entry below liquidity minimum: %f", got[0].LiquidityUSD())
	}
}

func TestBuild_DeduplicatesAcrossSeeds(t *testing.T) {
	shared := makePair("ethereum", "0xdup", "PEPE", 50000, 5, 1000, 10)
	s := &fakeSearcher{results: map[string][]domain.Pair{
		"pepe": {shared, makePair("bsc", "0xa", "PEPEB", 50000, 5, 1000, 5)},
		"inu":  {shared, makePair("solana", "0xb", "WIF", 50000, 5, 1000, 7)},
	}}
	defs := map[Kind]Definition{
		KindNew: {Kind: KindNew, Seeds: []string{"pepe", "inu"}, MinLiquidity: 1000, MaxResults: 50, Ordering: OrderCreatedDesc},
	}

	got, err := newTestPipeline(t, s, defs).Build(context.Background(), KindNew, "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	seen := make(map[string]int)
	for _, pair := range got {
		seen[pair.Key()]++
	}
	for key, n := range seen {
		if n > 1 {
			t.Errorf("duplicate key %s appears %d times", key, n)
		}
	}
	if len(got) != 3 {
		t.Errorf("expected 3 distinct pairs, got %d", len(got))
	}
}

func TestBuild_GainersSignAndOrder(t *testing.T) {
	s := &fakeSearcher{results: map[string][]domain.Pair{
		"pepe": {
			makePair("ethereum", "0xa", "PEPE", 50000, -3, 1000, 1),
			makePair("ethereum", "0xb", "PEPE2", 50000, 12, 1000, 2),
			makePair("ethereum", "0xc", "PEPE3", 50000, 44, 1000, 3),
			makePair("ethereum", "0xd", "PEPE4", 50000, 0, 1000, 4),
		},
	}}
	defs := map[Kind]Definition{
		KindGainers: {Kind: KindGainers, Seeds: []string{"pepe"}, MinLiquidity: 5000, MaxResults: 20, Ordering: OrderChange24Desc, Change: ChangePositive},
	}

	got, err := newTestPipeline(t, s, defs).Build(context.Background(), KindGainers, "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 gainers, got %d", len(got))
	}
	for _, pair := range got {
		if pair.PriceChange.H24 <= 0 {
			t.Errorf("gainer with non-positive change: %f", pair.PriceChange.H24)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].PriceChange.H24 < got[i].PriceChange.H24 {
			t.Errorf("gainers not sorted descending at %d", i)
		}
	}
}

func TestBuild_LosersSignAndOrder(t *testing.T) {
	s := &fakeSearcher{results: map[string][]domain.Pair{
		"doge": {
			makePair("ethereum", "0xa", "DOGE1", 50000, -3, 1000, 1),
			makePair("ethereum", "0xb", "DOGE2", 50000, -20, 1000, 2),
			makePair("ethereum", "0xc", "DOGE3", 50000, 8, 1000, 3),
		},
	}}
	defs := map[Kind]Definition{
		KindLosers: {Kind: KindLosers, Seeds: []string{"doge"}, MinLiquidity: 5000, MaxResults: 20, Ordering: OrderChange24Asc, Change: ChangeNegative},
	}

	got, err := newTestPipeline(t, s, defs).Build(context.Background(), KindLosers, "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 losers, got %d", len(got))
	}
	if got[0].PriceChange.H24 != -20 {
		t.Errorf("expected biggest loser first, got %f", got[0].PriceChange.H24)
	}
	for _, pair := range got {
		if pair.PriceChange.H24 >= 0 {
			t.Errorf("loser with non-negative change: %f", pair.PriceChange.H24)
		}
	}
}

func TestBuild_NewPairsSortedByCreation(t *testing.T) {
	s := &fakeSearcher{results: map[string][]domain.Pair{
		"pepe": {
			makePair("ethereum", "0xa", "OLD", 50000, 1, 1000, 100),
			makePair("ethereum", "0xb", "NEWEST", 50000, 1, 1000, 300),
			makePair("ethereum", "0xc", "MID", 50000, 1, 1000, 200),
		},
	}}
	defs := map[Kind]Definition{
		KindNew: {Kind: KindNew, Seeds: []string{"pepe"}, MinLiquidity: 1000, MaxResults: 50, Ordering: OrderCreatedDesc},
	}

	got, err := newTestPipeline(t, s, defs).Build(context.Background(), KindNew, "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].PairCreatedAt < got[i].PairCreatedAt {
			t.Errorf("new pairs not sorted by creation descending at %d", i)
		}
	}
	if got[0].BaseToken.Symbol != "NEWEST" {
		t.Errorf("expected NEWEST first, got %s", got[0].BaseToken.Symbol)
	}
}

func TestBuild_TrendingByVolume(t *testing.T) {
	s := &fakeSearcher{results: map[string][]domain.Pair{
		"pepe": {
			makePair("ethereum", "0xa", "LOWVOL", 50000, 1, 100, 1),
			makePair("ethereum", "0xb", "HIGHVOL", 50000, 1, 90000, 2),
			makePair("ethereum", "0xc", "THIN", 9999, 1, 500000, 3),
		},
	}}
	defs := map[Kind]Definition{
		KindTrending: {Kind: KindTrending, Seeds: []string{"pepe"}, MinLiquidity: 10000, MaxResults: 20, Ordering: OrderVolume24Desc},
	}

	got, err := newTestPipeline(t, s, defs).Build(context.Background(), KindTrending, "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected THIN filtered by liquidity, got %d results", len(got))
	}
	if got[0].BaseToken.Symbol != "HIGHVOL" {
		t.Errorf("expected HIGHVOL first, got %s", got[0].BaseToken.Symbol)
	}
}

func TestBuild_ChainScope(t *testing.T) {
	s := &fakeSearcher{results: map[string][]domain.Pair{
		"pepe": {
			makePair("ethereum", "0xa", "PEPE", 50000, 1, 1000, 1),
			makePair("solana", "0xb", "PEPES", 50000, 1, 1000, 2),
		},
	}}
	defs := map[Kind]Definition{
		KindNew: {Kind: KindNew, Seeds: []string{"pepe"}, MinLiquidity: 1000, MaxResults: 50, Ordering: OrderCreatedDesc},
	}

	got, err := newTestPipeline(t, s, defs).Build(context.Background(), KindNew, "solana")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(got) != 1 || got[0].ChainID != "solana" {
		t.Fatalf("expected only solana pairs, got %+v", got)
	}
}

func TestBuild_PartialSeedFailure(t *testing.T) {
	s := &fakeSearcher{
		results: map[string][]domain.Pair{
			"pepe": {makePair("ethereum", "0xa", "PEPE", 50000, 1, 1000, 1)},
		},
		errs: map[string]error{"inu": errors.New("upstream 500")},
	}
	defs := map[Kind]Definition{
		KindNew: {Kind: KindNew, Seeds: []string{"pepe", "inu"}, MinLiquidity: 1000, MaxResults: 50, Ordering: OrderCreatedDesc},
	}

	got, err := newTestPipeline(t, s, defs).Build(context.Background(), KindNew, "")
	if err != nil {
		t.Fatalf("expected partial result, got error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 pair from surviving seed, got %d", len(got))
	}
}

func TestBuild_AllSeedsFail(t *testing.T) {
	s := &fakeSearcher{errs: map[string]error{
		"pepe": errors.New("down"),
		"inu":  errors.New("down"),
	}}
	defs := map[Kind]Definition{
		KindNew: {Kind: KindNew, Seeds: []string{"pepe", "inu"}, MinLiquidity: 1000, MaxResults: 50, Ordering: OrderCreatedDesc},
	}

	if _, err := newTestPipeline(t, s, defs).Build(context.Background(), KindNew, ""); err == nil {
		t.Fatal("expected error when every seed fails")
	}
}

func TestBuild_Truncation(t *testing.T) {
	var pairs []domain.Pair
	for i := 0; i < 30; i++ {
		pairs = append(pairs, makePair("ethereum", string(rune('a'+i)), "PEPE", 50000, 1, 1000, int64(i)))
	}
	s := &fakeSearcher{results: map[string][]domain.Pair{"pepe": pairs}}
	defs := map[Kind]Definition{
		KindGainers: {Kind: KindGainers, Seeds: []string{"pepe"}, MinLiquidity: 1000, MaxResults: 20, Ordering: OrderChange24Desc, Change: ChangePositive},
	}

	got, err := newTestPipeline(t, s, defs).Build(context.Background(), KindGainers, "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(got) != 20 {
		t.Errorf("expected cap of 20, got %d", len(got))
	}
}

func TestDefaultDefinitions_Valid(t *testing.T) {
	for kind, def := range DefaultDefinitions() {
		if err := def.Validate(); err != nil {
			t.Errorf("default definition %s invalid: %v", kind, err)
		}
	}
}
