// Package feeds synthesizes list-style feeds (new pairs, gainers, losers,
// trending) that the upstream API does not expose directly. Each feed fans
// out a fixed set of seed keyword searches and post-processes the union:
// the seeds are an acknowledged proxy for "list all pairs" against an API
// that only supports keyword search.
package feeds

import "fmt"

// Kind names one synthesized feed.
type Kind string

// Feed kinds.
const (
	KindNew      Kind = "new"
	KindGainers  Kind = "gainers"
	KindLosers   Kind = "losers"
	KindTrending Kind = "trending"
)

// Kinds lists all feed kinds in presentation order.
var Kinds = []Kind{KindNew, KindGainers, KindLosers, KindTrending}

// ParseKind validates a feed kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindNew, KindGainers, KindLosers, KindTrending:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown feed kind %q", s)
}

// Ordering determines how a feed ranks its result set.
type Ordering string

// Orderings.
const (
	OrderCreatedDesc     Ordering = "created_desc"      // newest pairCreatedAt first
	OrderChange24Desc    Ordering = "change_h24_desc"   // biggest 24h gain first
	OrderChange24Asc     Ordering = "change_h24_asc"    // biggest 24h loss first
	OrderVolume24Desc    Ordering = "volume_h24_desc"   // highest 24h volume first
)

// ChangeFilter restricts entries by the sign of priceChange.h24.
type ChangeFilter int

// Change filters.
const (
	ChangeAny      ChangeFilter = iota
	ChangePositive              // gainers: h24 > 0
	ChangeNegative              // losers: h24 < 0
)

// Definition holds the parameters of one feed.
type Definition struct {
	Kind         Kind
	Seeds        []string // seed keywords, searched concurrently
	MinLiquidity float64  // minimum liquidity.usd
	MaxResults   int      // result set cap
	Ordering     Ordering
	Change       ChangeFilter
}

// Validate checks a definition for internal consistency.
func (d *Definition) Validate() error {
	if _, err := ParseKind(string(d.Kind)); err != nil {
		return err
	}
	if len(d.Seeds) == 0 {
		return fmt.Errorf("feed %s: no seed keywords", d.Kind)
	}
	for _, s := range d.Seeds {
		if len(s) < 2 {
			return fmt.Errorf("feed %s: seed %q shorter than 2 characters", d.Kind, s)
		}
	}
	if d.MinLiquidity < 0 {
		return fmt.Errorf("feed %s: negative liquidity threshold", d.Kind)
	}
	if d.MaxResults <= 0 {
		return fmt.Errorf("feed %s: non-positive result cap", d.Kind)
	}
	switch d.Ordering {
	case OrderCreatedDesc, OrderChange24Desc, OrderChange24Asc, OrderVolume24Desc:
	default:
		return fmt.Errorf("feed %s: unknown ordering %q", d.Kind, d.Ordering)
	}
	return nil
}

// DefaultDefinitions returns the built-in feed parameters. The seed lists
// bias toward meme-coin-adjacent terms for result diversity; gainers and
// losers use disjoint seed sets so their unions differ.
func DefaultDefinitions() map[Kind]Definition {
	return map[Kind]Definition{
		KindNew: {
			Kind:         KindNew,
			Seeds:        []string{"pepe", "doge", "inu"},
			MinLiquidity: 1000,
			MaxResults:   50,
			Ordering:     OrderCreatedDesc,
			Change:       ChangeAny,
		},
		KindGainers: {
			Kind:         KindGainers,
			Seeds:        []string{"pepe", "inu"},
			MinLiquidity: 5000,
			MaxResults:   20,
			Ordering:     OrderChange24Desc,
			Change:       ChangePositive,
		},
		KindLosers: {
			Kind:         KindLosers,
			Seeds:        []string{"doge", "cat"},
			MinLiquidity: 5000,
			MaxResults:   20,
			Ordering:     OrderChange24Asc,
			Change:       ChangeNegative,
		},
		KindTrending: {
			Kind:         KindTrending,
			Seeds:        []string{"pepe", "trump"},
			MinLiquidity: 10000,
			MaxResults:   20,
			Ordering:     OrderVolume24Desc,
			Change:       ChangeAny,
		},
	}
}
