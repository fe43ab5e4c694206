package domain

import (
	"fmt"
	"strconv"
)

// Token identifies one side of a trading pair.
type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// WindowCounts holds buy/sell transaction counts for one time window.
type WindowCounts struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

// Txns holds transaction counts over the four fixed windows.
type Txns struct {
	M5  WindowCounts `json:"m5"`
	H1  WindowCounts `json:"h1"`
	H6  WindowCounts `json:"h6"`
	H24 WindowCounts `json:"h24"`
}

// Volume holds USD trading volume over the four fixed windows.
type Volume struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

// PriceChange holds price change percentages over the four fixed windows.
type PriceChange struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

// Liquidity holds pool liquidity in USD plus both token sides.
// Pointer fields are used where the upstream API omits the object entirely.
type Liquidity struct {
	USD   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

// Link is a labelled external URL attached to pair metadata.
type Link struct {
	Type  string `json:"type,omitempty"`
	Label string `json:"label,omitempty"`
	URL   string `json:"url"`
}

// PairInfo is optional descriptive metadata attached to a pair.
type PairInfo struct {
	ImageURL string `json:"imageUrl,omitempty"`
	Header   string `json:"header,omitempty"`
	Websites []Link `json:"websites,omitempty"`
	Socials  []Link `json:"socials,omitempty"`
}

// Pair is an immutable snapshot of one base/quote trading venue on one
// chain/DEX. A newer fetch replaces the value wholesale; pairs are never
// mutated in place. Identity is (ChainID, PairAddress).
type Pair struct {
	ChainID       string      `json:"chainId"`
	DexID         string      `json:"dexId"`
	URL           string      `json:"url,omitempty"`
	PairAddress   string      `json:"pairAddress"`
	BaseToken     Token       `json:"baseToken"`
	QuoteToken    Token       `json:"quoteToken"`
	PriceNative   string      `json:"priceNative"`
	PriceUsd      string      `json:"priceUsd"`
	Txns          Txns        `json:"txns"`
	Volume        Volume      `json:"volume"`
	PriceChange   PriceChange `json:"priceChange"`
	Liquidity     *Liquidity  `json:"liquidity,omitempty"`
	FDV           float64     `json:"fdv,omitempty"`
	MarketCap     float64     `json:"marketCap,omitempty"`
	PairCreatedAt int64       `json:"pairCreatedAt,omitempty"` // epoch milliseconds
	Info          *PairInfo   `json:"info,omitempty"`
}

// Key returns the canonical "{chainId}-{pairAddress}" identity string,
// which is also the watchlist entry format.
func (p *Pair) Key() string {
	return PairKey(p.ChainID, p.PairAddress)
}

// LiquidityUSD returns the pool's USD liquidity, zero when the upstream
// omitted the liquidity object.
func (p *Pair) LiquidityUSD() float64 {
	if p.Liquidity == nil {
		return 0
	}
	return p.Liquidity.USD
}

// PriceUSDFloat parses PriceUsd defensively: missing or malformed values
// yield zero rather than an error.
func (p *Pair) PriceUSDFloat() float64 {
	if p.PriceUsd == "" {
		return 0
	}
	v, err := strconv.ParseFloat(p.PriceUsd, 64)
	if err != nil {
		return 0
	}
	return v
}

// PairKey builds the "{chainId}-{pairAddress}" identity string.
func PairKey(chainID, pairAddress string) string {
	return fmt.Sprintf("%s-%s", chainID, pairAddress)
}
