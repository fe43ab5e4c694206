package domain

// Theme values. Exactly two are supported.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// DefaultTheme is applied when no persisted preference exists.
const DefaultTheme = ThemeDark

// Preference keys for the key-value preference store.
const (
	PrefTheme         = "theme"
	PrefSelectedChain = "selected_chain"
)

// PricePoint is one sampled price observation for a pair, recorded by the
// history sampler and served to the chart endpoint.
type PricePoint struct {
	ChainID      string  `json:"chainId"`
	PairAddress  string  `json:"pairAddress"`
	TimestampMs  int64   `json:"timestampMs"`
	PriceUSD     float64 `json:"priceUsd"`
	VolumeH24    float64 `json:"volumeH24"`
	LiquidityUSD float64 `json:"liquidityUsd"`
}
