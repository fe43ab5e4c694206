package domain

// Chain describes one supported network for display purposes.
type Chain struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// SupportedChains lists the networks the dashboard filter exposes.
// Feeds are not restricted to these; the upstream API may return pairs on
// other chains and they pass through unfiltered when no chain is selected.
var SupportedChains = []Chain{
	{ID: "ethereum", Name: "Ethereum", Color: "#627EEA"},
	{ID: "bsc", Name: "BNB Chain", Color: "#F0B90B"},
	{ID: "solana", Name: "Solana", Color: "#9945FF"},
	{ID: "polygon", Name: "Polygon", Color: "#8247E5"},
	{ID: "arbitrum", Name: "Arbitrum", Color: "#28A0F0"},
	{ID: "base", Name: "Base", Color: "#0052FF"},
	{ID: "avalanche", Name: "Avalanche", Color: "#E84142"},
	{ID: "optimism", Name: "Optimism", Color: "#FF0420"},
	{ID: "fantom", Name: "Fantom", Color: "#1969FF"},
	{ID: "cronos", Name: "Cronos", Color: "#002D74"},
}

// ChainByID returns the chain entry for id, or nil when unknown.
func ChainByID(id string) *Chain {
	for i := range SupportedChains {
		if SupportedChains[i].ID == id {
			return &SupportedChains[i]
		}
	}
	return nil
}
