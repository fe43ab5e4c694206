package domain

// TokenProfile is descriptive token metadata published through the
// upstream profile endpoint. Distinct shape from Pair; never merged.
type TokenProfile struct {
	URL          string `json:"url"`
	ChainID      string `json:"chainId"`
	TokenAddress string `json:"tokenAddress"`
	Icon         string `json:"icon,omitempty"`
	Header       string `json:"header,omitempty"`
	Description  string `json:"description,omitempty"`
	Links        []Link `json:"links,omitempty"`
}

// BoostedToken is a token promoted via the upstream paid-boost mechanism.
// Amount is the active boost, TotalAmount the lifetime total.
type BoostedToken struct {
	URL          string  `json:"url"`
	ChainID      string  `json:"chainId"`
	TokenAddress string  `json:"tokenAddress"`
	Icon         string  `json:"icon,omitempty"`
	Header       string  `json:"header,omitempty"`
	Description  string  `json:"description,omitempty"`
	Amount       float64 `json:"amount"`
	TotalAmount  float64 `json:"totalAmount"`
}
