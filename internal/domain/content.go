package domain

// SiteSettings is the single-row site branding record.
type SiteSettings struct {
	LogoURL         string `json:"logoUrl"`
	LogoText        string `json:"logoText"`
	SiteTitle       string `json:"siteTitle"`
	SiteDescription string `json:"siteDescription"`
	PrimaryColor    string `json:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor"`
	HeaderBgColor   string `json:"headerBgColor"`
	UpdatedAt       int64  `json:"updatedAt"` // epoch milliseconds
}

// Banner placement slots.
const (
	BannerPositionHero    = "hero"
	BannerPositionSidebar = "sidebar"
	BannerPositionFooter  = "footer"
)

// Banner is a promotional image block placed in a fixed slot.
type Banner struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl"`
	LinkURL     string `json:"linkUrl,omitempty"`
	Position    string `json:"position"`
	Active      bool   `json:"active"`
	OrderIndex  int    `json:"orderIndex"`
	CreatedAt   int64  `json:"createdAt"` // epoch milliseconds
}

// Ad placement slots.
const (
	AdPositionHeader         = "header"
	AdPositionSidebar        = "sidebar"
	AdPositionBetweenContent = "between_content"
	AdPositionFooter         = "footer"
	AdPositionPopup          = "popup"
)

// Ad is an embeddable ad unit (raw markup) placed in a fixed slot.
type Ad struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AdCode     string `json:"adCode"`
	Position   string `json:"position"`
	Active     bool   `json:"active"`
	OrderIndex int    `json:"orderIndex"`
	CreatedAt  int64  `json:"createdAt"`
}

// PromotedToken is an operator-pinned token shown in the promoted grid.
type PromotedToken struct {
	ID          string `json:"id"`
	ChainID     string `json:"chainId"`
	PairAddress string `json:"pairAddress"`
	TokenName   string `json:"tokenName"`
	TokenSymbol string `json:"tokenSymbol"`
	LogoURL     string `json:"logoUrl,omitempty"`
	Active      bool   `json:"active"`
	OrderIndex  int    `json:"orderIndex"`
	CreatedAt   int64  `json:"createdAt"`
}

// AdminAccount is a registered admin identity. The password is stored as
// a salted digest; the plaintext never reaches storage.
type AdminAccount struct {
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Salt         string `json:"-"`
	CreatedAt    int64  `json:"createdAt"`
}

// Session is an issued admin session token.
type Session struct {
	Token     string `json:"token"`
	Email     string `json:"email"`
	ExpiresAt int64  `json:"expiresAt"` // epoch milliseconds
}
