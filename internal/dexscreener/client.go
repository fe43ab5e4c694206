// Package dexscreener implements a typed client for the public
// DexScreener REST API. The API is unauthenticated and rate-limited by
// convention; the client performs no retries. Callers poll, and the next
// poll is the retry.
package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iinyiska/dextrend/internal/domain"
	"github.com/iinyiska/dextrend/internal/observability"
)

// DefaultBaseURL is the public DexScreener API endpoint.
const DefaultBaseURL = "https://api.dexscreener.com"

// DefaultTimeout bounds every upstream call. The upstream publishes no
// SLA; without a timeout a hung endpoint stalls a whole feed build.
const DefaultTimeout = 10 * time.Second

// MaxBatchAddresses is the upstream limit on comma-joined token addresses.
const MaxBatchAddresses = 30

// Client is a DexScreener API client. Safe for concurrent use.
type Client struct {
	baseURL string
	client  *http.Client
	metrics *observability.Metrics
}

// Option configures Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (tests).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithMetrics attaches prometheus instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a new DexScreener API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// searchResponse is the envelope of the /latest/dex endpoints.
type searchResponse struct {
	SchemaVersion string        `json:"schemaVersion"`
	Pairs         []domain.Pair `json:"pairs"`
}

// get performs one GET and decodes the JSON body into out.
// A non-2xx status is an error; there is no retry.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	started := time.Now()
	err := c.doGet(ctx, path, out)
	if c.metrics != nil {
		c.metrics.ObserveUpstreamCall(endpointLabel(path), time.Since(started), err)
	}
	return err
}

func (c *Client) doGet(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// endpointLabel collapses a request path to a low-cardinality metric label.
func endpointLabel(path string) string {
	switch {
	case strings.HasPrefix(path, "/latest/dex/search"):
		return "search"
	case strings.HasPrefix(path, "/latest/dex/pairs/"):
		return "pairs"
	case strings.HasPrefix(path, "/token-pairs/"):
		return "token_pairs"
	case strings.HasPrefix(path, "/tokens/"):
		return "tokens"
	case strings.HasPrefix(path, "/token-profiles/"):
		return "token_profiles"
	case strings.HasPrefix(path, "/token-boosts/top"):
		return "boosts_top"
	case strings.HasPrefix(path, "/token-boosts/"):
		return "boosts_latest"
	default:
		return "other"
	}
}

// SearchPairs issues a keyword search. Callers enforce a minimum query
// length of 2 before invoking. A nil slice with nil error means the
// upstream matched nothing.
func (c *Client) SearchPairs(ctx context.Context, query string) ([]domain.Pair, error) {
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}
	var resp searchResponse
	path := "/latest/dex/search?q=" + url.QueryEscape(query)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("search pairs %q: %w", query, err)
	}
	return resp.Pairs, nil
}

// GetPairByAddress fetches a single pair. Returns (nil, nil) when the
// upstream knows no such pair.
func (c *Client) GetPairByAddress(ctx context.Context, chainID, pairAddress string) (*domain.Pair, error) {
	var resp searchResponse
	path := fmt.Sprintf("/latest/dex/pairs/%s/%s", url.PathEscape(chainID), url.PathEscape(pairAddress))
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("get pair %s/%s: %w", chainID, pairAddress, err)
	}
	if len(resp.Pairs) == 0 {
		return nil, nil
	}
	return &resp.Pairs[0], nil
}

// GetTokenPools returns all pools trading the given token on one chain.
func (c *Client) GetTokenPools(ctx context.Context, chainID, tokenAddress string) ([]domain.Pair, error) {
	var pairs []domain.Pair
	path := fmt.Sprintf("/token-pairs/v1/%s/%s", url.PathEscape(chainID), url.PathEscape(tokenAddress))
	if err := c.get(ctx, path, &pairs); err != nil {
		return nil, fmt.Errorf("get token pools %s/%s: %w", chainID, tokenAddress, err)
	}
	return pairs, nil
}

// GetTokensByAddresses fetches pairs for up to MaxBatchAddresses token
// addresses in one call. Extra addresses are dropped, matching the
// upstream contract.
func (c *Client) GetTokensByAddresses(ctx context.Context, chainID string, addresses []string) ([]domain.Pair, error) {
	if len(addresses) == 0 {
		return nil, nil
	}
	if len(addresses) > MaxBatchAddresses {
		addresses = addresses[:MaxBatchAddresses]
	}
	var pairs []domain.Pair
	path := fmt.Sprintf("/tokens/v1/%s/%s", url.PathEscape(chainID), strings.Join(addresses, ","))
	if err := c.get(ctx, path, &pairs); err != nil {
		return nil, fmt.Errorf("get tokens %s: %w", chainID, err)
	}
	return pairs, nil
}

// GetTokenProfiles returns the latest published token profiles.
func (c *Client) GetTokenProfiles(ctx context.Context) ([]domain.TokenProfile, error) {
	var profiles []domain.TokenProfile
	if err := c.get(ctx, "/token-profiles/latest/v1", &profiles); err != nil {
		return nil, fmt.Errorf("get token profiles: %w", err)
	}
	return profiles, nil
}

// GetBoostedTokens returns the latest boosted tokens.
func (c *Client) GetBoostedTokens(ctx context.Context) ([]domain.BoostedToken, error) {
	var tokens []domain.BoostedToken
	if err := c.get(ctx, "/token-boosts/latest/v1", &tokens); err != nil {
		return nil, fmt.Errorf("get boosted tokens: %w", err)
	}
	return tokens, nil
}

// GetTopBoostedTokens returns tokens ranked by total boost amount.
func (c *Client) GetTopBoostedTokens(ctx context.Context) ([]domain.BoostedToken, error) {
	var tokens []domain.BoostedToken
	if err := c.get(ctx, "/token-boosts/top/v1", &tokens); err != nil {
		return nil, fmt.Errorf("get top boosted tokens: %w", err)
	}
	return tokens, nil
}
