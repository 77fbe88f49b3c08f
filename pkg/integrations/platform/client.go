package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clawnch/clawctl/pkg/cache"
	clawerr "github.com/clawnch/clawctl/pkg/errors"
	"github.com/clawnch/clawctl/pkg/integrations"
)

// DefaultBaseURL is the production Clawnch API.
const DefaultBaseURL = "https://clawn.ch"

// Client provides access to the Clawnch REST API.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Clawnch API client. An empty baseURL selects
// [DefaultBaseURL]; a trailing slash is stripped. c may be nil to disable
// caching. Cache keys are scoped by base URL.
func NewClient(baseURL string, c cache.Cache, cacheTTL time.Duration, opts ...integrations.ClientOption) *Client {
	baseURL = integrations.NormalizeBaseURL(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cache.ScopeForURL(baseURL))
	opts = append([]integrations.ClientOption{integrations.WithKeyer(keyer)}, opts...)
	return &Client{
		Client:  integrations.NewClient(c, "platform", cacheTTL, nil, opts...),
		baseURL: baseURL,
	}
}

// BaseURL returns the normalized API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// ListTokens returns launched tokens matching opts.
// If refresh is true, cached data is bypassed.
func (c *Client) ListTokens(ctx context.Context, opts TokenListOptions, refresh bool) (*TokenPage, error) {
	if opts.Source != "" {
		if _, err := ParseSource(string(opts.Source)); err != nil {
			return nil, err
		}
	}
	q := &integrations.Query{}
	q.SetInt("limit", opts.Limit).
		SetInt("offset", opts.Offset).
		Set("source", string(opts.Source)).
		Set("agent", opts.Agent).
		Set("address", opts.Address).
		Set("symbol", opts.Symbol)
	path := "/api/launches" + q.Encode()

	var page TokenPage
	err := c.Cached(ctx, "launches"+q.Encode(), refresh, &page, func() error {
		return c.Get(ctx, c.baseURL+path, &page)
	})
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	return &page, nil
}

// GetStats returns $CLAWNCH market data and platform metrics.
// If refresh is true, cached data is bypassed.
func (c *Client) GetStats(ctx context.Context, refresh bool) (*Stats, error) {
	var s Stats
	err := c.Cached(ctx, "stats", refresh, &s, func() error {
		return c.Get(ctx, c.baseURL+"/api/stats", &s)
	})
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return &s, nil
}

// UploadImage uploads an image (base64 data or a URL) and returns its
// hosted URL.
func (c *Client) UploadImage(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	if err := clawerr.ValidateStruct(req); err != nil {
		return nil, err
	}
	var res UploadResult
	if err := c.Post(ctx, c.baseURL+"/api/upload", req, &res); err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	return &res, nil
}

// ValidateLaunch asks the platform to parse content as a launch post
// without deploying anything.
func (c *Client) ValidateLaunch(ctx context.Context, content string) (*ValidateResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, clawerr.New(clawerr.ErrCodeInvalidInput, "launch content cannot be empty")
	}
	var res ValidateResult
	body := map[string]string{"content": content}
	if err := c.Post(ctx, c.baseURL+"/api/preview", body, &res); err != nil {
		return nil, fmt.Errorf("validate launch: %w", err)
	}
	return &res, nil
}

// SubmitPost asks the platform to process a post its scanner missed.
func (c *Client) SubmitPost(ctx context.Context, req SubmitRequest) (*LaunchResult, error) {
	if err := clawerr.ValidateStruct(req); err != nil {
		return nil, err
	}
	var res LaunchResult
	if err := c.Post(ctx, c.baseURL+"/api/submit", req, &res); err != nil {
		return nil, fmt.Errorf("submit post: %w", err)
	}
	return &res, nil
}

// CheckRateLimit reports the launch cooldown for agent. An empty agent
// queries the unscoped endpoint. Results are never cached.
func (c *Client) CheckRateLimit(ctx context.Context, agent string) (*RateLimitStatus, error) {
	q := &integrations.Query{}
	q.Set("agent", agent)

	var res RateLimitStatus
	if err := c.Get(ctx, c.baseURL+"/api/stats"+q.Encode(), &res); err != nil {
		return nil, fmt.Errorf("check rate limit: %w", err)
	}
	return &res, nil
}
