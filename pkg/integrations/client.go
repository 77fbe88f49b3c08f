package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/clawnch/clawctl/pkg/buildinfo"
	"github.com/clawnch/clawctl/pkg/cache"
	clawerr "github.com/clawnch/clawctl/pkg/errors"
	"github.com/clawnch/clawctl/pkg/httputil"
	"github.com/clawnch/clawctl/pkg/observability"
)

// maxErrorBody bounds how much of a failed response is read for decoding.
const maxErrorBody = 64 << 10

// Client provides shared HTTP functionality for the Clawnch API clients.
// It handles caching, retry logic, rate limiting and common request headers.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	keyer     cache.Keyer
	namespace string
	ttl       time.Duration
	headers   map[string]string
	limiter   *httputil.Limiter
	logger    *log.Logger

	retryAttempts int
	retryDelay    time.Duration
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLimiter throttles every request through l.
func WithLimiter(l *httputil.Limiter) ClientOption {
	return func(c *Client) { c.limiter = l }
}

// WithKeyer sets the keyer used to build cache keys.
func WithKeyer(k cache.Keyer) ClientOption {
	return func(c *Client) {
		if k != nil {
			c.keyer = k
		}
	}
}

// WithLogger sets the logger used for request tracing at debug level.
func WithLogger(l *log.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRetry overrides the retry policy for GET requests.
func WithRetry(attempts int, delay time.Duration) ClientOption {
	return func(c *Client) {
		c.retryAttempts = attempts
		c.retryDelay = delay
	}
}

// NewClient creates a Client with the given cache and default headers.
// namespace prefixes every cache key and ttl is applied to cached values.
// Pass nil for c to disable caching and nil for headers if no default
// headers are needed.
func NewClient(c cache.Cache, namespace string, ttl time.Duration, headers map[string]string, opts ...ClientOption) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	client := &Client{
		http:          NewHTTPClient(),
		cache:         c,
		keyer:         cache.NewDefaultKeyer(),
		namespace:     namespace,
		ttl:           ttl,
		headers:       headers,
		logger:        log.NewWithOptions(io.Discard, log.Options{}),
		retryAttempts: 3,
		retryDelay:    time.Second,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored in the cache.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	fullKey := c.keyer.HTTPKey(c.namespace, key)
	hooks := observability.Cache()

	if !refresh {
		data, ok, err := c.cache.Get(ctx, fullKey)
		if err != nil {
			c.logger.Debug("cache read failed", "key", key, "err", err)
		}
		if ok && json.Unmarshal(data, v) == nil {
			hooks.OnCacheHit(ctx, c.namespace)
			return nil
		}
		hooks.OnCacheMiss(ctx, c.namespace)
	}

	if err := fetch(); err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	if err := c.cache.Set(ctx, fullKey, data, c.ttl); err != nil {
		c.logger.Debug("cache write failed", "key", key, "err", err)
		return nil
	}
	hooks.OnCacheSet(ctx, c.namespace, len(data))
	return nil
}

// Invalidate removes a cached value.
func (c *Client) Invalidate(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, c.keyer.HTTPKey(c.namespace, key))
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// It uses the client's default headers and retries transient failures.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	return httputil.Retry(ctx, c.retryAttempts, c.retryDelay, func() error {
		return c.do(ctx, http.MethodGet, url, headers, nil, v)
	})
}

// Post JSON-encodes body, sends it with POST and decodes the response into v.
// POST requests are never retried.
func (c *Client) Post(ctx context.Context, url string, body, v any) error {
	return c.PostWithHeaders(ctx, url, nil, body, v)
}

// PostWithHeaders is [Client.Post] with additional headers.
func (c *Client) PostWithHeaders(ctx context.Context, url string, headers map[string]string, body, v any) error {
	return c.do(ctx, http.MethodPost, url, headers, body, v)
}

func (c *Client) do(ctx context.Context, method, rawURL string, headers map[string]string, body, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	req.Header.Set("X-Request-ID", uuid.NewString())
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	host, path := hostPath(rawURL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		c.logger.Debug("request failed", "method", method, "path", path, "err", err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, elapsed)
	c.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "took", elapsed.Round(time.Millisecond))

	if err := checkResponse(resp); err != nil {
		return err
	}
	if v == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// checkResponse converts a non-2xx response into an error. The body is
// decoded as an API error; 5xx and 429 responses are marked retryable.
func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &clawerr.APIError{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if len(data) > 0 {
		// A non-JSON body leaves only the status, which yields "HTTP <status>".
		_ = json.Unmarshal(data, apiErr)
		apiErr.Status = resp.StatusCode
	}
	return statusError(apiErr, httputil.ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now()))
}

func statusError(apiErr *clawerr.APIError, retryAfter time.Duration) error {
	code := apiErr.Status
	switch {
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, apiErr)
	case code == http.StatusTooManyRequests, code >= 500:
		return &httputil.RetryableError{Err: apiErr, After: retryAfter}
	default:
		return apiErr
	}
}

func hostPath(rawURL string) (string, string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", rawURL
	}
	return u.Host, u.Path
}
