package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const httpTimeout = 30 * time.Second

var (
	// ErrNotFound is returned when the API answers 404.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures (timeouts, connection errors).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with the default API timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NormalizeBaseURL trims whitespace and trailing slashes from an API base URL.
func NormalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

// Query builds a URL query string, skipping empty values and zero ints.
// Keys are emitted in the order given.
type Query struct {
	parts []string
}

// Set adds key=value when value is non-empty.
func (q *Query) Set(key, value string) *Query {
	if value != "" {
		q.parts = append(q.parts, url.QueryEscape(key)+"="+url.QueryEscape(value))
	}
	return q
}

// SetInt adds key=n when n is positive.
func (q *Query) SetInt(key string, n int) *Query {
	if n > 0 {
		q.parts = append(q.parts, url.QueryEscape(key)+"="+strconv.Itoa(n))
	}
	return q
}

// Encode returns "?k=v&..." or "" when nothing was set.
func (q *Query) Encode() string {
	if len(q.parts) == 0 {
		return ""
	}
	return "?" + strings.Join(q.parts, "&")
}

// URLEncode percent-encodes a string for use in a path segment.
func URLEncode(s string) string { return url.PathEscape(s) }
