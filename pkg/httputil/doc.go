// Package httputil provides HTTP utilities shared by the Clawnch API clients.
//
// # Overview
//
// This package provides infrastructure used by every API client:
//
//   - [Retry]: Automatic retry with exponential backoff
//   - [Limiter]: Client-side request rate limiting
//
// Response caching lives in the sibling cache package.
//
// # Retry
//
// [Retry] re-runs an operation when it fails with a [RetryableError].
// Clients wrap transient failures in that type:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses, waiting as long as Retry-After asks
//
// Only idempotent reads should be retried. Writes such as launch submission
// are issued once.
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetch(ctx)
//	})
//
// # Rate limiting
//
// [Limiter] is a token bucket. A nil *Limiter, or one built with a
// non-positive rate, never blocks:
//
//	lim := httputil.NewLimiter(5)      // 5 requests per second
//	if err := lim.Wait(ctx); err != nil {
//	    return err
//	}
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Max attempts: 3
//   - Base backoff: 1 second
//   - Longest single wait: [MaxRetryDelay]
//   - Rate limit: off
package httputil
