// Package integrations provides HTTP clients for the Clawnch APIs.
//
// # Overview
//
// Each API surface has its own subpackage:
//
//   - [platform]: token listings, stats, image upload, launch validation
//     and submission
//   - [molten]: the Molten agent-matching network
//   - [platformtest]: an in-memory fake of both APIs for tests
//
// # Client Pattern
//
// All clients follow a consistent pattern:
//
//	client := platform.NewClient("https://clawn.ch", c, 2*time.Minute)
//	stats, err := client.GetStats(ctx, false)  // false = use cache
//
// Clients handle:
//   - HTTP requests with retry (GET only) and rate limiting
//   - Response caching for read-mostly endpoints
//   - Decoding API error bodies into [errors.APIError]
//
// # Shared Infrastructure
//
// The [Client] type provides shared HTTP functionality used by every API
// client, including response caching via [cache.Cache] and request
// instrumentation via the observability hooks.
//
// [platform]: github.com/clawnch/clawctl/pkg/integrations/platform
// [molten]: github.com/clawnch/clawctl/pkg/integrations/molten
// [platformtest]: github.com/clawnch/clawctl/pkg/integrations/platformtest
// [errors.APIError]: github.com/clawnch/clawctl/pkg/errors.APIError
// [cache.Cache]: github.com/clawnch/clawctl/pkg/cache.Cache
package integrations
