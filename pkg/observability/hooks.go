// Package observability lets the SDK report what it does without depending
// on a metrics or tracing library.
//
// Three event streams exist: HTTP requests made by the API clients, cache
// lookups, and chain calls and transactions. Each has a hooks interface. The
// SDK packages call [HTTP], [Cache] and [Chain] at the points they want to
// report; until something is registered those return [Noop], which drops
// every event.
//
// [PrometheusHooks] implements all three and can write its registry to a
// node_exporter textfile. The CLI registers one when --metrics-file is set:
//
//	hooks := observability.NewPrometheusHooks()
//	observability.SetHTTPHooks(hooks)
//	observability.SetCacheHooks(hooks)
//	observability.SetChainHooks(hooks)
//	defer hooks.WriteTextfile("/var/lib/node_exporter/clawctl.prom")
//
// A transaction is reported twice, once when the node accepts it and once
// when its receipt arrives:
//
//	observability.Chain().OnTxSent(ctx, "burn", hash)
//	observability.Chain().OnTxMined(ctx, "burn", ok, time.Since(start))
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// HTTPHooks receives events from the REST clients. host and path never
// include the query string.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError is called when no response arrived at all.
	OnError(ctx context.Context, method, host, path string, err error)
}

// CacheHooks receives cache events. keyType is the first segment of the
// cache key, such as "tokens" or "stats".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ChainHooks receives events from Base. kind names the write, such as
// "claim-weth", "claim-token" or "burn".
type ChainHooks interface {
	OnCall(ctx context.Context, method string, duration time.Duration, err error)
	OnTxSent(ctx context.Context, kind, hash string)
	OnTxMined(ctx context.Context, kind string, success bool, duration time.Duration)
}

// Noop implements every hooks interface and ignores all events. Embed it
// to implement only the methods you care about.
type Noop struct{}

func (Noop) OnRequest(context.Context, string, string, string)                      {}
func (Noop) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (Noop) OnError(context.Context, string, string, string, error)                 {}
func (Noop) OnCacheHit(context.Context, string)                                     {}
func (Noop) OnCacheMiss(context.Context, string)                                    {}
func (Noop) OnCacheSet(context.Context, string, int)                                {}
func (Noop) OnCall(context.Context, string, time.Duration, error)                   {}
func (Noop) OnTxSent(context.Context, string, string)                               {}
func (Noop) OnTxMined(context.Context, string, bool, time.Duration)                 {}

// slot holds one registered hook. atomic.Value needs a fixed concrete type,
// so the interface is boxed.
type slot[T any] struct{ v atomic.Value }

type box[T any] struct{ h T }

func (s *slot[T]) load(def T) T {
	if b, ok := s.v.Load().(box[T]); ok {
		return b.h
	}
	return def
}

func (s *slot[T]) store(h T) { s.v.Store(box[T]{h}) }

var (
	httpSlot  slot[HTTPHooks]
	cacheSlot slot[CacheHooks]
	chainSlot slot[ChainHooks]
)

// SetHTTPHooks registers h for HTTP events. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.store(h)
	}
}

// SetCacheHooks registers h for cache events. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.store(h)
	}
}

// SetChainHooks registers h for chain events. A nil h is ignored.
func SetChainHooks(h ChainHooks) {
	if h != nil {
		chainSlot.store(h)
	}
}

func HTTP() HTTPHooks   { return httpSlot.load(Noop{}) }
func Cache() CacheHooks { return cacheSlot.load(Noop{}) }
func Chain() ChainHooks { return chainSlot.load(Noop{}) }

// Reset puts every stream back to [Noop]. Tests that register hooks call it
// from t.Cleanup.
func Reset() {
	httpSlot.store(Noop{})
	cacheSlot.store(Noop{})
	chainSlot.store(Noop{})
}
