package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

var (
	_ HTTPHooks  = Noop{}
	_ CacheHooks = Noop{}
	_ ChainHooks = Noop{}
)

type countingHooks struct {
	Noop
	mu   sync.Mutex
	hits map[string]int
}

func (c *countingHooks) OnCacheHit(_ context.Context, keyType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hits == nil {
		c.hits = map[string]int{}
	}
	c.hits[keyType]++
}

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	for name, h := range map[string]any{"HTTP": HTTP(), "Cache": Cache(), "Chain": Chain()} {
		if _, ok := h.(Noop); !ok {
			t.Errorf("%s() = %T, want Noop", name, h)
		}
	}

	HTTP().OnResponse(ctx, "GET", "clawn.ch", "/api/stats", 200, time.Millisecond)
	Cache().OnCacheSet(ctx, "stats", 512)
	Chain().OnTxMined(ctx, "burn", true, time.Second)
}

func TestRegisterAndReset(t *testing.T) {
	t.Cleanup(Reset)
	h := &countingHooks{}

	SetCacheHooks(h)
	Cache().OnCacheHit(context.Background(), "tokens")
	Cache().OnCacheHit(context.Background(), "tokens")

	if h.hits["tokens"] != 2 {
		t.Errorf("hits = %v, want tokens:2", h.hits)
	}
	if _, ok := HTTP().(Noop); !ok {
		t.Error("registering cache hooks should not touch HTTP hooks")
	}

	SetCacheHooks(nil)
	if Cache() != CacheHooks(h) {
		t.Error("SetCacheHooks(nil) replaced the registered hooks")
	}

	Reset()
	if _, ok := Cache().(Noop); !ok {
		t.Error("Reset() did not restore Noop")
	}
}

func TestConcurrentRegistration(t *testing.T) {
	t.Cleanup(Reset)
	h := &countingHooks{}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); SetChainHooks(h) }()
		go func() { defer wg.Done(); Chain().OnTxSent(context.Background(), "burn", "0x1") }()
	}
	wg.Wait()
}
