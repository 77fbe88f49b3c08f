package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if err := c.Clear(ctx); err != nil {
		t.Errorf("Clear error: %v", err)
	}
}

func TestFileCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "stats", []byte(`{"tokenCount":3}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "stats")
	if err != nil || !hit {
		t.Fatalf("Get hit=%v err=%v", hit, err)
	}
	if string(data) != `{"tokenCount":3}` {
		t.Errorf("data = %s", data)
	}

	if err := c.Delete(ctx, "stats"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "stats"); hit {
		t.Error("hit after Delete")
	}
	if err := c.Delete(ctx, "stats"); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}
}

func TestFileCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "stats", []byte("v"), 5*time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}

	now = now.Add(4 * time.Minute)
	if _, hit, _ := c.Get(ctx, "stats"); !hit {
		t.Error("entry expired early")
	}

	now = now.Add(time.Minute)
	if _, hit, _ := c.Get(ctx, "stats"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("stats")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl missing")
	}
}

func TestFileCache_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, hit, err := c.Get(ctx, "bad")
	if err != nil || hit {
		t.Errorf("Get corrupt: hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCache_Clear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	foreign := filepath.Join(dir, "README")
	if err := os.WriteFile(foreign, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || entries[0].Name() != "README" {
		t.Errorf("entries after Clear = %v, want only README", entries)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("%s still cached", k)
		}
	}
}

func TestFileCachePathLayout(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	p := c.path("http:platform:stats:")
	rel, err := filepath.Rel(c.Dir(), p)
	if err != nil {
		t.Fatal(err)
	}
	dir, file := filepath.Split(rel)
	if len(dir) != 3 || len(file) != 62+len(".json") {
		t.Errorf("path %q should be <2 hex>/<62 hex>.json", rel)
	}
	if p != c.path("http:platform:stats:") {
		t.Error("path should be stable")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	if got := k.HTTPKey("platform:launches", "limit=10"); got != "http:platform:launches:limit=10" {
		t.Errorf("HTTPKey unexpected: %s", got)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "abc:")
	if got := scoped.HTTPKey("platform:stats", ""); got != "abc:http:platform:stats:" {
		t.Errorf("ScopedKeyer HTTPKey unexpected: %s", got)
	}

	// nil inner falls back to DefaultKeyer
	if got := NewScopedKeyer(nil, "p:").HTTPKey("x", "y"); got != "p:http:x:y" {
		t.Errorf("Unexpected key with nil inner: %s", got)
	}
}

func TestScopeForURL(t *testing.T) {
	a := ScopeForURL("https://clawn.ch")
	b := ScopeForURL("http://localhost:3000")
	if a == b {
		t.Error("different base URLs should get different scopes")
	}
	if a != ScopeForURL("https://clawn.ch") {
		t.Error("scope should be stable")
	}
	if len(a) != 13 || !strings.HasSuffix(a, ":") {
		t.Errorf("scope %q should be 12 hex chars and a colon", a)
	}
}
