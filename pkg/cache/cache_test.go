package cache

import (
	"bytes"
	"context"
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

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "layout:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expected miss before Set")
	}

	// Round trip
	want := []byte(`{"mode":"mosaic"}`)
	if err := c.Set(ctx, "layout:abc", want, 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, hit, err := c.Get(ctx, "layout:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Get = %q, want %q", got, want)
	}

	// Expired entries are misses
	if err := c.Set(ctx, "layout:old", want, time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "layout:old"); hit {
		t.Error("expired entry should be a miss")
	}

	// Delete removes the entry, deleting again is not an error
	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:abc"); hit {
		t.Error("expected miss after Delete")
	}
	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Errorf("Delete of missing key should not error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// HoldingsKey
	hk := k.HoldingsKey("abc123")
	if hk != "holdings:abc123" {
		t.Errorf("HoldingsKey unexpected: %s", hk)
	}

	// LayoutKey should include options in hash
	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{Mode: "mosaic", Seed: 42})
	lk2 := k.LayoutKey("hash123", LayoutKeyOpts{Mode: "bubbles", Seed: 42})
	if lk1 == lk2 {
		t.Error("Different modes should produce different keys")
	}

	lk3 := k.LayoutKey("hash123", LayoutKeyOpts{Mode: "mosaic", Seed: 43})
	if lk1 == lk3 {
		t.Error("Different seeds should produce different keys")
	}

	// Same inputs produce the same key
	if lk1 != k.LayoutKey("hash123", LayoutKeyOpts{Mode: "mosaic", Seed: 42}) {
		t.Error("LayoutKey should be deterministic")
	}
}

func TestLayoutKeyCoversAllOptions(t *testing.T) {
	k := NewDefaultKeyer()
	base := LayoutKeyOpts{Mode: "bubbles", Seed: 42, DiskRadius: 500, Segments: 64}

	variants := map[string]LayoutKeyOpts{
		"disk radius": {Mode: "bubbles", Seed: 42, DiskRadius: 400, Segments: 64},
		"segments":    {Mode: "bubbles", Seed: 42, DiskRadius: 500, Segments: 32},
		"trials":      {Mode: "bubbles", Seed: 42, DiskRadius: 500, Segments: 64, Trials: 8},
		"coverage":    {Mode: "bubbles", Seed: 42, DiskRadius: 500, Segments: 64, CoverageTarget: 0.9},
		"iterations":  {Mode: "bubbles", Seed: 42, DiskRadius: 500, Segments: 64, Iterations: 10},
		"no jitter":   {Mode: "bubbles", Seed: 42, DiskRadius: 500, Segments: 64, NoJitter: true},
		"colors":      {Mode: "bubbles", Seed: 42, DiskRadius: 500, Segments: 64, Colors: map[string]string{"wallet": "#ff8800"}},
	}

	baseKey := k.LayoutKey("hash123", base)
	for name, opts := range variants {
		if k.LayoutKey("hash123", opts) == baseKey {
			t.Errorf("%s variant should change the layout key", name)
		}
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "user:123:")

	// All keys should be prefixed
	hk := scoped.HoldingsKey("abc")
	if hk != "user:123:holdings:abc" {
		t.Errorf("ScopedKeyer HoldingsKey unexpected: %s", hk)
	}

	lk := scoped.LayoutKey("abc", LayoutKeyOpts{Mode: "mosaic"})
	if len(lk) < 15 || lk[:9] != "user:123:" {
		t.Errorf("ScopedKeyer LayoutKey should be prefixed: %s", lk)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.HoldingsKey("abc")
	if key != "prefix:holdings:abc" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
