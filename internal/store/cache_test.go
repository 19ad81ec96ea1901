// ABOUTME: Tests for the ephemeral TTL cache
// ABOUTME: Covers lazy expiry, hit counting and lifecycle

package store

import (
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute)
	defer c.Stop()

	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.(string) != "v" {
		t.Errorf("expected v, got %v", got)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestCacheLazyExpiry(t *testing.T) {
	c := NewCache(20 * time.Millisecond)
	defer c.Stop()

	c.Set("k", 1)
	time.Sleep(50 * time.Millisecond)

	// The sweep runs on a much longer interval; the expired entry is dropped
	// on read instead.
	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestCacheHits(t *testing.T) {
	c := NewCache(time.Minute)
	defer c.Stop()

	c.Set("k", true)
	if h := c.Hits("k"); h != 0 {
		t.Errorf("expected 0 hits before reads, got %d", h)
	}

	c.Get("k")
	c.Get("k")
	c.Get("k")
	if h := c.Hits("k"); h != 3 {
		t.Errorf("expected 3 hits, got %d", h)
	}

	// Re-setting resets the counter.
	c.Set("k", false)
	if h := c.Hits("k"); h != 0 {
		t.Errorf("expected counter reset on Set, got %d", h)
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := NewCache(time.Minute)
	defer c.Stop()

	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be deleted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("b should survive Delete(a)")
	}

	c.Clear()
	if _, ok := c.Get("b"); ok {
		t.Error("expected b gone after Clear")
	}
}

func TestCacheStop(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("k", 1)
	c.Stop()

	// Reads still work after the sweep loop exits.
	if _, ok := c.Get("k"); !ok {
		t.Error("expected hit after Stop")
	}
}
