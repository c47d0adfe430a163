package cache

import (
	"fmt"
	"testing"
	"time"
)

func newTestCache(maxSize int, ttl time.Duration) (*Cache, *time.Time) {
	c := New(maxSize, ttl)
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }
	return c, &clock
}

func TestGetSet(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set("feed:u1", []string{"q1", "q2"})
	v, ok := c.Get("feed:u1")
	if !ok {
		t.Fatal("expected hit")
	}
	if got := v.([]string); len(got) != 2 || got[0] != "q1" {
		t.Errorf("unexpected value: %v", got)
	}
}

func TestExpiry(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)

	c.Set("k", 1)
	*clock = clock.Add(59 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry expired early")
	}

	*clock = clock.Add(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expiry after TTL")
	}
	if s := c.Stats(); s.Size != 0 {
		t.Errorf("expired entry not removed, size = %d", s.Size)
	}
}

func TestEvictsOldestWhenFull(t *testing.T) {
	c, clock := newTestCache(1, time.Minute)

	c.Set("first", 1)
	*clock = clock.Add(time.Second)
	c.Set("second", 2)

	if _, ok := c.Get("first"); ok {
		t.Fatal("oldest entry must be evicted at capacity")
	}
	if _, ok := c.Get("second"); !ok {
		t.Fatal("newest entry must survive")
	}
}

func TestEvictionOrder(t *testing.T) {
	c, clock := newTestCache(3, time.Minute)

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
		*clock = clock.Add(time.Second)
	}

	// Rewriting k0 makes it the newest, so k1 becomes the eviction victim.
	c.Set("k0", 99)
	*clock = clock.Add(time.Second)
	c.Set("k3", 3)

	if _, ok := c.Get("k1"); ok {
		t.Fatal("k1 should have been evicted")
	}
	for _, key := range []string{"k0", "k2", "k3"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("%s should still be cached", key)
		}
	}
}

func TestOverwriteDoesNotEvict(t *testing.T) {
	c, _ := newTestCache(1, time.Minute)

	c.Set("k", 1)
	c.Set("k", 2)

	v, ok := c.Get("k")
	if !ok || v.(int) != 2 {
		t.Fatalf("overwrite lost the value: %v %v", v, ok)
	}
}

func TestStats(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)

	c.Set("k", 1)
	c.Get("k")
	c.Get("k")
	c.Get("missing")

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 {
		t.Errorf("hits=%d misses=%d, want 2/1", s.Hits, s.Misses)
	}
	if s.HitRate < 0.66 || s.HitRate > 0.67 {
		t.Errorf("hitRate = %f", s.HitRate)
	}

	c.Clear()
	if got := c.Stats(); got.Size != 0 || got.Hits != 2 {
		t.Errorf("Clear must empty entries but keep counters: %+v", got)
	}
}
