package cache

import (
	"testing"
	"time"
)

type countingObserver struct{ hits, misses int }

func (o *countingObserver) CacheHit(string)  { o.hits++ }
func (o *countingObserver) CacheMiss(string) { o.misses++ }

func TestTTLExpiry(t *testing.T) {
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	obs := &countingObserver{}
	c := NewTTL[[]string]("contacts", 10*time.Second, obs).WithClock(func() time.Time { return now })

	if _, ok := c.Get("all"); ok {
		t.Fatalf("empty cache should miss")
	}
	c.Set("all", []string{"a"})

	now = now.Add(9 * time.Second)
	if v, ok := c.Get("all"); !ok || len(v) != 1 {
		t.Fatalf("expected hit before expiry, got %v %v", v, ok)
	}

	now = now.Add(1 * time.Second)
	if _, ok := c.Get("all"); ok {
		t.Fatalf("expected miss at expiry")
	}
	if obs.hits != 1 || obs.misses != 2 {
		t.Errorf("hits=%d misses=%d", obs.hits, obs.misses)
	}
}

func TestTTLInvalidateAndPurge(t *testing.T) {
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	c := NewTTL[int]("x", time.Second, nil).WithClock(func() time.Time { return now })
	c.Set("a", 1)
	c.Set("b", 2)

	now = now.Add(2 * time.Second)
	c.Set("c", 3)
	if n := c.Purge(); n != 2 {
		t.Errorf("Purge dropped %d, want 2", n)
	}
	if _, ok := c.Get("c"); !ok {
		t.Errorf("fresh entry should survive purge")
	}
	c.Invalidate()
	if _, ok := c.Get("c"); ok {
		t.Errorf("Invalidate should drop everything")
	}
}
