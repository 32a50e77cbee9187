package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveFetchOutcomes(t *testing.T) {
	m := New()
	m.ObserveFetch("n_clinic", 20*time.Millisecond, nil)
	m.ObserveFetch("n_clinic", 30*time.Millisecond, errors.New("timeout"))
	m.ObserveFetch("n_clinic", 10*time.Millisecond, nil)

	if got := testutil.ToFloat64(m.upstreamFetches.WithLabelValues("n_clinic", "ok")); got != 2 {
		t.Errorf("ok fetches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.upstreamFetches.WithLabelValues("n_clinic", "error")); got != 1 {
		t.Errorf("error fetches = %v, want 1", got)
	}
}

func TestCacheCounters(t *testing.T) {
	m := New()
	m.CacheHit("contacts")
	m.CacheMiss("contacts")
	m.CacheMiss("contacts")

	if got := testutil.ToFloat64(m.cacheLookups.WithLabelValues("contacts", "miss")); got != 2 {
		t.Errorf("misses = %v, want 2", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveFetch("x", time.Second, nil)
	m.ObserveRefresh("x", time.Second, nil)
	m.CacheHit("x")
	m.CacheMiss("x")
}
