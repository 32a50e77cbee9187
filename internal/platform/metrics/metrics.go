// Package metrics exposes Prometheus instrumentation for upstream fetches,
// caches, pollers and HTTP routes.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	upstreamFetches  *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	cacheLookups     *prometheus.CounterVec
	refreshes        *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		upstreamFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salesboard_upstream_fetches_total",
			Help: "Upstream fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "salesboard_upstream_fetch_duration_seconds",
			Help:    "Upstream fetch duration by source.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salesboard_cache_lookups_total",
			Help: "Cache lookups by cache name and result (hit, miss).",
		}, []string{"cache", "result"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salesboard_refresh_total",
			Help: "Background refreshes by poller and outcome.",
		}, []string{"poller", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salesboard_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "salesboard_http_request_duration_seconds",
			Help:    "HTTP request duration by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.upstreamFetches,
		m.upstreamDuration,
		m.cacheLookups,
		m.refreshes,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveFetch records one upstream call.
func (m *Metrics) ObserveFetch(source string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.upstreamFetches.WithLabelValues(source, outcome(err)).Inc()
	m.upstreamDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// ObserveRefresh records one poller tick.
func (m *Metrics) ObserveRefresh(name string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(name, outcome(err)).Inc()
}

// CacheHit records a hit on the named cache.
func (m *Metrics) CacheHit(cache string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(cache, "hit").Inc()
}

// CacheMiss records a miss on the named cache.
func (m *Metrics) CacheMiss(cache string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(cache, "miss").Inc()
}

// Middleware records request count and latency keyed by the matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
