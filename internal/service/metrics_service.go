package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/confsched-api/internal/scheduling"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface, the badness cache and the scoring engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	scoringDuration *prometheus.HistogramVec
	sessionsScored  prometheus.Counter
	fastCalls       prometheus.Counter
	conflictChecks  prometheus.Counter
	capacityChecks  prometheus.Counter
	optimizerMoves  prometheus.Counter

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	scoringDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scoring_duration_seconds",
		Help:    "Duration of schedule scoring operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	sessionsScored := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scoring_sessions_scored_total",
		Help: "Sessions fully scored across all runs",
	})

	fastCalls := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scoring_fast_calls_total",
		Help: "Incremental badness evaluations across all runs",
	})

	conflictChecks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scoring_conflict_checks_total",
		Help: "Pairwise conflict comparisons across all runs",
	})

	capacityChecks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scoring_capacity_checks_total",
		Help: "Room-fit band evaluations across all runs",
	})

	optimizerMoves := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optimizer_moves_total",
		Help: "Placement moves accepted by the optimizer",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite,
		cacheHitRatio, cacheHits, cacheMisses, scoringDuration, sessionsScored,
		fastCalls, conflictChecks, capacityChecks, optimizerMoves, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		scoringDuration: scoringDuration,
		sessionsScored:  sessionsScored,
		fastCalls:       fastCalls,
		conflictChecks:  conflictChecks,
		capacityChecks:  capacityChecks,
		optimizerMoves:  optimizerMoves,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	if m.cacheLatency != nil {
		m.cacheLatency.Observe(duration.Seconds())
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	total := hits + misses
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil || m.cacheWrite == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveScoring folds one run's counters into the process-wide totals.
// Kind distinguishes full passes, what-if probes and optimizer runs.
func (m *MetricsService) ObserveScoring(kind string, stats scheduling.Stats, duration time.Duration) {
	if m == nil {
		return
	}
	m.scoringDuration.WithLabelValues(kind).Observe(duration.Seconds())
	m.sessionsScored.Add(float64(stats.SessionsScored))
	m.fastCalls.Add(float64(stats.FastCalls))
	m.conflictChecks.Add(float64(stats.ConflictChecks))
	m.capacityChecks.Add(float64(stats.CapacityChecks))
}

// ObserveOptimizerMoves counts accepted placement moves.
func (m *MetricsService) ObserveOptimizerMoves(moves int) {
	if m == nil || moves <= 0 {
		return
	}
	m.optimizerMoves.Add(float64(moves))
}
