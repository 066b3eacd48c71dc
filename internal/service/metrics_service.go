package service

import (
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/renoa-ops/renoa-api/internal/grid"
	"github.com/renoa-ops/renoa-api/internal/models"
	"github.com/renoa-ops/renoa-api/pkg/jobs"
)

const metricsNamespace = "renoa"

var httpLabels = []string{"method", "path", "status"}

// MetricsService owns the Prometheus registry and keeps running totals for
// the /statistics/system snapshot.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	cacheLatency    prometheus.Histogram
	cacheWrite      prometheus.Histogram
	cacheHitRatio   prometheus.Gauge
	gridSave        prometheus.Histogram
	recordWrites    *prometheus.CounterVec
	exports         *prometheus.CounterVec
	notifications   *prometheus.CounterVec

	cacheHits    atomic.Uint64
	cacheMisses  atomic.Uint64
	requests     atomic.Uint64
	requestNanos atomic.Uint64
	gridSaves    atomic.Uint64
	failedWrites atomic.Uint64
}

func histogram(name, help string) prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: metricsNamespace, Name: name, Help: help, Buckets: prometheus.DefBuckets})
}

func counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: metricsNamespace, Name: name, Help: help}, labels)
}

// NewMetricsService builds a private registry with the RENOA collectors.
func NewMetricsService() *MetricsService {
	m := &MetricsService{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, httpLabels),
		requestTotal:  counterVec("http_requests_total", "Total number of HTTP requests", httpLabels...),
		cacheLookups:  counterVec("cache_lookups_total", "Statistics cache lookups", "result"),
		cacheLatency:  histogram("cache_latency_seconds", "Latency for cache lookups"),
		cacheWrite:    histogram("cache_write_seconds", "Latency for cache set operations"),
		cacheHitRatio: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: metricsNamespace, Name: "cache_hit_ratio", Help: "Ratio of cache hits to total cache lookups"}),
		gridSave:      histogram("grid_save_duration_seconds", "Duration of grid saves including the reload"),
		recordWrites:  counterVec("record_writes_total", "Shift record writes issued by grid saves", "kind", "outcome"),
		exports:       counterVec("exports_total", "Generated exports by mode and format", "mode", "format"),
		notifications: counterVec("notifications_total", "Novedad notification deliveries", "outcome"),
	}
	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "goroutines",
		Help:      "Number of goroutines",
	}, func() float64 { return float64(runtime.NumGoroutine()) })

	m.registry.MustRegister(m.requestDuration, m.requestTotal, m.cacheLookups, m.cacheLatency, m.cacheWrite, m.cacheHitRatio,
		m.gridSave, m.recordWrites, m.exports, m.notifications, goroutines)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return m
}

// RegisterQueue exposes the counters of a background queue as gauges
// labelled with name. Registering the same name twice is a no-op.
func (m *MetricsService) RegisterQueue(name string, stats func() jobs.Stats) error {
	if m == nil || stats == nil {
		return nil
	}
	gauge := func(metric, help string, read func(jobs.Stats) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Subsystem:   "queue",
			Name:        metric,
			Help:        help,
			ConstLabels: prometheus.Labels{"queue": name},
		}, func() float64 { return read(stats()) })
	}
	collectors := []prometheus.Collector{
		gauge("buffered_jobs", "Jobs waiting for a worker", func(s jobs.Stats) float64 { return float64(s.Buffered) }),
		gauge("succeeded_jobs", "Jobs handled successfully", func(s jobs.Stats) float64 { return float64(s.Succeeded) }),
		gauge("retried_jobs", "Job attempts scheduled for retry", func(s jobs.Stats) float64 { return float64(s.Retried) }),
		gauge("failed_jobs", "Jobs abandoned after their last attempt", func(s jobs.Stats) float64 { return float64(s.Failed) }),
	}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			var dup prometheus.AlreadyRegisteredError
			if errors.As(err, &dup) {
				continue
			}
			return err
		}
	}
	return nil
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

// ObserveHTTPRequest records one served request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, code).Inc()
	m.requests.Add(1)
	m.requestNanos.Add(uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records a cache lookup and refreshes the hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Add(1)
		m.cacheLookups.WithLabelValues("hit").Inc()
	} else {
		m.cacheMisses.Add(1)
		m.cacheLookups.WithLabelValues("miss").Inc()
	}
	m.cacheHitRatio.Set(m.hitRatio())
}

// ObserveCacheWrite records cache write latency.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveGridSave records the duration of a save and the outcome of each write.
func (m *MetricsService) ObserveGridSave(result grid.SaveResult, duration time.Duration) {
	if m == nil {
		return
	}
	m.gridSave.Observe(duration.Seconds())
	m.gridSaves.Add(1)
	for _, res := range result.Results {
		outcome := "ok"
		if res.Err != nil {
			outcome = "error"
			m.failedWrites.Add(1)
		}
		m.recordWrites.WithLabelValues(string(res.Op.Kind), outcome).Inc()
	}
}

// IncExport counts a generated export.
func (m *MetricsService) IncExport(mode, format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(mode, format).Inc()
}

// IncNotification counts a notification delivery outcome.
func (m *MetricsService) IncNotification(ok bool) {
	if m == nil {
		return
	}
	outcome := "sent"
	if !ok {
		outcome = "failed"
	}
	m.notifications.WithLabelValues(outcome).Inc()
}

// Snapshot returns the running totals served by /statistics/system.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	snap := models.SystemMetrics{
		CacheHitRatio:      m.hitRatio(),
		CacheHits:          m.cacheHits.Load(),
		CacheMisses:        m.cacheMisses.Load(),
		RequestsTotal:      m.requests.Load(),
		GridSaves:          m.gridSaves.Load(),
		FailedRecordWrites: m.failedWrites.Load(),
		Goroutines:         runtime.NumGoroutine(),
		GeneratedAt:        time.Now().UTC(),
	}
	if snap.RequestsTotal > 0 {
		snap.AverageRequestDurationMs = float64(m.requestNanos.Load()) / float64(snap.RequestsTotal) / float64(time.Millisecond)
	}
	return snap
}

func (m *MetricsService) hitRatio() float64 {
	hits, misses := m.cacheHits.Load(), m.cacheMisses.Load()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}
