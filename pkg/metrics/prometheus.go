// Package metrics provides Prometheus metrics for the racket advisor service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Session lifecycle
	sessionsStarted prometheus.Counter
	sessionsEvicted prometheus.Counter
	activeSessions  prometheus.Gauge

	// Quiz progress
	answersApplied    prometheus.Counter
	answersUndone     prometheus.Counter
	profileReplays    prometheus.Counter
	replayDuration    prometheus.Histogram
	unknownEffectKeys prometheus.Counter

	// Matching and classification
	recommendationsServed *prometheus.CounterVec
	rankingDuration       prometheus.Histogram
	styleClassifications  *prometheus.CounterVec

	// Catalog
	catalogItems prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "advisor",
		subsystem:        "quiz",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.sessionsStarted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_started_total",
		Help:      "Total number of quiz sessions started",
	})

	m.sessionsEvicted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_evicted_total",
		Help:      "Total number of sessions evicted by the bounded session store",
	})

	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_sessions",
		Help:      "Current number of live quiz sessions",
	})

	m.answersApplied = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "answers_applied_total",
		Help:      "Total number of answer effects applied to profiles",
	})

	m.answersUndone = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "answers_undone_total",
		Help:      "Total number of go-back operations",
	})

	m.profileReplays = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_replays_total",
		Help:      "Total number of full history replays (undo and reset)",
	})

	m.replayDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "replay_duration_milliseconds",
		Help:      "Histogram of profile replay duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.unknownEffectKeys = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unknown_effect_keys_total",
		Help:      "Total number of ignored effect keys (indicates stale question content)",
	})

	m.recommendationsServed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendations_served_total",
		Help:      "Total number of ranking requests served, by match mode",
	}, []string{"mode"})

	m.rankingDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranking_duration_milliseconds",
		Help:      "Histogram of catalog ranking duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.styleClassifications = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "style_classifications_total",
		Help:      "Total number of style classifications, by result kind",
	}, []string{"kind"})

	m.catalogItems = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_items",
		Help:      "Number of items in the loaded catalog",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_total",
		Help:      "Total number of errors, by component and kind",
	}, []string{"component", "kind"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current allocated heap memory in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// GetRegistry returns the custom Prometheus registry used by the service.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers delegating to the global manager.

func RecordSessionStarted() {
	if globalManager.enabled {
		globalManager.sessionsStarted.Inc()
	}
}

func RecordSessionEvicted() {
	if globalManager.enabled {
		globalManager.sessionsEvicted.Inc()
	}
}

func UpdateActiveSessions(n int) {
	if globalManager.enabled {
		globalManager.activeSessions.Set(float64(n))
	}
}

func RecordAnswerApplied() {
	if globalManager.enabled {
		globalManager.answersApplied.Inc()
	}
}

func RecordAnswerUndone() {
	if globalManager.enabled {
		globalManager.answersUndone.Inc()
	}
}

func RecordProfileReplay(durationMs float64) {
	if globalManager.enabled {
		globalManager.profileReplays.Inc()
		globalManager.replayDuration.Observe(durationMs)
	}
}

func RecordUnknownEffectKey() {
	if globalManager.enabled {
		globalManager.unknownEffectKeys.Inc()
	}
}

func RecordRecommendation(mode string, durationMs float64) {
	if globalManager.enabled {
		globalManager.recommendationsServed.WithLabelValues(mode).Inc()
		globalManager.rankingDuration.Observe(durationMs)
	}
}

func RecordStyleClassification(kind string) {
	if globalManager.enabled {
		globalManager.styleClassifications.WithLabelValues(kind).Inc()
	}
}

func UpdateCatalogItems(n int) {
	if globalManager.enabled {
		globalManager.catalogItems.Set(float64(n))
	}
}

func RecordHTTPRequest(endpoint, method, status string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	}
}

func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
	}
}

func RecordErrorByComponent(component, kind string) {
	if globalManager.enabled {
		globalManager.errorsByComponent.WithLabelValues(component, kind).Inc()
	}
}

func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

func UpdateSystemGoroutineCount(n int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(n))
	}
}
