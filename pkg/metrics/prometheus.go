// Package metrics provides Prometheus metrics for the Prix Six scoring engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus metric exposed by the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core business metrics
	resultsSubmitted    prometheus.Counter
	scoresWritten       prometheus.Counter
	carryForwards       prometheus.Counter
	resolutionAnomalies prometheus.Counter
	perfectSets         prometheus.Counter

	// Store metrics
	batchCommitLatency prometheus.Histogram
	batchCommitErrors  prometheus.Counter
	storeReadLatency   prometheus.Histogram
	storeErrors        prometheus.Counter

	// Standings metrics
	standingsLatency prometheus.Histogram
	standingsErrors  prometheus.Counter
	teamsRanked      prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry so the default Go collectors stay out of the way.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "prixsix",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
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

	m.resultsSubmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "results_submitted_total",
		Help:      "Total number of official race results accepted for scoring",
	})

	m.scoresWritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores_written_total",
		Help:      "Total number of per-team score documents written",
	})

	m.carryForwards = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "carry_forwards_total",
		Help:      "Total number of predictions resolved via carry-forward",
	})

	m.resolutionAnomalies = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resolution_anomalies_total",
		Help:      "Total number of malformed stored predictions skipped during resolution",
	})

	m.perfectSets = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "perfect_sets_total",
		Help:      "Total number of predictions awarded the perfect-set bonus",
	})

	m.batchCommitLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_commit_latency_milliseconds",
		Help:      "Latency of atomic batch commits in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.batchCommitErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_commit_errors_total",
		Help:      "Total number of failed batch commits (no partial writes applied)",
	})

	m.storeReadLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_read_latency_milliseconds",
		Help:      "Latency of document store collection scans in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Total number of document store read failures",
	})

	m.standingsLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "standings_latency_milliseconds",
		Help:      "Latency of full standings aggregation in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.standingsErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "standings_errors_total",
		Help:      "Total number of post-commit standings aggregation failures",
	})

	m.teamsRanked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "teams_ranked",
		Help:      "Number of teams present in the latest standings",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// Package-level helpers operating on the global manager.

// RecordResultSubmitted increments the accepted-results counter.
func RecordResultSubmitted() {
	globalManager.resultsSubmitted.Inc()
}

// RecordScoresWritten adds n to the written-scores counter.
func RecordScoresWritten(n int) {
	globalManager.scoresWritten.Add(float64(n))
}

// RecordCarryForward increments the carry-forward counter.
func RecordCarryForward() {
	globalManager.carryForwards.Inc()
}

// RecordResolutionAnomaly increments the malformed-prediction counter.
func RecordResolutionAnomaly() {
	globalManager.resolutionAnomalies.Inc()
}

// RecordPerfectSet increments the perfect-set bonus counter.
func RecordPerfectSet() {
	globalManager.perfectSets.Inc()
}

// RecordBatchCommitLatency records one batch commit duration.
func RecordBatchCommitLatency(latencyMs float64) {
	globalManager.batchCommitLatency.Observe(latencyMs)
}

// RecordBatchCommitError increments the failed-commit counter.
func RecordBatchCommitError() {
	globalManager.batchCommitErrors.Inc()
}

// RecordStoreReadLatency records one collection scan duration.
func RecordStoreReadLatency(latencyMs float64) {
	globalManager.storeReadLatency.Observe(latencyMs)
}

// RecordStoreError increments the store read failure counter.
func RecordStoreError() {
	globalManager.storeErrors.Inc()
}

// RecordStandingsLatency records one standings aggregation duration.
func RecordStandingsLatency(latencyMs float64) {
	globalManager.standingsLatency.Observe(latencyMs)
}

// RecordStandingsError increments the aggregation failure counter.
func RecordStandingsError() {
	globalManager.standingsErrors.Inc()
}

// UpdateTeamsRanked sets the ranked-teams gauge.
func UpdateTeamsRanked(count int) {
	globalManager.teamsRanked.Set(float64(count))
}

// RecordHTTPRequest records one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry exposes the custom registry for the metrics endpoint.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
