// Package metrics provides Prometheus metrics for the matchmaker service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default buckets. Latencies are in milliseconds, scores on the 0..100 scale.
var (
	defaultLatencyBuckets = []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000}  //nolint:gochecknoglobals // static buckets
	defaultScoreBuckets   = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}               //nolint:gochecknoglobals // static buckets
)

// Manager manages all Prometheus metrics for the matchmaker service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	scoreBuckets   []float64
	customLabels   map[string]string
	registry       prometheus.Registerer

	// Matching
	assignmentRuns       prometheus.Counter
	assignmentDuration   prometheus.Histogram
	scoresComputed       prometheus.Counter
	relationshipScore    prometheus.Histogram
	relationshipsCreated *prometheus.CounterVec
	unmatchedSeekers     prometheus.Gauge
	swaps                prometheus.Counter
	manualOverCapacity   prometheus.Counter
	statusTransitions    *prometheus.CounterVec
	duplicateRequests    prometheus.Counter

	// Session state
	rosterProviders    prometheus.Gauge
	rosterSeekers      prometheus.Gauge
	relationshipsTotal prometheus.Gauge

	// Repository
	repositoryUpdateLatency prometheus.Histogram
	repositoryQueryLatency  prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "matchmaker",
		subsystem:      "engine",
		latencyBuckets: defaultLatencyBuckets,
		scoreBuckets:   defaultScoreBuckets,
		customLabels:   make(map[string]string),
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.customLabels}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for all metric definitions
	auto := promauto.With(m.registry)

	m.assignmentRuns = auto.NewCounter(m.counterOpts("assignment_runs_total", "Total number of greedy assignment passes"))
	m.assignmentDuration = auto.NewHistogram(m.histogramOpts("assignment_duration_milliseconds",
		"Duration of one assignment pass in milliseconds", m.latencyBuckets))
	m.scoresComputed = auto.NewCounter(m.counterOpts("scores_computed_total",
		"Total number of provider/seeker scores computed by assignment passes"))
	m.relationshipScore = auto.NewHistogram(m.histogramOpts("relationship_score",
		"Score of relationships at creation or swap", m.scoreBuckets))
	m.relationshipsCreated = auto.NewCounterVec(m.counterOpts("relationships_created_total",
		"Relationships created, by origin"), []string{"origin"})
	m.unmatchedSeekers = auto.NewGauge(m.gaugeOpts("unmatched_seekers",
		"Seekers left without a provider by the last assignment pass"))
	m.swaps = auto.NewCounter(m.counterOpts("swaps_total", "Total number of provider swaps"))
	m.manualOverCapacity = auto.NewCounter(m.counterOpts("manual_over_capacity_total",
		"Manual pairings created against a provider already at or over capacity"))
	m.statusTransitions = auto.NewCounterVec(m.counterOpts("status_transitions_total",
		"Relationship status changes"), []string{"from", "to"})
	m.duplicateRequests = auto.NewCounter(m.counterOpts("duplicate_requests_total",
		"Mutation requests ignored because their request id was already applied"))

	m.rosterProviders = auto.NewGauge(m.gaugeOpts("roster_providers", "Providers in the loaded roster"))
	m.rosterSeekers = auto.NewGauge(m.gaugeOpts("roster_seekers", "Seekers in the loaded roster"))
	m.relationshipsTotal = auto.NewGauge(m.gaugeOpts("relationships", "Relationships currently stored"))

	m.repositoryUpdateLatency = auto.NewHistogram(m.histogramOpts("repository_update_latency_milliseconds",
		"Repository update operation latency in milliseconds", m.latencyBuckets))
	m.repositoryQueryLatency = auto.NewHistogram(m.histogramOpts("repository_query_latency_milliseconds",
		"Repository query operation latency in milliseconds", m.latencyBuckets))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.latencyBuckets), []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Total number of errors by component"), []string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total",
		"Total number of errors by type"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Total number of errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts("error_latency_milliseconds",
		"Latency of operations that resulted in errors", m.latencyBuckets), []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordAssignmentRun records one assignment pass: its duration, the number
// of scores it computed and how many seekers it left unmatched.
func RecordAssignmentRun(durationMs float64, scored, unmatched int) {
	globalManager.assignmentRuns.Inc()
	globalManager.assignmentDuration.Observe(durationMs)
	globalManager.scoresComputed.Add(float64(scored))
	globalManager.unmatchedSeekers.Set(float64(unmatched))
}

// RecordRelationshipCreated counts a new relationship and observes its score.
func RecordRelationshipCreated(origin string, score int) {
	globalManager.relationshipsCreated.WithLabelValues(origin).Inc()
	globalManager.relationshipScore.Observe(float64(score))
}

// RecordSwap counts a provider swap and observes the new score.
func RecordSwap(score int) {
	globalManager.swaps.Inc()
	globalManager.relationshipScore.Observe(float64(score))
}

// RecordManualOverCapacity counts a manual pairing against a full provider.
func RecordManualOverCapacity() {
	globalManager.manualOverCapacity.Inc()
}

// RecordStatusTransition counts a relationship status change.
func RecordStatusTransition(from, to string) {
	globalManager.statusTransitions.WithLabelValues(from, to).Inc()
}

// RecordDuplicateRequest counts an ignored retried request.
func RecordDuplicateRequest() {
	globalManager.duplicateRequests.Inc()
}

// UpdateRosterSize sets the roster population gauges.
func UpdateRosterSize(providers, seekers int) {
	globalManager.rosterProviders.Set(float64(providers))
	globalManager.rosterSeekers.Set(float64(seekers))
}

// UpdateRelationshipsTotal sets the stored relationship count.
func UpdateRelationshipsTotal(count int) {
	globalManager.relationshipsTotal.Set(float64(count))
}

// RecordRepositoryUpdateLatency records repository update latency.
func RecordRepositoryUpdateLatency(latencyMs float64) {
	globalManager.repositoryUpdateLatency.Observe(latencyMs)
}

// RecordRepositoryQueryLatency records repository query latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error by component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that failed.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
