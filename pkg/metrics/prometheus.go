// Package metrics provides Prometheus metrics for the sortie analysis service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Input kinds used as label values for skipped-record counters.
const (
	InputEventLog   = "event_log"
	InputTrack      = "track"
	InputDetections = "detections"
	InputTargets    = "targets"
	InputTasks      = "tasks"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Analysis pipeline
	analysisRuns        *prometheus.CounterVec
	analysisLatency     prometheus.Histogram
	fetchLatency        prometheus.Histogram
	recordsSkipped      *prometheus.CounterVec
	recordsParsed       *prometheus.CounterVec
	dwellIntervals      prometheus.Counter
	correlatedTotal     prometheus.Counter
	cataloguedTargets   prometheus.Gauge
	lastTrackDistanceKm prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry without default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "sortie",
		subsystem:        "analysis",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.analysisRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "runs_total",
		Help: "Analysis runs by outcome",
	}, []string{"status"})

	m.analysisLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "run_latency_milliseconds",
		Help:    "Wall time of one analysis run in milliseconds",
		Buckets: m.histogramBuckets,
	})

	m.fetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "fetch_latency_milliseconds",
		Help:    "Time spent fetching mission artifacts in milliseconds",
		Buckets: m.histogramBuckets,
	})

	m.recordsParsed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "records_parsed_total",
		Help: "Records accepted per input kind",
	}, []string{"input"})

	m.recordsSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "records_skipped_total",
		Help: "Malformed or invalid records dropped per input kind",
	}, []string{"input"})

	m.dwellIntervals = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "dwell_intervals_total",
		Help: "Dwell intervals built across all runs",
	})

	m.correlatedTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "correlated_detections_total",
		Help: "Detections attributed to a target across all runs",
	})

	m.cataloguedTargets = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "catalogued_targets",
		Help: "Distinct targets in the most recent run",
	})

	m.lastTrackDistanceKm = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "last_track_distance_km",
		Help: "Track length of the most recent run in kilometres",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "http_requests_total",
		Help: "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "errors_by_type_total",
		Help: "Errors by type and severity",
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "errors_by_endpoint_total",
		Help: "Errors by HTTP endpoint",
	}, []string{"endpoint", "method", "error_type"})

	m.errorLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "error_latency_milliseconds",
		Help:    "Latency of failed operations in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "system_memory_usage_bytes",
		Help: "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "system_goroutine_count",
		Help: "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "system_gc_pause_time_milliseconds",
		Help:    "GC pause time in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordAnalysisRun counts one finished run with status "ok" or "error".
func RecordAnalysisRun(status string) {
	globalManager.analysisRuns.WithLabelValues(status).Inc()
}

// RecordAnalysisLatency observes the duration of one run.
func RecordAnalysisLatency(latencyMs float64) {
	globalManager.analysisLatency.Observe(latencyMs)
}

// RecordFetchLatency observes the time spent fetching artifacts.
func RecordFetchLatency(latencyMs float64) {
	globalManager.fetchLatency.Observe(latencyMs)
}

// RecordParsed adds accepted records for an input kind.
func RecordParsed(input string, n int) {
	if n > 0 {
		globalManager.recordsParsed.WithLabelValues(input).Add(float64(n))
	}
}

// RecordSkipped adds dropped records for an input kind.
func RecordSkipped(input string, n int) {
	if n > 0 {
		globalManager.recordsSkipped.WithLabelValues(input).Add(float64(n))
	}
}

// RecordDwellIntervals adds built intervals.
func RecordDwellIntervals(n int) {
	if n > 0 {
		globalManager.dwellIntervals.Add(float64(n))
	}
}

// RecordCorrelated adds correlated detections.
func RecordCorrelated(n int) {
	if n > 0 {
		globalManager.correlatedTotal.Add(float64(n))
	}
}

// UpdateCataloguedTargets sets the distinct target count of the latest run.
func UpdateCataloguedTargets(count int) {
	globalManager.cataloguedTargets.Set(float64(count))
}

// UpdateTrackDistance sets the track length of the latest run.
func UpdateTrackDistance(km float64) {
	globalManager.lastTrackDistanceKm.Set(km)
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType counts an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint counts an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency observes the latency of a failed operation.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry the global collectors live on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
