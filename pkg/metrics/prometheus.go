// Package metrics provides Prometheus metrics for the skillwheel diagram service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every series the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Diagram
	redraws       *prometheus.CounterVec
	redrawLatency prometheus.Histogram
	curvesDrawn   *prometheus.CounterVec
	ringSize      *prometheus.GaugeVec
	renders       *prometheus.CounterVec

	// Selection
	clicks           *prometheus.CounterVec
	activeSessions   prometheus.Gauge
	sessionEvictions prometheus.Counter

	// Click queue
	queueSize       prometheus.Gauge
	queueCapacity   prometheus.Gauge
	queueRejections *prometheus.CounterVec

	// Live viewers
	liveConnections prometheus.Gauge
	livePushes      prometheus.Counter
	liveThrottled   prometheus.Counter

	// Dataset
	datasetReloads *prometheus.CounterVec
	datasetVersion prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // package-level recorders write here

// customRegistry keeps the default Go collectors out of /healthz.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // shared with the HTTP handler

func init() { //nolint:gochecknoinits // global manager must exist before any recorder runs
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its series.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "skillwheel",
		subsystem:        "diagram",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per series
	auto := promauto.With(m.registry)

	m.redraws = auto.NewCounterVec(m.counterOpts("redraws_total",
		"Plans built, by what triggered the redraw"), []string{"trigger"})
	m.redrawLatency = auto.NewHistogram(m.histogramOpts("redraw_latency_milliseconds",
		"Time to resolve a selection and build its plan", m.histogramBuckets))
	m.curvesDrawn = auto.NewCounterVec(m.counterOpts("curves_drawn_total",
		"Curves emitted into plans, by kind"), []string{"kind"})
	m.ringSize = auto.NewGaugeVec(m.gaugeOpts("ring_size",
		"Members on each ring of the current dataset"), []string{"ring"})
	m.renders = auto.NewCounterVec(m.counterOpts("renders_total",
		"Plans painted by a render backend"), []string{"format"})

	m.clicks = auto.NewCounterVec(m.counterOpts("clicks_total",
		"Node clicks by ring and outcome"), []string{"ring", "result"})
	m.activeSessions = auto.NewGauge(m.gaugeOpts("active_sessions",
		"Viewer sessions currently held"))
	m.sessionEvictions = auto.NewCounter(m.counterOpts("session_evictions_total",
		"Sessions dropped to stay under the session limit"))

	m.queueSize = auto.NewGauge(m.gaugeOpts("click_queue_size",
		"Redraw triggers waiting for the worker"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("click_queue_capacity",
		"Maximum redraw triggers the queue accepts"))
	m.queueRejections = auto.NewCounterVec(m.counterOpts("click_queue_rejections_total",
		"Redraw triggers refused by the queue"), []string{"reason"})

	m.liveConnections = auto.NewGauge(m.gaugeOpts("live_connections",
		"Open live viewer connections"))
	m.livePushes = auto.NewCounter(m.counterOpts("live_pushes_total",
		"Plans pushed to live viewers"))
	m.liveThrottled = auto.NewCounter(m.counterOpts("live_clicks_throttled_total",
		"Live clicks dropped by the per-connection rate limit"))

	m.datasetReloads = auto.NewCounterVec(m.counterOpts("dataset_reloads_total",
		"Dataset loads by result"), []string{"result"})
	m.datasetVersion = auto.NewGauge(m.gaugeOpts("dataset_version",
		"Version of the dataset currently served"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Errors by component and type"), []string{"component", "error_type"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"HTTP errors by endpoint, method and type"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"Heap bytes in use"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordRedraw counts one plan build and its latency.
func RecordRedraw(trigger string, latencyMs float64) {
	globalManager.redraws.WithLabelValues(trigger).Inc()
	globalManager.redrawLatency.Observe(latencyMs)
}

// RecordCurves adds n curves of the given kind.
func RecordCurves(kind string, n int) {
	if n <= 0 {
		return
	}
	globalManager.curvesDrawn.WithLabelValues(kind).Add(float64(n))
}

// UpdateRingSize sets the member count of a ring.
func UpdateRingSize(ring string, n int) {
	globalManager.ringSize.WithLabelValues(ring).Set(float64(n))
}

// RecordRender counts a plan painted in the given format.
func RecordRender(format string) {
	globalManager.renders.WithLabelValues(format).Inc()
}

// RecordClick counts a click on ring with its outcome.
func RecordClick(ring, result string) {
	globalManager.clicks.WithLabelValues(ring, result).Inc()
}

// UpdateActiveSessions sets the session count.
func UpdateActiveSessions(n int) {
	globalManager.activeSessions.Set(float64(n))
}

// RecordSessionEviction counts an evicted session.
func RecordSessionEviction() {
	globalManager.sessionEvictions.Inc()
}

// UpdateQueueSize sets the current queue length.
func UpdateQueueSize(n int) {
	globalManager.queueSize.Set(float64(n))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(n int) {
	globalManager.queueCapacity.Set(float64(n))
}

// RecordQueueRejection counts a refused trigger.
func RecordQueueRejection(reason string) {
	globalManager.queueRejections.WithLabelValues(reason).Inc()
}

// UpdateLiveConnections sets the number of open live connections.
func UpdateLiveConnections(n int) {
	globalManager.liveConnections.Set(float64(n))
}

// RecordLivePush counts a plan delivered to a live viewer.
func RecordLivePush() {
	globalManager.livePushes.Inc()
}

// RecordLiveThrottled counts a live click dropped by the rate limit.
func RecordLiveThrottled() {
	globalManager.liveThrottled.Inc()
}

// RecordDatasetReload counts a dataset load attempt.
func RecordDatasetReload(result string) {
	globalManager.datasetReloads.WithLabelValues(result).Inc()
}

// UpdateDatasetVersion sets the served dataset version.
func UpdateDatasetVersion(v uint64) {
	globalManager.datasetVersion.Set(float64(v))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
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

// GetRegistry returns the registry the package-level recorders write to.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Handler serves the package registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}
