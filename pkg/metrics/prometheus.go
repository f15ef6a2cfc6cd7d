// Package metrics provides Prometheus metrics for the Optiwork service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the Optiwork service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// HTTP Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// Store Metrics
	storeOperations *prometheus.CounterVec
	collectionSize  *prometheus.GaugeVec
	fixtureReloads  *prometheus.CounterVec

	// Change Feed Metrics
	changeEventsPublished prometheus.Counter
	changeEventsDropped   prometheus.Counter
	changeEventsDelivered prometheus.Counter
	queueSize             prometheus.Gauge
	queueCapacity         prometheus.Gauge
	wsClients             prometheus.Gauge

	// System Performance Metrics
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

// Configure rebuilds the global collectors with opts on a fresh registry.
// Call it once at startup, before anything records or GetRegistry is read.
func Configure(opts ...Option) {
	registry := prometheus.NewRegistry()
	globalManager = NewManager(append([]Option{WithPrometheusRegistry(registry)}, opts...)...)
	customRegistry = registry
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "optiwork",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	// HTTP Metrics - endpoint is the matched route pattern, never the raw path
	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpErrors = m.counterVec("http_errors_total",
		"Total number of error responses by endpoint and error code",
		"endpoint", "method", "error_code")

	// Store Metrics
	m.storeOperations = m.counterVec("store_operations_total",
		"Total number of store operations by outcome",
		"operation", "result")

	m.collectionSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "collection_size",
		Help:        "Current number of records per working collection",
		ConstLabels: m.constLabels,
	}, []string{"collection"})

	m.fixtureReloads = m.counterVec("fixture_reloads_total",
		"Total number of fixture directory reloads by outcome",
		"result")

	// Change Feed Metrics
	m.changeEventsPublished = m.counter("change_events_published_total",
		"Total number of change events accepted by the change queue")
	m.changeEventsDropped = m.counter("change_events_dropped_total",
		"Total number of change events dropped because the queue was full or closed")
	m.changeEventsDelivered = m.counter("change_events_delivered_total",
		"Total number of change events handed to the live feed")
	m.queueSize = m.gauge("change_queue_size", "Current number of buffered change events")
	m.queueCapacity = m.gauge("change_queue_capacity", "Maximum number of buffered change events")
	m.wsClients = m.gauge("ws_clients", "Number of connected live feed clients")

	// System Performance Metrics
	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: m.constLabels,
	})
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError records an error response with its error code.
func RecordHTTPError(endpoint, method, errorCode string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorCode).Inc()
}

// Store Metrics Functions.

// RecordStoreOperation counts one store operation and its result.
func RecordStoreOperation(operation, result string) {
	globalManager.storeOperations.WithLabelValues(operation, result).Inc()
}

// UpdateCollectionSize sets the size of a working collection.
func UpdateCollectionSize(collection string, size int) {
	globalManager.collectionSize.WithLabelValues(collection).Set(float64(size))
}

// RecordFixtureReload counts a fixture reload attempt.
func RecordFixtureReload(result string) {
	globalManager.fixtureReloads.WithLabelValues(result).Inc()
}

// Change Feed Metrics Functions.

// RecordChangeEventPublished increments the accepted change events counter.
func RecordChangeEventPublished() {
	globalManager.changeEventsPublished.Inc()
}

// RecordChangeEventDropped increments the dropped change events counter.
func RecordChangeEventDropped() {
	globalManager.changeEventsDropped.Inc()
}

// RecordChangeEventDelivered increments the delivered change events counter.
func RecordChangeEventDelivered() {
	globalManager.changeEventsDelivered.Inc()
}

// UpdateQueueSize sets the current change queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum change queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateWSClients sets the number of connected live feed clients.
func UpdateWSClients(count int) {
	globalManager.wsClients.Set(float64(count))
}

// System Performance Metrics Functions.

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
