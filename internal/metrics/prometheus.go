// Package metrics provides Prometheus-based metrics collection for the live
// metrics service: capture store calls, per-type configuration loads, HTTP
// traffic and process health.
package metrics

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// Namespace for all live metrics collectors
	namespace = "livemetrics"

	// Subsystems
	subsystemConfig  = "config"
	subsystemCapture = "capture"
	subsystemSystem  = "system"
	subsystemAPI     = "api"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// PrometheusMetrics holds all Prometheus metric collectors
type PrometheusMetrics struct {
	// Configuration metrics
	configLoads *prometheus.CounterVec

	// Capture metrics
	captureCalls    *prometheus.CounterVec
	captureDuration *prometheus.HistogramVec
	captureErrors   *prometheus.CounterVec
	samplesRecorded prometheus.Counter

	// API metrics
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	// System metrics
	memoryUsage prometheus.Gauge
	goroutines  prometheus.Gauge
	uptime      prometheus.Gauge

	startTime  time.Time
	lastUpdate time.Time
	mu         sync.RWMutex
	registry   *prometheus.Registry
}

// NewPrometheusMetrics creates a new Prometheus metrics instance with all collectors
func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()

	pm := &PrometheusMetrics{
		startTime: time.Now(),
		registry:  registry,
	}

	pm.initConfigMetrics()
	pm.initCaptureMetrics()
	pm.initAPIMetrics()
	pm.initSystemMetrics()

	pm.registerMetrics()

	// Register standard Go and process collectors for runtime visibility
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return pm
}

func (pm *PrometheusMetrics) initConfigMetrics() {
	pm.configLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemConfig,
			Name:      "loads_total",
			Help:      "Total number of live metrics configuration loads by entity type and outcome",
		},
		[]string{"entity_type", "outcome"},
	)
}

func (pm *PrometheusMetrics) initCaptureMetrics() {
	pm.captureCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemCapture,
			Name:      "calls_total",
			Help:      "Total number of capture service calls by operation and status",
		},
		[]string{"operation", "status"},
	)

	pm.captureDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemCapture,
			Name:      "call_duration_seconds",
			Help:      "Duration of capture service calls in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
		},
		[]string{"operation"},
	)

	pm.captureErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemCapture,
			Name:      "errors_total",
			Help:      "Total number of capture service errors by operation and error code",
		},
		[]string{"operation", "error_code"},
	)

	pm.samplesRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemCapture,
			Name:      "samples_recorded_total",
			Help:      "Total number of raw samples written to the capture store",
		},
	)
}

func (pm *PrometheusMetrics) initAPIMetrics() {
	pm.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemAPI,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	pm.httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemAPI,
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0},
		},
		[]string{"method", "route"},
	)
}

func (pm *PrometheusMetrics) initSystemMetrics() {
	pm.memoryUsage = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemSystem,
			Name:      "memory_bytes",
			Help:      "Current memory usage in bytes",
		},
	)

	pm.goroutines = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemSystem,
			Name:      "goroutines",
			Help:      "Current number of goroutines",
		},
	)

	pm.uptime = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemSystem,
			Name:      "uptime_seconds",
			Help:      "Application uptime in seconds",
		},
	)
}

func (pm *PrometheusMetrics) registerMetrics() {
	pm.registry.MustRegister(
		pm.configLoads,
		pm.captureCalls,
		pm.captureDuration,
		pm.captureErrors,
		pm.samplesRecorded,
		pm.httpRequests,
		pm.httpDuration,
		pm.memoryUsage,
		pm.goroutines,
		pm.uptime,
	)
}

// GetRegistry returns the Prometheus registry for HTTP handler
func (pm *PrometheusMetrics) GetRegistry() *prometheus.Registry {
	return pm.registry
}

// RecordConfigLoad counts one configuration load for an entity type.
func (pm *PrometheusMetrics) RecordConfigLoad(entityType, outcome string) {
	pm.configLoads.WithLabelValues(entityType, outcome).Inc()
}

// RecordCaptureCall records the outcome and latency of a capture store call.
// A non-empty errorCode marks the call as failed.
func (pm *PrometheusMetrics) RecordCaptureCall(operation string, duration time.Duration, errorCode string) {
	status := statusSuccess
	if errorCode != "" {
		status = statusError
		pm.captureErrors.WithLabelValues(operation, errorCode).Inc()
	}
	pm.captureCalls.WithLabelValues(operation, status).Inc()
	pm.captureDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// AddSamplesRecorded counts raw samples written to the store.
func (pm *PrometheusMetrics) AddSamplesRecorded(count int) {
	pm.samplesRecorded.Add(float64(count))
}

// RecordHTTPRequest records one served HTTP request.
func (pm *PrometheusMetrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	pm.httpRequests.WithLabelValues(method, route, status).Inc()
	pm.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// UpdateSystemMetrics updates all system metrics with current values
func (pm *PrometheusMetrics) UpdateSystemMetrics() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	pm.memoryUsage.Set(float64(memStats.Alloc))
	pm.goroutines.Set(float64(runtime.NumGoroutine()))
	pm.uptime.Set(time.Since(pm.startTime).Seconds())

	pm.lastUpdate = time.Now()
}

// GetUptime returns the application uptime
func (pm *PrometheusMetrics) GetUptime() time.Duration {
	return time.Since(pm.startTime)
}

// GetLastUpdate returns the last metrics update time
func (pm *PrometheusMetrics) GetLastUpdate() time.Time {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.lastUpdate
}

// StartPeriodicUpdates periodically refreshes system metrics until ctx is done.
func (pm *PrometheusMetrics) StartPeriodicUpdates(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	pm.UpdateSystemMetrics()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pm.UpdateSystemMetrics()
		}
	}
}

var (
	globalMetrics *PrometheusMetrics
	metricsOnce   sync.Once
)

// GetGlobalMetrics returns the global Prometheus metrics instance
func GetGlobalMetrics() *PrometheusMetrics {
	metricsOnce.Do(func() {
		globalMetrics = NewPrometheusMetrics()
	})
	return globalMetrics
}
