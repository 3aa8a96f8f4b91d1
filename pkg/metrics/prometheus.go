// Package metrics provides Prometheus metrics for the pitcher scouting service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	registry       prometheus.Registerer

	// Scouting
	submissionsAccepted  prometheus.Counter
	submissionsDuplicate prometheus.Counter
	submissionsRejected  *prometheus.CounterVec
	evaluations          prometheus.Counter
	defaultedSignals     *prometheus.CounterVec
	fatigueLatency       prometheus.Histogram
	scoringLatency       prometheus.Histogram
	diamondScore         prometheus.Histogram
	hiddenGems           prometheus.Gauge
	pitchersTotal        prometheus.Gauge
	staleEvaluations     prometheus.Counter

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec

	// Workers
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "diamond",
		subsystem:      "scout",
		latencyBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		registry:       prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets,
	})
}

//nolint:funlen // one declaration per collector
func (m *Manager) initializeMetrics() {
	m.submissionsAccepted = m.counter("submissions_accepted_total", "Pitcher submissions accepted for scoring")
	m.submissionsDuplicate = m.counter("submissions_duplicate_total", "Pitcher submissions dropped as duplicates")
	m.submissionsRejected = m.counterVec("submissions_rejected_total", "Pitcher submissions rejected by reason", "reason")
	m.evaluations = m.counter("evaluations_total", "Completed pitcher evaluations")
	m.defaultedSignals = m.counterVec("defaulted_signals_total", "Signals scored neutral because data was missing", "signal")
	m.fatigueLatency = m.histogram("fatigue_analysis_latency_milliseconds", "Fatigue fold latency in milliseconds", m.latencyBuckets)
	m.scoringLatency = m.histogram("scoring_latency_milliseconds", "Composite scoring latency in milliseconds", m.latencyBuckets)
	m.diamondScore = m.histogram("diamond_score", "Distribution of Diamond Scores", prometheus.LinearBuckets(10, 10, 9))
	m.hiddenGems = m.gauge("hidden_gems", "Pitchers currently passing the hidden gem filter")
	m.pitchersTotal = m.gauge("pitchers_total", "Pitchers on the board")
	m.staleEvaluations = m.counter("stale_evaluations_total", "Evaluations dropped because a newer submission was already on the board")

	m.queueSize = m.gauge("queue_size", "Submissions waiting in the queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum queue capacity")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Submissions enqueued")
	m.queueDequeued = m.counter("queue_dequeue_total", "Submissions dequeued")
	m.queueEnqueueErrors = m.counterVec("queue_enqueue_errors_total", "Failed enqueues by reason", "reason")

	m.workerActiveCount = m.gauge("worker_active_count", "Running scoring workers")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "End-to-end submission processing latency", m.latencyBuckets)
	m.workerErrors = m.counterVec("worker_errors_total", "Worker failures by stage", "stage")

	m.httpRequests = promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.latencyBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Live goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "Most recent GC pause in milliseconds", m.latencyBuckets)
}

// RecordSubmissionAccepted counts a submission handed to the queue.
func RecordSubmissionAccepted() { globalManager.submissionsAccepted.Inc() }

// RecordSubmissionDuplicate counts a submission dropped by the deduper.
func RecordSubmissionDuplicate() { globalManager.submissionsDuplicate.Inc() }

// RecordSubmissionRejected counts a rejected submission.
func RecordSubmissionRejected(reason string) {
	globalManager.submissionsRejected.WithLabelValues(reason).Inc()
}

// RecordEvaluation counts one evaluation and observes its Diamond Score.
func RecordEvaluation(diamond float64) {
	globalManager.evaluations.Inc()
	globalManager.diamondScore.Observe(diamond)
}

// RecordDefaultedSignal counts a signal scored neutral for lack of data.
func RecordDefaultedSignal(signal string) {
	globalManager.defaultedSignals.WithLabelValues(signal).Inc()
}

// RecordFatigueLatency records fatigue analysis latency in milliseconds.
func RecordFatigueLatency(latencyMs float64) { globalManager.fatigueLatency.Observe(latencyMs) }

// RecordScoringLatency records composite scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) { globalManager.scoringLatency.Observe(latencyMs) }

// UpdateHiddenGems sets the hidden gem gauge.
func UpdateHiddenGems(count int) { globalManager.hiddenGems.Set(float64(count)) }

// RecordStaleEvaluation counts an evaluation the board dropped as out of date.
func RecordStaleEvaluation() { globalManager.staleEvaluations.Inc() }

// UpdatePitchersTotal sets the board size gauge.
func UpdatePitchersTotal(count int) { globalManager.pitchersTotal.Set(float64(count)) }

// UpdateQueueSize sets the queue size gauge.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the queue capacity gauge.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// RecordQueueEnqueue counts a successful enqueue.
func RecordQueueEnqueue() { globalManager.queueEnqueued.Inc() }

// RecordQueueDequeue counts a dequeue.
func RecordQueueDequeue() { globalManager.queueDequeued.Inc() }

// RecordQueueEnqueueError counts a failed enqueue.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// UpdateWorkerActiveCount sets the running worker gauge.
func UpdateWorkerActiveCount(count int) { globalManager.workerActiveCount.Set(float64(count)) }

// RecordWorkerProcessingLatency records per-submission latency in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a worker failure at the given stage.
func RecordWorkerError(stage string) { globalManager.workerErrors.WithLabelValues(stage).Inc() }

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateSystemMemoryUsage sets the heap usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutineCount.Set(float64(count)) }

// RecordSystemGCPauseTime records a GC pause in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.systemGCPauseTime.Observe(pauseMs) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
