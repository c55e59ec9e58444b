package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values shared by callers.
const (
	ResultHit      = "hit"
	ResultMiss     = "miss"
	ResultRejected = "rejected"

	StageSearchTerm = "search_term"
	StageCategory   = "category"
)

// Manager manages all Prometheus metrics for the aggregation service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Search pipeline
	searches       *prometheus.CounterVec
	searchLatency  prometheus.Histogram
	resultSize     prometheus.Histogram
	partialResults prometheus.Counter

	// Providers
	providerOutcomes *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	providerOffers   *prometheus.CounterVec

	// Normalization
	offersRejected     prometheus.Counter
	offersDeduplicated prometheus.Counter

	// Collaborators
	classifierFallbacks *prometheus.CounterVec
	enrichFallbacks     prometheus.Counter

	// Cache
	cacheEntries   *prometheus.GaugeVec
	cacheEvictions *prometheus.CounterVec

	// Warm-up queue and workers
	queueSize          prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter
	warmupProcessed    *prometheus.CounterVec
	workerCount        prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "neuroshop",
		subsystem:        "aggregator",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 15000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.searches = auto.NewCounterVec(
		m.counterOpts("searches_total", "Search requests by result (hit, miss, rejected)"),
		[]string{"result"},
	)
	m.searchLatency = auto.NewHistogram(
		m.histogramOpts("search_latency_milliseconds", "End-to-end search pipeline latency in milliseconds", m.histogramBuckets),
	)
	m.resultSize = auto.NewHistogram(
		m.histogramOpts("result_size", "Number of ranked offers returned per search", []float64{0, 1, 2, 5, 10, 20, 50, 100}),
	)
	m.partialResults = auto.NewCounter(
		m.counterOpts("partial_results_total", "Searches answered with partial results after the pipeline deadline"),
	)

	m.providerOutcomes = auto.NewCounterVec(
		m.counterOpts("provider_outcomes_total", "Provider calls by outcome (success, failure, timeout)"),
		[]string{"provider", "outcome"},
	)
	m.providerLatency = auto.NewHistogramVec(
		m.histogramOpts("provider_latency_milliseconds", "Provider call latency in milliseconds", m.histogramBuckets),
		[]string{"provider"},
	)
	m.providerOffers = auto.NewCounterVec(
		m.counterOpts("provider_offers_total", "Raw offers returned by each provider"),
		[]string{"provider"},
	)

	m.offersRejected = auto.NewCounter(
		m.counterOpts("offers_rejected_total", "Offers dropped by validation"),
	)
	m.offersDeduplicated = auto.NewCounter(
		m.counterOpts("offers_deduplicated_total", "Offers dropped as near-duplicates"),
	)

	m.classifierFallbacks = auto.NewCounterVec(
		m.counterOpts("classifier_fallbacks_total", "Classifier failures answered with a fallback value"),
		[]string{"stage"},
	)
	m.enrichFallbacks = auto.NewCounter(
		m.counterOpts("enrich_fallbacks_total", "Enrichment failures answered with the templated description"),
	)

	m.cacheEntries = auto.NewGaugeVec(
		m.gaugeOpts("cache_entries", "Live entries per cache"),
		[]string{"cache"},
	)
	m.cacheEvictions = auto.NewCounterVec(
		m.counterOpts("cache_evictions_total", "Entries evicted by expiry per cache"),
		[]string{"cache"},
	)

	m.queueSize = auto.NewGauge(
		m.gaugeOpts("warmup_queue_size", "Current number of pending warm-up jobs"),
	)
	m.queueEnqueued = auto.NewCounter(
		m.counterOpts("warmup_enqueued_total", "Warm-up jobs accepted by the queue"),
	)
	m.queueEnqueueErrors = auto.NewCounter(
		m.counterOpts("warmup_enqueue_errors_total", "Warm-up jobs rejected because the queue was full or closed"),
	)
	m.warmupProcessed = auto.NewCounterVec(
		m.counterOpts("warmup_processed_total", "Warm-up jobs processed by status"),
		[]string{"status"},
	)
	m.workerCount = auto.NewGauge(
		m.gaugeOpts("worker_count", "Current number of warm-up workers"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and error type"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of failed requests in milliseconds", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordSearch counts a search by result (hit, miss, rejected).
func RecordSearch(result string) {
	globalManager.searches.WithLabelValues(result).Inc()
}

// RecordSearchLatency records pipeline latency in milliseconds.
func RecordSearchLatency(latencyMs float64) {
	globalManager.searchLatency.Observe(latencyMs)
}

// RecordResultSize records how many offers a search returned.
func RecordResultSize(n int) {
	globalManager.resultSize.Observe(float64(n))
}

// RecordPartialResult counts a search cut short by the pipeline deadline.
func RecordPartialResult() {
	globalManager.partialResults.Inc()
}

// RecordProviderOutcome counts a provider call by outcome.
func RecordProviderOutcome(provider, outcome string) {
	globalManager.providerOutcomes.WithLabelValues(provider, outcome).Inc()
}

// RecordProviderLatency records a provider call latency in milliseconds.
func RecordProviderLatency(provider string, latencyMs float64) {
	globalManager.providerLatency.WithLabelValues(provider).Observe(latencyMs)
}

// RecordProviderOffers adds the raw offer count returned by a provider.
func RecordProviderOffers(provider string, n int) {
	globalManager.providerOffers.WithLabelValues(provider).Add(float64(n))
}

// RecordOffersRejected adds offers dropped by validation.
func RecordOffersRejected(n int) {
	globalManager.offersRejected.Add(float64(n))
}

// RecordOffersDeduplicated adds offers dropped as duplicates.
func RecordOffersDeduplicated(n int) {
	globalManager.offersDeduplicated.Add(float64(n))
}

// RecordClassifierFallback counts a classifier fallback for a stage.
func RecordClassifierFallback(stage string) {
	globalManager.classifierFallbacks.WithLabelValues(stage).Inc()
}

// RecordEnrichFallback counts an enrichment fallback.
func RecordEnrichFallback() {
	globalManager.enrichFallbacks.Inc()
}

// UpdateCacheEntries sets the live entry count of a cache.
func UpdateCacheEntries(cache string, n int) {
	globalManager.cacheEntries.WithLabelValues(cache).Set(float64(n))
}

// RecordCacheEviction counts an expiry eviction.
func RecordCacheEviction(cache string) {
	globalManager.cacheEvictions.WithLabelValues(cache).Inc()
}

// UpdateQueueSize sets the pending warm-up job count.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// RecordQueueEnqueue counts an accepted warm-up job.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueEnqueueError counts a rejected warm-up job.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordWarmupProcessed counts a processed warm-up job by status (ok, error).
func RecordWarmupProcessed(status string) {
	globalManager.warmupProcessed.WithLabelValues(status).Inc()
}

// UpdateWorkerCount sets the number of running warm-up workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordHTTPRequest increments the HTTP requests counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records errors by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records error latency.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage updates the system memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount updates the system goroutine count gauge.
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
