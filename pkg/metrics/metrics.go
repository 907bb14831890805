package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the dedicated registry exposed on /api/metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var serviceName string

// Custom histogram buckets optimized for API response times ranging from
// milliseconds to 30+ seconds, giving useful granularity for the upstream
// accounts-service and object-storage calls.
var CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

var (
	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Upstream accounts-service client metrics
	CoreAPIRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "accounts_client_operation_duration_seconds",
			Help:    "Accounts-service client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	CoreAPIRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accounts_client_operation_total",
			Help: "Total number of accounts-service client operations",
		},
		[]string{"operation", "status"},
	)

	// Skill catalog client metrics
	CatalogRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_client_operation_duration_seconds",
			Help:    "Skill-catalog client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	CatalogCacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Total number of skill-catalog cache hits",
		},
		[]string{"result"}, // hit, miss
	)

	// Storage client metrics
	StorageRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_client_operation_duration_seconds",
			Help:    "Storage client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	StorageRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_client_operation_total",
			Help: "Total number of storage client operations",
		},
		[]string{"operation", "status"},
	)

	// Business metrics
	CandidateRegistrations = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobcircle_candidate_registrations_total",
			Help: "Total candidate registration attempts",
		},
		[]string{"status"},
	)

	AssetUploads = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobcircle_asset_uploads_total",
			Help: "Total deferred asset upload attempts",
		},
		[]string{"kind", "status"},
	)

	Activations = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobcircle_account_activations_total",
			Help: "Total account activation attempts",
		},
		[]string{"method", "status"},
	)

	CvAttachments = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobcircle_cv_attachments_total",
			Help: "Total post-activation CV attachment attempts",
		},
		[]string{"status"},
	)

	SkillSearches = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobcircle_skill_searches_total",
			Help: "Total skill-catalog searches issued by the wizard",
		},
		[]string{"status"}, // success, error, stale, debounced
	)

	DraftsActive = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobcircle_onboarding_drafts_active",
			Help: "Number of registration drafts currently held in memory",
		},
	)

	// Infrastructure metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// Init stores the service name used for metric identification.
func Init(name string) {
	serviceName = name
}

// ServiceName returns the configured service name.
func ServiceName() string {
	return serviceName
}

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
