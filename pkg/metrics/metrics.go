package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Custom histogram buckets optimized for API response times ranging from milliseconds to 30+ seconds
	// Note: no 60s bucket to avoid histogram_quantile interpolation issues with low sample counts
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	// HTTP Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Database Client Metrics
	PostgresRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_client_operation_duration_seconds",
			Help:    "Database client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	PostgresRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_client_operation_total",
			Help: "Total number of database client operations",
		},
		[]string{"operation", "status"},
	)

	// Auth Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	// Storage Client Metrics (knowledge-base documents)
	StorageRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_client_operation_duration_seconds",
			Help:    "Storage client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	StorageRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_client_operation_total",
			Help: "Total number of storage client operations",
		},
		[]string{"operation", "status"},
	)

	// Business Metrics
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asksamriddhi_login_attempts_total",
			Help: "Total login attempts by outcome",
		},
		[]string{"status"},
	)

	RoleResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asksamriddhi_role_resolutions_total",
			Help: "Total role resolutions by resolved role",
		},
		[]string{"role"},
	)

	GateDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asksamriddhi_gate_decisions_total",
			Help: "Access gate decisions by outcome",
		},
		[]string{"decision"},
	)

	SessionVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asksamriddhi_session_verifications_total",
			Help: "Background session re-validations by outcome",
		},
		[]string{"status"},
	)

	ChatSessionsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asksamriddhi_chat_sessions_created_total",
			Help: "Chat sessions created by owner role",
		},
		[]string{"role"},
	)

	ChatMessagesAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asksamriddhi_chat_messages_appended_total",
			Help: "Chat messages appended by sender and outcome",
		},
		[]string{"sender", "status"},
	)

	TitleReplacements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asksamriddhi_title_replacements_total",
			Help: "Generic session titles replaced by backend-suggested ones",
		},
		[]string{"status"},
	)

	QueryRouterRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asksamriddhi_query_router_requests_total",
			Help: "Requests forwarded to the query router by outcome",
		},
		[]string{"status"},
	)

	QueryRouterDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asksamriddhi_query_router_duration_seconds",
			Help:    "Query router round-trip duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"status"},
	)

	DocumentUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asksamriddhi_document_uploads_total",
			Help: "Knowledge-base document uploads by outcome",
		},
		[]string{"status"},
	)

	IngestCallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asksamriddhi_ingest_callbacks_total",
			Help: "Ingest pipeline completion callbacks by status",
		},
		[]string{"status"},
	)

	// Infrastructure Metrics
	GoRoutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)

	// Registry is the default prometheus registry used by the /metrics endpoint
	Registry = prometheus.DefaultGatherer
)

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
