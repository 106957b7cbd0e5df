package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raw_loader_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "raw_loader_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raw_loader_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Extraction metrics
var (
	ExtractionTiersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raw_loader_extraction_tiers_total",
			Help: "Extraction tier attempts by slot, tier and outcome",
		},
		[]string{"slot", "tier", "outcome"},
	)

	ExtractionTierDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "raw_loader_extraction_tier_duration_seconds",
			Help:    "Time spent in one extraction tier, including subprocesses",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"slot", "tier"},
	)

	PlaceholdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raw_loader_placeholders_total",
			Help: "Slots that fell back to the placeholder image",
		},
		[]string{"slot"},
	)

	ToolAvailable = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "raw_loader_tool_available",
			Help: "Whether an external tool was found at startup (1 = available)",
		},
		[]string{"tool"},
	)
)

// Batch metrics
var (
	BatchFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raw_loader_batch_files_total",
			Help: "Files processed by the batch command by status",
		},
		[]string{"status"},
	)
)

// Memory metrics
var (
	GoMemLimit = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raw_loader_go_memlimit_bytes",
			Help: "Configured GOMEMLIMIT in bytes (0 if unset)",
		},
	)

	GoMemAllocBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raw_loader_go_memory_alloc_bytes",
			Help: "Current heap allocation in bytes",
		},
	)

	GoMemSysBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raw_loader_go_memory_sys_bytes",
			Help: "Total memory obtained from the OS in bytes",
		},
	)

	GoGCRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raw_loader_go_gc_runs_total",
			Help: "Completed GC cycles",
		},
	)

	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raw_loader_memory_usage_ratio",
			Help: "Heap allocation as a ratio of the memory limit (0.0-1.0)",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raw_loader_memory_paused",
			Help: "Whether developments are paused due to memory pressure (1 = paused)",
		},
	)

	MemoryGCPauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raw_loader_memory_gc_pauses_total",
			Help: "Times processing was paused for memory pressure",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "raw_loader_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// Filesystem metrics
var (
	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raw_loader_filesystem_stale_errors_total",
			Help: "NFS stale file handle errors by operation",
		},
		[]string{"operation"},
	)

	FilesystemRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raw_loader_filesystem_retries_total",
			Help: "Retried filesystem operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}

// SetToolAvailable records whether an external tool was found.
func SetToolAvailable(tool string, available bool) {
	v := 0.0
	if available {
		v = 1
	}
	ToolAvailable.WithLabelValues(tool).Set(v)
}
