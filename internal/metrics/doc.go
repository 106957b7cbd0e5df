// Package metrics provides Prometheus instrumentation for raw-loader.
//
// All metrics are registered with the default registry through promauto and
// are prefixed with "raw_loader_". Mount promhttp.Handler() to expose them:
//
//	mux.Handle("/metrics", promhttp.Handler())
//
// # Metric Categories
//
// ## HTTP Metrics
//   - HTTPRequestsTotal: Counter by method, path, and status
//   - HTTPRequestDuration: Histogram by method and path
//   - HTTPRequestsInFlight: Gauge of requests being served
//
// ## Extraction Metrics
//   - ExtractionTiersTotal: Counter by slot (primary/preview/thumbnail), tier and outcome
//   - ExtractionTierDuration: Histogram of time spent in each tier
//   - PlaceholdersTotal: Counter of slots that fell back to the placeholder
//   - ToolAvailable: Gauge per external tool (decoder, thumb_decoder, exiftool, libvips)
//
// ## Filesystem Metrics
//   - FilesystemStaleErrors: NFS stale file handle errors by operation
//   - FilesystemRetries: retried operations by operation and outcome
//
// ## Batch Metrics
//   - BatchFilesTotal: files handled by cmd/rawdev by status
//
// ## Memory Metrics
//   - GoMemLimit, GoMemAllocBytes, GoMemSysBytes, GoGCRuns: runtime statistics
//     refreshed by [Collector]
//   - MemoryUsageRatio, MemoryPaused, MemoryGCPauses: backpressure state
//     maintained by the memory monitor
//
// Tier outcomes are recorded through [NewExtractionObserver], which satisfies
// extract.Observer so the extraction packages do not import this one.
// [NewFilesystemObserver] does the same for package filesystem.
//
// # Prometheus Queries
//
// Share of previews served by each tier:
//
//	sum(rate(raw_loader_extraction_tiers_total{slot="preview",outcome="success"}[1h])) by (tier)
//
// Placeholder rate:
//
//	rate(raw_loader_placeholders_total[1h])
//
// P95 development time:
//
//	histogram_quantile(0.95, sum(rate(raw_loader_extraction_tier_duration_seconds_bucket{slot="primary"}[5m])) by (le))
package metrics
