// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig]:
//
//   - MEDIA_DIR: Directory the HTTP bridge serves RAW files from (default: /media)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_ENABLED: Serve Prometheus metrics on /metrics (default: true)
//   - DECODER_BIN: LibRaw development executable (default: dcraw_emu)
//   - THUMB_DECODER_BIN: Embedded thumbnail executable (default: dcraw)
//   - EXIFTOOL_BIN: Metadata utility (default: exiftool)
//   - PREVIEW_MAX_DIMENSION: Shrink previews and thumbnails to fit (default: 0, off)
//   - REQUEST_TIMEOUT: Upper bound for one HTTP development (default: 5m)
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_STATIC_FILES: Log static file requests (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//   - MEMORY_LIMIT, MEMORY_RATIO, GOMEMLIMIT: see package memory
//
// [CheckTools] probes the external executables once at startup. Only the
// development decoder is required; a missing exiftool or dcraw only narrows
// the preview fallback chain.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//
//	go build -ldflags "-X raw-loader/internal/startup.Version=1.2.0"
package startup
