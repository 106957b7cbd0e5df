package handlers

import (
	"net/http"
	"runtime"
	"time"

	"raw-loader/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`

	// External tools
	Decoder      bool `json:"decoder"`
	ThumbDecoder bool `json:"thumbDecoder"`
	Exiftool     bool `json:"exiftool"`

	// Memory is "ok", "throttled" or "paused" when a monitor is attached
	Memory string `json:"memory,omitempty"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service. A missing
// development decoder, or developments held for memory, is reported as
// degraded.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:       statusHealthy,
		Version:      startup.Version,
		Uptime:       time.Since(h.started).Round(time.Second).String(),
		Decoder:      h.tools.Decoder,
		ThumbDecoder: h.tools.ThumbDecoder,
		Exiftool:     h.tools.Exiftool,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}
	if !h.tools.Decoder {
		response.Status = statusDegraded
	}
	if h.memory != nil {
		switch {
		case h.memory.IsPaused():
			response.Memory = "paused"
			response.Status = statusDegraded
		case h.memory.ShouldThrottle():
			response.Memory = "throttled"
		default:
			response.Memory = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, response)
	}
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// GetVersion returns the application version and build information
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, startup.GetBuildInfo())
}
