package handlers

import (
	"context"
	"time"

	"raw-loader/internal/extract"
	"raw-loader/internal/pipeline"
	"raw-loader/internal/pixel"
	"raw-loader/internal/rawconfig"
	"raw-loader/internal/startup"
)

// Loader produces images for the handlers. *pipeline.Pipeline implements it.
type Loader interface {
	Load(ctx context.Context, path string, opts rawconfig.Options, slots pipeline.Slots) (*pipeline.Output, error)
	Extract(ctx context.Context, path, slot string) (pixel.CanonicalImage, extract.Report)
}

// MemoryStatus reports memory pressure. *memory.Monitor implements it.
type MemoryStatus interface {
	ShouldThrottle() bool
	IsPaused() bool
}

type Handlers struct {
	loader   Loader
	memory   MemoryStatus
	mediaDir string
	timeout  time.Duration
	tools    startup.ToolStatus
	started  time.Time
}

func New(loader Loader, config *startup.Config, tools startup.ToolStatus) *Handlers {
	return &Handlers{
		loader:   loader,
		mediaDir: config.MediaDir,
		timeout:  config.RequestTimeout,
		tools:    tools,
		started:  time.Now(),
	}
}

// SetMemoryStatus makes the health check report memory pressure.
func (h *Handlers) SetMemoryStatus(m MemoryStatus) {
	h.memory = m
}

// requestContext bounds a handler's work by the configured timeout.
func (h *Handlers) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, h.timeout)
}
