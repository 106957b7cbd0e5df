package metrics

import (
	"time"

	"raw-loader/internal/extract"
	"raw-loader/internal/filesystem"
)

// extractionObserver implements extract.Observer using the Prometheus
// metrics declared in this package.
type extractionObserver struct{}

// NewExtractionObserver creates an observer that records tier outcomes and
// placeholder use into the counters and histograms declared in metrics.go.
func NewExtractionObserver() extract.Observer {
	return &extractionObserver{}
}

func (o *extractionObserver) ObserveTier(slot, tier string, outcome extract.Outcome, duration time.Duration) {
	ExtractionTiersTotal.WithLabelValues(slot, tier, outcome.String()).Inc()
	ExtractionTierDuration.WithLabelValues(slot, tier).Observe(duration.Seconds())
}

func (o *extractionObserver) ObservePlaceholder(slot string) {
	PlaceholdersTotal.WithLabelValues(slot).Inc()
}

type filesystemObserver struct{}

// NewFilesystemObserver creates an observer for filesystem retry activity.
func NewFilesystemObserver() filesystem.Observer {
	return filesystemObserver{}
}

func (filesystemObserver) ObserveStaleError(operation string) {
	FilesystemStaleErrors.WithLabelValues(operation).Inc()
}

func (filesystemObserver) ObserveRetryOutcome(operation, outcome string) {
	FilesystemRetries.WithLabelValues(operation, outcome).Inc()
}
