package metrics

import (
	"testing"
	"time"

	"raw-loader/internal/extract"

	"github.com/prometheus/client_golang/prometheus"
)

// counterValue reads a counter from the default registry by name and labels.
func counterValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"HTTPRequestsTotal", HTTPRequestsTotal},
		{"HTTPRequestDuration", HTTPRequestDuration},
		{"HTTPRequestsInFlight", HTTPRequestsInFlight},
		{"ExtractionTiersTotal", ExtractionTiersTotal},
		{"ExtractionTierDuration", ExtractionTierDuration},
		{"PlaceholdersTotal", PlaceholdersTotal},
		{"ToolAvailable", ToolAvailable},
		{"BatchFilesTotal", BatchFilesTotal},
		{"FilesystemStaleErrors", FilesystemStaleErrors},
		{"FilesystemRetries", FilesystemRetries},
		{"GoMemLimit", GoMemLimit},
		{"MemoryUsageRatio", MemoryUsageRatio},
		{"MemoryPaused", MemoryPaused},
		{"AppInfo", AppInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestInitializeMetrics(t *testing.T) {
	InitializeMetrics()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	found := map[string]int{}
	for _, mf := range families {
		found[mf.GetName()] = len(mf.GetMetric())
	}

	// primary 3 + preview 3×3 + thumbnail 2×3
	if got := found["raw_loader_extraction_tiers_total"]; got < 18 {
		t.Errorf("extraction tier series = %d, want at least 18", got)
	}
	if got := found["raw_loader_placeholders_total"]; got < 2 {
		t.Errorf("placeholder series = %d, want at least 2", got)
	}
}

func TestExtractionObserver(t *testing.T) {
	obs := NewExtractionObserver()
	labels := map[string]string{"slot": "preview", "tier": extract.TierDecoderEmbedded, "outcome": "failed"}

	before := counterValue(t, "raw_loader_extraction_tiers_total", labels)
	obs.ObserveTier(extract.SlotPreview, extract.TierDecoderEmbedded, extract.OutcomeFailed, 20*time.Millisecond)
	obs.ObserveTier(extract.SlotPreview, extract.TierDecoderEmbedded, extract.OutcomeFailed, 30*time.Millisecond)

	if got := counterValue(t, "raw_loader_extraction_tiers_total", labels) - before; got != 2 {
		t.Errorf("tier counter delta = %v, want 2", got)
	}

	phBefore := counterValue(t, "raw_loader_placeholders_total", map[string]string{"slot": "thumbnail"})
	obs.ObservePlaceholder(extract.SlotThumbnail)
	if got := counterValue(t, "raw_loader_placeholders_total", map[string]string{"slot": "thumbnail"}) - phBefore; got != 1 {
		t.Errorf("placeholder counter delta = %v, want 1", got)
	}
}

func TestSetToolAvailable(t *testing.T) {
	// Should not panic
	SetToolAvailable("exiftool", true)
	SetToolAvailable("dcraw", false)
	SetAppInfo("dev", "unknown", "go1.25")
}

func TestFilesystemObserver(t *testing.T) {
	obs := NewFilesystemObserver()

	staleLabels := map[string]string{"operation": "stat"}
	retryLabels := map[string]string{"operation": "open", "outcome": "failure"}
	staleBefore := counterValue(t, "raw_loader_filesystem_stale_errors_total", staleLabels)
	retryBefore := counterValue(t, "raw_loader_filesystem_retries_total", retryLabels)

	obs.ObserveStaleError("stat")
	obs.ObserveRetryOutcome("open", "failure")

	if got := counterValue(t, "raw_loader_filesystem_stale_errors_total", staleLabels) - staleBefore; got != 1 {
		t.Errorf("stale delta = %v, want 1", got)
	}
	if got := counterValue(t, "raw_loader_filesystem_retries_total", retryLabels) - retryBefore; got != 1 {
		t.Errorf("retry delta = %v, want 1", got)
	}
}
