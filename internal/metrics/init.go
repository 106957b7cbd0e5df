package metrics

import "raw-loader/internal/extract"

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	// --- Primary development ---
	for _, o := range extract.Outcomes {
		ExtractionTiersTotal.WithLabelValues(extract.SlotPrimary, extract.TierFullDevelopment, o.String())
	}
	ExtractionTierDuration.WithLabelValues(extract.SlotPrimary, extract.TierFullDevelopment)

	// --- Preview and thumbnail chains (per slot × tier × outcome) ---
	chains := map[string][]string{
		extract.SlotPreview:   {extract.TierMetadataPreview, extract.TierMetadataThumbnail, extract.TierDecoderEmbedded},
		extract.SlotThumbnail: {extract.TierMetadataThumbnail, extract.TierDecoderEmbedded},
	}
	for slot, tiers := range chains {
		for _, tier := range tiers {
			for _, o := range extract.Outcomes {
				ExtractionTiersTotal.WithLabelValues(slot, tier, o.String())
			}
			ExtractionTierDuration.WithLabelValues(slot, tier)
		}
		PlaceholdersTotal.WithLabelValues(slot)
	}

	// --- Filesystem retries ---
	for _, op := range []string{"stat", "open"} {
		FilesystemStaleErrors.WithLabelValues(op)
		for _, outcome := range []string{"success", "failure"} {
			FilesystemRetries.WithLabelValues(op, outcome)
		}
	}

	// --- Batch command ---
	for _, status := range []string{"success", "error"} {
		BatchFilesTotal.WithLabelValues(status)
	}
}
