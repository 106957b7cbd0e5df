package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"raw-loader/internal/decoder"
	"raw-loader/internal/logging"
	"raw-loader/internal/pixel"
	"raw-loader/internal/rawerr"
)

// Slot names.
const (
	SlotPrimary   = "primary"
	SlotPreview   = "preview"
	SlotThumbnail = "thumbnail"
)

// Chain is the ordered list of strategies for one output slot.
type Chain struct {
	Slot       string
	Strategies []Strategy
}

// PreviewChain is MetadataPreview, then MetadataThumbnail, then the
// decoder's embedded thumbnail. Only the first tier falls back to the decoder
// itself. The last tier is skipped when that fallback already ran, so the
// decoder is asked at most once per file.
func PreviewChain(src MetadataSource, dec decoder.Decoder) Chain {
	first := NewMetadataPreview(src, dec)
	return Chain{
		Slot: SlotPreview,
		Strategies: []Strategy{
			first,
			NewMetadataThumbnail(src, nil),
			&DecoderEmbedded{Decoder: dec, After: first},
		},
	}
}

// ThumbnailChain is MetadataThumbnail, then the decoder's embedded thumbnail.
func ThumbnailChain(src MetadataSource, dec decoder.Decoder) Chain {
	return Chain{
		Slot: SlotThumbnail,
		Strategies: []Strategy{
			NewMetadataThumbnail(src, nil),
			&DecoderEmbedded{Decoder: dec},
		},
	}
}

// Limit sets MaxDimension on every strategy in the chain that decodes an
// embedded image and returns the chain.
func (c Chain) Limit(maxDimension int) Chain {
	for _, s := range c.Strategies {
		switch s := s.(type) {
		case *Metadata:
			s.MaxDimension = maxDimension
		case *DecoderEmbedded:
			s.MaxDimension = maxDimension
		}
	}
	return c
}

// Observer receives tier outcomes. metrics.NewExtractionObserver records them
// in Prometheus.
type Observer interface {
	ObserveTier(slot, tier string, outcome Outcome, duration time.Duration)
	ObservePlaceholder(slot string)
}

// TierReport is the outcome of one tier.
type TierReport struct {
	Tier     string
	Outcome  Outcome
	Reason   string
	Err      error
	Duration time.Duration
}

// Report lists what each tier of a slot did.
type Report struct {
	Slot        string
	Tiers       []TierReport
	Winner      string // tier that produced the image, empty for placeholder
	Placeholder bool
}

// Errors returns the errors of failed tiers, in order.
func (r Report) Errors() []error {
	var errs []error
	for _, t := range r.Tiers {
		if t.Err != nil {
			errs = append(errs, t.Err)
		}
	}
	return errs
}

// Err returns nil when a tier produced the image. For a placeholder it
// returns a rawerr.ExtractionUnavailable error naming what every tier hit.
func (r Report) Err() error {
	if !r.Placeholder {
		return nil
	}
	causes := make([]string, 0, len(r.Tiers))
	for _, t := range r.Tiers {
		if t.Err != nil {
			causes = append(causes, fmt.Sprintf("%s: %v", t.Tier, t.Err))
		} else {
			causes = append(causes, fmt.Sprintf("%s: %s", t.Tier, t.Reason))
		}
	}
	if len(causes) == 0 {
		causes = append(causes, "no tier ran")
	}
	return rawerr.Errorf(rawerr.ExtractionUnavailable, "extract."+r.Slot, "", "%s", strings.Join(causes, "; "))
}

// Tiered runs chains with short-circuit fallback.
type Tiered struct {
	Observer Observer
}

// NewTiered returns a Tiered extractor. obs may be nil.
func NewTiered(obs Observer) *Tiered {
	return &Tiered{Observer: obs}
}

// ExtractSlot tries each strategy of chain in order and returns the first
// image that normalizes. It never fails: an exhausted chain, or a cancelled
// ctx, yields pixel.Placeholder().
func (t *Tiered) ExtractSlot(ctx context.Context, path string, chain Chain) (pixel.CanonicalImage, Report) {
	report := Report{Slot: chain.Slot}

	for _, s := range chain.Strategies {
		if ctx.Err() != nil {
			logging.Debug("%s: context done before %s: %v", chain.Slot, s.Name(), ctx.Err())
			break
		}

		start := time.Now()
		res := s.Attempt(ctx, path)
		tr := TierReport{Tier: s.Name(), Outcome: res.Outcome, Duration: time.Since(start)}

		var img pixel.CanonicalImage
		switch res.Outcome {
		case OutcomeSuccess:
			var err error
			img, err = pixel.Normalize(res.Buffer)
			if err != nil {
				tr.Outcome = OutcomeFailed
				tr.Err = err
			}
		case OutcomeUnavailable:
			tr.Reason = res.Reason
		case OutcomeFailed:
			tr.Err = res.Err
		default:
			tr.Outcome = OutcomeFailed
			tr.Err = res.Err
		}

		report.Tiers = append(report.Tiers, tr)
		t.observeTier(chain.Slot, tr)

		switch tr.Outcome {
		case OutcomeSuccess:
			report.Winner = tr.Tier
			logging.Debug("%s: %s produced %dx%d for %s", chain.Slot, tr.Tier, img.Width(), img.Height(), path)
			return img, report
		case OutcomeUnavailable:
			logging.Debug("%s: %s unavailable for %s: %s", chain.Slot, tr.Tier, path, tr.Reason)
		default:
			logging.Debug("%s: %s failed for %s: %v", chain.Slot, tr.Tier, path, tr.Err)
		}
	}

	report.Placeholder = true
	if t.Observer != nil {
		t.Observer.ObservePlaceholder(chain.Slot)
	}
	logging.Info("No %s available for %s, using placeholder", chain.Slot, path)
	return pixel.Placeholder(), report
}

func (t *Tiered) observeTier(slot string, tr TierReport) {
	if t.Observer != nil {
		t.Observer.ObserveTier(slot, tr.Tier, tr.Outcome, tr.Duration)
	}
}
