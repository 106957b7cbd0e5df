package pipeline

import (
	"context"
	"sync"
	"time"

	"raw-loader/internal/decoder"
	"raw-loader/internal/extract"
	"raw-loader/internal/logging"
	"raw-loader/internal/memory"
	"raw-loader/internal/pixel"
	"raw-loader/internal/rawconfig"
	"raw-loader/internal/rawerr"
)

// Slots selects the optional outputs. The primary image is always produced.
type Slots struct {
	Preview   bool
	Thumbnail bool
}

// AllSlots requests every optional output.
var AllSlots = Slots{Preview: true, Thumbnail: true}

// Gate holds back developments under memory pressure. *memory.Monitor
// implements it.
type Gate interface {
	WaitIfPaused(ctx context.Context) bool
}

// Output is everything Load produced for one file.
type Output struct {
	Config    rawconfig.DecoderConfig
	Image     pixel.CanonicalImage
	Preview   *pixel.CanonicalImage // nil unless requested
	Thumbnail *pixel.CanonicalImage // nil unless requested
	// Reports holds the primary report followed by one per requested slot.
	Reports []extract.Report
}

// Report returns the report for slot, or a zero Report if it was not run.
func (o *Output) Report(slot string) extract.Report {
	for _, r := range o.Reports {
		if r.Slot == slot {
			return r
		}
	}
	return extract.Report{}
}

// Pipeline wires the decoder and metadata utility into the extraction chains.
type Pipeline struct {
	Decoder   decoder.Decoder
	Metadata  extract.MetadataSource
	Extractor *extract.Tiered
	Gate      Gate
	// MaxDimension bounds preview and thumbnail images, 0 keeps them as
	// stored. The primary image is never resized.
	MaxDimension int
}

// New creates a Pipeline. meta and obs may be nil.
func New(dec decoder.Decoder, meta extract.MetadataSource, obs extract.Observer) *Pipeline {
	return &Pipeline{
		Decoder:   dec,
		Metadata:  meta,
		Extractor: extract.NewTiered(obs),
	}
}

// Load develops path with opts and extracts the requested slots
// concurrently. On a primary failure the slots are cancelled and the error
// is returned with a nil Output.
func (p *Pipeline) Load(ctx context.Context, path string, opts rawconfig.Options, slots Slots) (*Output, error) {
	cfg := rawconfig.Translate(opts)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := &Output{Config: cfg}
	var previewReport, thumbnailReport extract.Report
	var wg sync.WaitGroup

	if slots.Preview {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, report := p.Extract(ctx, path, extract.SlotPreview)
			out.Preview = &img
			previewReport = report
		}()
	}

	if slots.Thumbnail {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, report := p.Extract(ctx, path, extract.SlotThumbnail)
			out.Thumbnail = &img
			thumbnailReport = report
		}()
	}

	img, primaryReport, err := p.develop(ctx, path, cfg)
	if err != nil {
		cancel()
		wg.Wait()
		return nil, err
	}
	wg.Wait()

	out.Image = img
	out.Reports = append(out.Reports, primaryReport)
	if slots.Preview {
		out.Reports = append(out.Reports, previewReport)
	}
	if slots.Thumbnail {
		out.Reports = append(out.Reports, thumbnailReport)
	}
	return out, nil
}

// Extract runs the fallback chain of a single optional slot without
// developing the primary image. It never fails; an exhausted chain yields the
// placeholder. Unknown slots are treated as thumbnail.
func (p *Pipeline) Extract(ctx context.Context, path, slot string) (pixel.CanonicalImage, extract.Report) {
	chain := extract.ThumbnailChain(p.Metadata, p.Decoder)
	if slot == extract.SlotPreview {
		chain = extract.PreviewChain(p.Metadata, p.Decoder)
	}
	return p.Extractor.ExtractSlot(ctx, path, chain.Limit(p.MaxDimension))
}

func (p *Pipeline) develop(ctx context.Context, path string, cfg rawconfig.DecoderConfig) (pixel.CanonicalImage, extract.Report, error) {
	const op = "pipeline.develop"
	report := extract.Report{Slot: extract.SlotPrimary}

	if p.Gate != nil && !p.Gate.WaitIfPaused(ctx) {
		return pixel.CanonicalImage{}, report, rawerr.Errorf(rawerr.DecodeFailure, op, path, "aborted while waiting for memory")
	}

	strategy := &extract.FullDevelopment{Decoder: p.Decoder, Config: cfg}
	start := time.Now()
	res := strategy.Attempt(ctx, path)
	tr := extract.TierReport{Tier: strategy.Name(), Outcome: res.Outcome, Duration: time.Since(start)}

	var img pixel.CanonicalImage
	err := res.Err
	if res.Outcome == extract.OutcomeSuccess {
		img, err = pixel.Normalize(res.Buffer)
	} else if err == nil {
		err = rawerr.Errorf(rawerr.DecodeFailure, op, path, "development produced no image: %s", res.Reason)
	}
	if err != nil {
		tr.Outcome = extract.OutcomeFailed
		tr.Err = err
	}

	report.Tiers = append(report.Tiers, tr)
	if obs := p.Extractor.Observer; obs != nil {
		obs.ObserveTier(extract.SlotPrimary, tr.Tier, tr.Outcome, tr.Duration)
	}

	if err != nil {
		logging.Warn("Development of %s failed after %v: %v", path, tr.Duration, err)
		return pixel.CanonicalImage{}, report, err
	}

	report.Winner = tr.Tier
	logging.Debug("Developed %s to %dx%d in %v (~%s heap)", path, img.Width(), img.Height(), tr.Duration,
		memory.FormatBytes(memory.EstimateImageBytes(img.Width(), img.Height(), img.SourceBits)))
	return img, report, nil
}
