package handlers

import (
	"net/http"

	"raw-loader/internal/extract"
	"raw-loader/internal/imagestats"
	"raw-loader/internal/mediatypes"
	"raw-loader/internal/pipeline"
	"raw-loader/internal/pixel"
	"raw-loader/internal/rawconfig"
)

// ImageInfo describes one canonical image.
type ImageInfo struct {
	Shape       [4]int             `json:"shape"`
	Min         float32            `json:"min"`
	Max         float32            `json:"max"`
	SourceBits  int                `json:"sourceBits"`
	Placeholder bool               `json:"placeholder"`
	Stats       imagestats.Summary `json:"stats"`
}

// TierInfo is one attempted tier.
type TierInfo struct {
	Tier       string  `json:"tier"`
	Outcome    string  `json:"outcome"`
	Reason     string  `json:"reason,omitempty"`
	Error      string  `json:"error,omitempty"`
	DurationMs float64 `json:"durationMs"`
}

// SlotInfo summarizes how one slot was filled.
type SlotInfo struct {
	Slot        string     `json:"slot"`
	Winner      string     `json:"winner,omitempty"`
	Placeholder bool       `json:"placeholder"`
	Error       string     `json:"error,omitempty"`
	Tiers       []TierInfo `json:"tiers"`
}

// InfoResponse is returned by GET /api/info/{path}.
type InfoResponse struct {
	Path        string             `json:"path"`
	Format      *mediatypes.Format `json:"format,omitempty"`
	DecoderArgs []string           `json:"decoderArgs"`
	Image       ImageInfo          `json:"image"`
	Preview     *ImageInfo         `json:"preview,omitempty"`
	Thumbnail   *ImageInfo         `json:"thumbnail,omitempty"`
	Reports     []SlotInfo         `json:"reports"`
}

// Info develops the file with every slot and reports the result as JSON.
func (h *Handlers) Info(w http.ResponseWriter, r *http.Request) {
	path, ok := h.resolvePath(w, r)
	if !ok {
		return
	}

	opts, err := rawconfig.ParseValues(r.URL.Query())
	if err != nil {
		writeJSONError(w, err.Error(), "", http.StatusBadRequest)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	out, err := h.loader.Load(ctx, path, opts, pipeline.AllSlots)
	if err != nil {
		writeLoadError(w, r, err)
		return
	}

	resp := InfoResponse{
		Path:        r.URL.Path,
		DecoderArgs: out.Config.Args(),
		Image:       imageInfo(out.Image),
		Preview:     optionalInfo(out.Preview),
		Thumbnail:   optionalInfo(out.Thumbnail),
	}
	if f, ok := mediatypes.Lookup(path); ok {
		resp.Format = &f
	}
	for _, report := range out.Reports {
		resp.Reports = append(resp.Reports, slotInfo(report))
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, resp)
}

// Options lists the accepted names of every enumerated option.
func (h *Handlers) Options(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, rawconfig.Names())
}

func imageInfo(img pixel.CanonicalImage) ImageInfo {
	lo, hi := img.MinMax()
	return ImageInfo{
		Shape:       img.Shape,
		Min:         lo,
		Max:         hi,
		SourceBits:  img.SourceBits,
		Placeholder: img.IsPlaceholder(),
		Stats:       imagestats.Summarize(img.ToImage()),
	}
}

func optionalInfo(img *pixel.CanonicalImage) *ImageInfo {
	if img == nil {
		return nil
	}
	info := imageInfo(*img)
	return &info
}

func slotInfo(report extract.Report) SlotInfo {
	info := SlotInfo{
		Slot:        report.Slot,
		Winner:      report.Winner,
		Placeholder: report.Placeholder,
		Tiers:       make([]TierInfo, 0, len(report.Tiers)),
	}
	if err := report.Err(); err != nil {
		info.Error = err.Error()
	}
	for _, t := range report.Tiers {
		ti := TierInfo{
			Tier:       t.Tier,
			Outcome:    t.Outcome.String(),
			Reason:     t.Reason,
			DurationMs: float64(t.Duration.Microseconds()) / 1000,
		}
		if t.Err != nil {
			ti.Error = t.Err.Error()
		}
		info.Tiers = append(info.Tiers, ti)
	}
	return info
}
