package handlers

import (
	"bytes"
	"image/png"
	"net/http"
	"strconv"

	"raw-loader/internal/extract"
	"raw-loader/internal/logging"
	"raw-loader/internal/pipeline"
	"raw-loader/internal/pixel"
	"raw-loader/internal/rawconfig"

	"github.com/disintegration/imaging"
)

// Develop returns the fully developed image as PNG.
func (h *Handlers) Develop(w http.ResponseWriter, r *http.Request) {
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

	out, err := h.loader.Load(ctx, path, opts, pipeline.Slots{})
	if err != nil {
		writeLoadError(w, r, err)
		return
	}

	w.Header().Set("X-Raw-Tier", extract.TierFullDevelopment)
	writePNG(w, r, out.Image)
}

// Preview returns the embedded preview as PNG, or the placeholder.
func (h *Handlers) Preview(w http.ResponseWriter, r *http.Request) {
	h.serveSlot(w, r, extract.SlotPreview)
}

// Thumbnail returns the embedded thumbnail as PNG, or the placeholder.
func (h *Handlers) Thumbnail(w http.ResponseWriter, r *http.Request) {
	h.serveSlot(w, r, extract.SlotThumbnail)
}

func (h *Handlers) serveSlot(w http.ResponseWriter, r *http.Request, slot string) {
	path, ok := h.resolvePath(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	img, report := h.loader.Extract(ctx, path, slot)
	if err := report.Err(); err != nil {
		logging.Debug("Serving placeholder %s for %s: %v", slot, r.URL.Path, err)
		w.Header().Set("X-Raw-Placeholder", "true")
	} else {
		w.Header().Set("X-Raw-Tier", report.Winner)
		// Embedded images never change for a given file.
		w.Header().Set("Cache-Control", "public, max-age=86400")
	}
	writePNG(w, r, img)
}

func writePNG(w http.ResponseWriter, r *http.Request, img pixel.CanonicalImage) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img.ToImage(), imaging.PNG, imaging.PNGCompressionLevel(png.BestSpeed)); err != nil {
		logging.Error("PNG encoding failed for %s: %v", r.URL.Path, err)
		writeJSONError(w, "failed to encode image", "", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Raw-Bits", strconv.Itoa(max(img.SourceBits, 8)))
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Debug("Writing image for %s: %v", r.URL.Path, err)
	}
}
