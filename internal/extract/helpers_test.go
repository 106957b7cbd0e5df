package extract

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"sync/atomic"
	"testing"
	"time"

	"raw-loader/internal/decoder"
	"raw-loader/internal/exiftool"
	"raw-loader/internal/pixel"
	"raw-loader/internal/rawconfig"
)

// stubStrategy returns a fixed result and counts calls.
type stubStrategy struct {
	name   string
	result Result
	calls  atomic.Int32
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Attempt(ctx context.Context, path string) Result {
	s.calls.Add(1)
	return s.result
}

// fakeDecoder implements decoder.Decoder.
type fakeDecoder struct {
	developBuf *pixel.PixelBuffer
	developErr error
	embedded   *decoder.Embedded
	embErr     error

	developCalls  atomic.Int32
	embeddedCalls atomic.Int32
	lastConfig    rawconfig.DecoderConfig
}

func (d *fakeDecoder) Develop(ctx context.Context, path string, cfg rawconfig.DecoderConfig) (*pixel.PixelBuffer, error) {
	d.developCalls.Add(1)
	d.lastConfig = cfg
	return d.developBuf, d.developErr
}

func (d *fakeDecoder) EmbeddedThumbnail(ctx context.Context, path string) (*decoder.Embedded, error) {
	d.embeddedCalls.Add(1)
	return d.embedded, d.embErr
}

// fakeSource implements MetadataSource from a tag map.
type fakeSource struct {
	available bool
	tags      map[exiftool.Tag][]byte
	errs      map[exiftool.Tag]error
	requested []exiftool.Tag
}

func (s *fakeSource) Available() bool { return s.available }

func (s *fakeSource) Extract(ctx context.Context, path string, tag exiftool.Tag) ([]byte, error) {
	s.requested = append(s.requested, tag)
	if err, ok := s.errs[tag]; ok {
		return nil, err
	}
	if data, ok := s.tags[tag]; ok {
		return data, nil
	}
	return nil, exiftool.ErrTagAbsent
}

// recordingObserver implements Observer.
type recordingObserver struct {
	tiers        []string
	placeholders []string
}

func (o *recordingObserver) ObserveTier(slot, tier string, outcome Outcome, d time.Duration) {
	o.tiers = append(o.tiers, slot+"/"+tier+"/"+outcome.String())
}

func (o *recordingObserver) ObservePlaceholder(slot string) {
	o.placeholders = append(o.placeholders, slot)
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("jpeg.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func solidBuffer(w, h int, v uint8) *pixel.PixelBuffer {
	buf := pixel.New8(w, h)
	for i := range buf.Pix8 {
		buf.Pix8[i] = v
	}
	return buf
}
