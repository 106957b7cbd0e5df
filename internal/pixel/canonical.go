package pixel

import (
	"image"
	"math"

	"raw-loader/internal/rawerr"
)

// PlaceholderSize is the edge length of the placeholder image.
const PlaceholderSize = 1

// CanonicalImage is the normalized (batch=1, height, width, channels=3)
// tensor returned to the host. Data is row-major in that axis order.
type CanonicalImage struct {
	Shape      [4]int
	Data       []float32
	SourceBits int
}

// Height returns axis 1 of the shape.
func (c CanonicalImage) Height() int { return c.Shape[1] }

// Width returns axis 2 of the shape.
func (c CanonicalImage) Width() int { return c.Shape[2] }

// At returns the sample at row y, column x, channel ch.
func (c CanonicalImage) At(y, x, ch int) float32 {
	return c.Data[(y*c.Shape[2]+x)*c.Shape[3]+ch]
}

// MinMax returns the smallest and largest sample. An empty image gives 0, 0.
func (c CanonicalImage) MinMax() (lo, hi float32) {
	if len(c.Data) == 0 {
		return 0, 0
	}
	lo, hi = c.Data[0], c.Data[0]
	for _, v := range c.Data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Normalize converts a PixelBuffer into a CanonicalImage, dividing by the
// maximum value of its bit depth. A channel count other than 3, a depth
// other than 8 or 16, or a sample count that disagrees with the dimensions
// is a DecodeFailure.
func Normalize(buf *PixelBuffer) (CanonicalImage, error) {
	const op = "pixel.normalize"

	if buf == nil {
		return CanonicalImage{}, rawerr.Errorf(rawerr.DecodeFailure, op, "", "nil buffer")
	}
	if buf.Channels != Channels {
		return CanonicalImage{}, rawerr.Errorf(rawerr.DecodeFailure, op, "", "channel count %d, want %d", buf.Channels, Channels)
	}
	if buf.Width <= 0 || buf.Height <= 0 {
		return CanonicalImage{}, rawerr.Errorf(rawerr.DecodeFailure, op, "", "invalid dimensions %dx%d", buf.Width, buf.Height)
	}
	if buf.Width > math.MaxInt/buf.Height/Channels {
		return CanonicalImage{}, rawerr.Errorf(rawerr.DecodeFailure, op, "", "dimensions %dx%d overflow", buf.Width, buf.Height)
	}
	n := buf.Width * buf.Height * Channels

	out := CanonicalImage{
		Shape:      [4]int{1, buf.Height, buf.Width, Channels},
		SourceBits: buf.Depth,
	}

	switch buf.Depth {
	case 8:
		if len(buf.Pix8) != n {
			return CanonicalImage{}, rawerr.Errorf(rawerr.DecodeFailure, op, "", "have %d samples, want %d", len(buf.Pix8), n)
		}
		out.Data = make([]float32, n)
		for i, v := range buf.Pix8 {
			out.Data[i] = float32(v) / 255
		}
	case 16:
		if len(buf.Pix16) != n {
			return CanonicalImage{}, rawerr.Errorf(rawerr.DecodeFailure, op, "", "have %d samples, want %d", len(buf.Pix16), n)
		}
		out.Data = make([]float32, n)
		for i, v := range buf.Pix16 {
			out.Data[i] = float32(v) / 65535
		}
	default:
		return CanonicalImage{}, rawerr.Errorf(rawerr.DecodeFailure, op, "", "bit depth %d", buf.Depth)
	}

	return out, nil
}

// Placeholder returns a fresh 1x1 black image.
func Placeholder() CanonicalImage {
	return CanonicalImage{
		Shape:      [4]int{1, PlaceholderSize, PlaceholderSize, Channels},
		Data:       make([]float32, PlaceholderSize*PlaceholderSize*Channels),
		SourceBits: 8,
	}
}

// IsPlaceholder reports whether c has the placeholder's shape and is all zero.
func (c CanonicalImage) IsPlaceholder() bool {
	if c.Shape != [4]int{1, PlaceholderSize, PlaceholderSize, Channels} {
		return false
	}
	for _, v := range c.Data {
		if v != 0 {
			return false
		}
	}
	return true
}

// ToImage renders the tensor back into an image for encoding. 16-bit sources
// become *image.NRGBA64, everything else *image.NRGBA.
func (c CanonicalImage) ToImage() image.Image {
	w, h := c.Width(), c.Height()
	rect := image.Rect(0, 0, w, h)

	if c.SourceBits == 16 {
		img := image.NewNRGBA64(rect)
		for i := 0; i < w*h; i++ {
			p := img.Pix[i*8 : i*8+8]
			for ch := 0; ch < Channels; ch++ {
				v := quantize(c.Data[i*Channels+ch], 65535)
				p[ch*2] = uint8(v >> 8)
				p[ch*2+1] = uint8(v)
			}
			p[6], p[7] = 0xff, 0xff
		}
		return img
	}

	img := image.NewNRGBA(rect)
	for i := 0; i < w*h; i++ {
		p := img.Pix[i*4 : i*4+4]
		for ch := 0; ch < Channels; ch++ {
			p[ch] = uint8(quantize(c.Data[i*Channels+ch], 255))
		}
		p[3] = 0xff
	}
	return img
}

func quantize(v float32, max float32) uint32 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return uint32(max)
	}
	return uint32(v*max + 0.5)
}
