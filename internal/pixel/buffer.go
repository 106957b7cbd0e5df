package pixel

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Channels is the only channel count the decoder is expected to deliver.
const Channels = 3

// PixelBuffer is raw decoder output before normalization. Exactly one of
// Pix8 or Pix16 is populated, matching Depth.
type PixelBuffer struct {
	Width    int
	Height   int
	Channels int
	Depth    int // 8 or 16

	Pix8  []uint8
	Pix16 []uint16
}

// New8 allocates an 8-bit RGB buffer.
func New8(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width: width, Height: height, Channels: Channels, Depth: 8,
		Pix8: make([]uint8, width*height*Channels),
	}
}

// New16 allocates a 16-bit RGB buffer.
func New16(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width: width, Height: height, Channels: Channels, Depth: 16,
		Pix16: make([]uint16, width*height*Channels),
	}
}

// Len returns the number of samples held by the buffer.
func (b *PixelBuffer) Len() int {
	if b.Depth == 16 {
		return len(b.Pix16)
	}
	return len(b.Pix8)
}

func (b *PixelBuffer) String() string {
	return fmt.Sprintf("%dx%dx%d@%dbit", b.Width, b.Height, b.Channels, b.Depth)
}

// FromImage copies a decoded image into an RGB buffer of the given depth.
// Alpha is dropped. 16-bit RGBA64/NRGBA64 sources are read directly; other
// sources go through imaging.Clone at 8 bits or the RGBA64 color model at 16.
func FromImage(img image.Image, depth int) (*PixelBuffer, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty image %dx%d", w, h)
	}

	switch depth {
	case 8:
		nrgba := imaging.Clone(img)
		buf := New8(w, h)
		for y := 0; y < h; y++ {
			src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
			dst := buf.Pix8[y*w*Channels : (y+1)*w*Channels]
			for x := 0; x < w; x++ {
				dst[x*3] = src[x*4]
				dst[x*3+1] = src[x*4+1]
				dst[x*3+2] = src[x*4+2]
			}
		}
		return buf, nil

	case 16:
		buf := New16(w, h)
		switch src := img.(type) {
		case *image.RGBA64:
			copy16(buf, src.Pix, src.Stride, w, h)
		case *image.NRGBA64:
			copy16(buf, src.Pix, src.Stride, w, h)
		default:
			i := 0
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
					buf.Pix16[i] = c.R
					buf.Pix16[i+1] = c.G
					buf.Pix16[i+2] = c.B
					i += 3
				}
			}
		}
		return buf, nil
	}
	return nil, fmt.Errorf("unsupported depth %d", depth)
}

// copy16 reads big-endian 8-byte RGBA pixels and keeps RGB. Decoder output
// is fully opaque, so premultiplied and straight alpha read the same.
func copy16(buf *PixelBuffer, pix []uint8, stride, w, h int) {
	i := 0
	for y := 0; y < h; y++ {
		row := pix[y*stride : y*stride+w*8]
		for x := 0; x < w; x++ {
			p := row[x*8 : x*8+6]
			buf.Pix16[i] = uint16(p[0])<<8 | uint16(p[1])
			buf.Pix16[i+1] = uint16(p[2])<<8 | uint16(p[3])
			buf.Pix16[i+2] = uint16(p[4])<<8 | uint16(p[5])
			i += 3
		}
	}
}
