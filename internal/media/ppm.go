package media

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"raw-loader/internal/pixel"
)

// maxPPMDimension bounds each side; dcraw stores thumbnail sizes as ushort.
const maxPPMDimension = 65535

// decodePPM reads the binary P6 (RGB) and P5 (gray) bitmaps that dcraw
// writes for bitmap thumbnails. Maxval above 255 means 16-bit big-endian
// samples.
func decodePPM(data []byte) (*pixel.PixelBuffer, error) {
	if len(data) < 2 || data[0] != 'P' || (data[1] != '6' && data[1] != '5') {
		return nil, fmt.Errorf("not a binary PPM/PGM")
	}
	gray := data[1] == '5'

	pos := 2
	var fields [3]int
	for i := range fields {
		tok, next, err := ppmToken(data, pos)
		if err != nil {
			return nil, err
		}
		v, err := strconv.Atoi(tok)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("invalid PPM header field %q", tok)
		}
		fields[i] = v
		pos = next
	}
	// exactly one whitespace byte separates the header from the raster
	pos++

	width, height, maxval := fields[0], fields[1], fields[2]
	if maxval > 65535 {
		return nil, fmt.Errorf("invalid PPM maxval %d", maxval)
	}
	if width > maxPPMDimension || height > maxPPMDimension {
		return nil, fmt.Errorf("PPM dimensions %dx%d exceed %d", width, height, maxPPMDimension)
	}

	srcChannels := 3
	if gray {
		srcChannels = 1
	}
	bytesPerSample := 1
	if maxval > 255 {
		bytesPerSample = 2
	}

	sampleBytes := srcChannels * bytesPerSample
	if width > math.MaxInt/height/sampleBytes {
		return nil, fmt.Errorf("PPM dimensions %dx%d overflow", width, height)
	}
	need := width * height * sampleBytes
	if pos > len(data) || len(data)-pos < need {
		return nil, fmt.Errorf("truncated PPM raster: have %d bytes, want %d", len(data)-min(pos, len(data)), need)
	}
	raster := data[pos : pos+need]

	if bytesPerSample == 1 {
		buf := pixel.New8(width, height)
		for i := 0; i < width*height; i++ {
			for ch := 0; ch < pixel.Channels; ch++ {
				v := raster[i*srcChannels+ch%srcChannels]
				buf.Pix8[i*3+ch] = scale8(v, maxval)
			}
		}
		return buf, nil
	}

	buf := pixel.New16(width, height)
	for i := 0; i < width*height; i++ {
		for ch := 0; ch < pixel.Channels; ch++ {
			off := (i*srcChannels + ch%srcChannels) * 2
			v := uint16(raster[off])<<8 | uint16(raster[off+1])
			buf.Pix16[i*3+ch] = scale16(v, maxval)
		}
	}
	return buf, nil
}

// ppmToken returns the next whitespace-delimited header token, skipping
// '#' comments.
func ppmToken(data []byte, pos int) (string, int, error) {
	for pos < len(data) {
		c := data[pos]
		if c == '#' {
			nl := bytes.IndexByte(data[pos:], '\n')
			if nl < 0 {
				return "", 0, fmt.Errorf("unterminated PPM comment")
			}
			pos += nl + 1
			continue
		}
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			pos++
			continue
		}
		break
	}
	start := pos
	for pos < len(data) {
		c := data[pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		pos++
	}
	if start == pos {
		return "", 0, fmt.Errorf("truncated PPM header")
	}
	return string(data[start:pos]), pos, nil
}

func scale8(v uint8, maxval int) uint8 {
	if maxval == 255 {
		return v
	}
	return uint8(min(int(v)*255/maxval, 255))
}

func scale16(v uint16, maxval int) uint16 {
	if maxval == 65535 {
		return v
	}
	return uint16(min(int(v)*65535/maxval, 65535))
}
