package media

import (
	"bytes"
	"image"
	_ "image/jpeg" // Camera previews
	_ "image/png"

	"raw-loader/internal/logging"
	"raw-loader/internal/pixel"
	"raw-loader/internal/rawerr"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/tiff" // TIFF preview strips
	_ "golang.org/x/image/webp" // WebP previews from some phones
)

// DecodeEmbedded decodes embedded preview bytes into an RGB PixelBuffer.
// format is a hint ("jpeg", "ppm", ...). When maxDimension is positive the
// image is shrunk to fit inside a maxDimension square, keeping aspect ratio.
// Undecodable data is a rawerr.DecodeFailure.
func DecodeEmbedded(data []byte, format string, maxDimension int) (*pixel.PixelBuffer, error) {
	const op = "media.decode_embedded"

	if len(data) == 0 {
		return nil, rawerr.Errorf(rawerr.DecodeFailure, op, "", "empty preview data")
	}

	if format == "ppm" {
		buf, err := decodePPM(data)
		if err != nil {
			return nil, rawerr.New(rawerr.DecodeFailure, op, "", err)
		}
		if maxDimension <= 0 || (buf.Width <= maxDimension && buf.Height <= maxDimension) {
			return buf, nil
		}
		// Shrinking goes through image.Image below
		img, err := bufferToImage(buf)
		if err != nil {
			return nil, rawerr.New(rawerr.DecodeFailure, op, "", err)
		}
		return finish(img, maxDimension, op)
	}

	if format == "jpeg" && IsVipsAvailable() {
		img, err := decodeWithVips(data, maxDimension)
		if err == nil {
			return finish(img, 0, op)
		}
		logging.Debug("vips decode failed, falling back to imaging: %v", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, rawerr.New(rawerr.DecodeFailure, op, "", err)
	}
	return finish(img, maxDimension, op)
}

func finish(img image.Image, maxDimension int, op string) (*pixel.PixelBuffer, error) {
	b := img.Bounds()
	if maxDimension > 0 && (b.Dx() > maxDimension || b.Dy() > maxDimension) {
		logging.Debug("Constraining preview from %dx%d to fit %d", b.Dx(), b.Dy(), maxDimension)
		img = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	}

	buf, err := pixel.FromImage(img, depthOf(img))
	if err != nil {
		return nil, rawerr.New(rawerr.DecodeFailure, op, "", err)
	}
	return buf, nil
}

// depthOf keeps 16-bit sources at 16 bits.
func depthOf(img image.Image) int {
	switch img.(type) {
	case *image.RGBA64, *image.NRGBA64, *image.Gray16:
		return 16
	}
	return 8
}

func bufferToImage(buf *pixel.PixelBuffer) (image.Image, error) {
	img, err := pixel.Normalize(buf)
	if err != nil {
		return nil, err
	}
	return img.ToImage(), nil
}
