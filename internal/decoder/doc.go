// Package decoder drives the native RAW decoder as a subprocess.
//
// Development runs LibRaw's dcraw_emu with the arguments rendered from a
// rawconfig.DecoderConfig and asks for a TIFF on stdout, which is decoded with
// golang.org/x/image/tiff into a pixel.PixelBuffer. The embedded thumbnail
// accessor runs `dcraw -c -e`, which writes the camera's own JPEG or bitmap
// preview without developing the sensor data.
//
// Each call starts and waits for its own process, so a Decoder can be shared
// between goroutines. Failures are classified into rawerr kinds from the
// process exit status and stderr.
package decoder
