// Package media decodes the embedded preview images that RAW files carry
// (camera JPEGs, TIFF strips, and dcraw bitmap thumbnails) into
// pixel.PixelBuffer values.
//
// When libvips has been initialized with InitVips, JPEG previews are decoded
// through govips, which handles the multi-megapixel JpgFromRaw renders with
// far less memory. Otherwise, and whenever vips fails, the imaging package
// decodes the bytes with EXIF auto-orientation applied.
package media
