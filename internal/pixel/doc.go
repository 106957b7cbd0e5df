// Package pixel holds decoder output buffers and the canonical normalized
// tensor handed to the host.
//
// A PixelBuffer is interleaved R,G,B samples at 8 or 16 bits. Normalize maps
// it into a CanonicalImage with shape (1, H, W, 3) and float32 samples in
// [0, 1], dividing by 255 or 65535 so every sample sits on one of the
// source's discrete levels. Normalize allocates its output exactly once.
//
// Placeholder returns the fixed 1x1 black image used when every preview tier
// comes up empty.
package pixel
