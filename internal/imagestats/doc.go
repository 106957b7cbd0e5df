/*
Package imagestats summarizes a rendered image for the info endpoint and the
rawdev batch tool.

A Summary carries per-channel means and clipping fractions taken from an
8-bit RGBA histogram, plus the average color as a hex string and its HSL
lightness. Sixteen-bit images are reduced to 8 bits by the histogram, so the
figures describe what a viewer would see rather than the full source range.
*/
package imagestats
