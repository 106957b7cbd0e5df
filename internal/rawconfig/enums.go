package rawconfig

import "strings"

// WhiteBalance selects how channel multipliers are chosen.
type WhiteBalance int

const (
	WBCamera WhiteBalance = iota
	WBAuto
	WBDaylight
	WBCustom
)

var whiteBalanceNames = []string{"camera", "auto", "daylight", "custom"}

func (w WhiteBalance) String() string { return nameOf(whiteBalanceNames, int(w)) }

// Demosaic is the interpolation algorithm used by the decoder.
type Demosaic int

const (
	DemosaicAHD Demosaic = iota
	DemosaicVNG
	DemosaicPPG
	DemosaicDCB
	DemosaicAMAZE
	DemosaicLinear
	DemosaicDHT
	DemosaicAAHD
)

var demosaicNames = []string{"AHD", "VNG", "PPG", "DCB", "AMAZE", "LINEAR", "DHT", "AAHD"}

// LibRaw user_qual codes, indexed by Demosaic.
var demosaicCodes = []int{3, 1, 2, 4, 10, 0, 11, 12}

func (d Demosaic) String() string { return nameOf(demosaicNames, int(d)) }

// BitDepth is the decoder output sample width.
type BitDepth int

const (
	Eight BitDepth = iota
	Sixteen
)

// Bits returns 8 or 16.
func (b BitDepth) Bits() int {
	if b == Sixteen {
		return 16
	}
	return 8
}

func (b BitDepth) String() string {
	if b == Sixteen {
		return "16-bit"
	}
	return "8-bit"
}

// ColorSpace is the output color space of the development.
type ColorSpace int

const (
	ColorSRGB ColorSpace = iota
	ColorAdobe
	ColorProPhoto
	ColorWide
	ColorXYZ
	ColorACES
	ColorRec2020
	ColorDCIP3
	ColorRaw
)

var colorSpaceNames = []string{"sRGB", "Adobe RGB", "ProPhoto", "Wide Gamut", "XYZ", "ACES", "Rec2020", "DCI-P3", "raw"}

// LibRaw output_color codes, indexed by ColorSpace.
var colorSpaceCodes = []int{1, 2, 4, 3, 5, 6, 8, 7, 0}

func (c ColorSpace) String() string { return nameOf(colorSpaceNames, int(c)) }

// Highlight is the clipped-highlight handling mode.
type Highlight int

const (
	HighlightClip Highlight = iota
	HighlightIgnore
	HighlightBlend
	HighlightReconstruct
)

var highlightNames = []string{"clip", "ignore", "blend", "reconstruct"}

// LibRaw highlight codes. Reconstruct uses the default rebuild level 5.
var highlightCodes = []int{0, 1, 2, 5}

func (h Highlight) String() string { return nameOf(highlightNames, int(h)) }

// Orientation overrides the camera orientation. Values other than
// OrientAuto map to the decoder's flip bits (1 horizontal, 2 vertical,
// 4 transpose), giving eight fixed states.
type Orientation int

const (
	OrientAuto Orientation = iota
	OrientNone
	OrientFlipHorizontal
	OrientFlipVertical
	OrientRotate180
	OrientTranspose
	OrientRotate90CCW
	OrientRotate90CW
	OrientTransverse
)

var orientationNames = []string{"auto", "none", "flip horizontal", "flip vertical", "180°", "transpose", "90° CCW", "90° CW", "transverse"}

// flip bits, indexed by Orientation; -1 means use camera metadata.
var orientationCodes = []int{-1, 0, 1, 2, 3, 4, 5, 6, 7}

var orientationAliases = map[string]Orientation{
	"180":    OrientRotate180,
	"90cw":   OrientRotate90CW,
	"90 cw":  OrientRotate90CW,
	"90ccw":  OrientRotate90CCW,
	"90 ccw": OrientRotate90CCW,
}

func (o Orientation) String() string { return nameOf(orientationNames, int(o)) }

// ImpulseNoise is the FBDD impulse noise reduction level.
type ImpulseNoise int

const (
	ImpulseOff ImpulseNoise = iota
	ImpulseLight
	ImpulseFull
)

var impulseNames = []string{"off", "light", "full"}

func (n ImpulseNoise) String() string { return nameOf(impulseNames, int(n)) }

func nameOf(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "unknown"
	}
	return names[i]
}

func lookup(names []string, s string) (int, bool) {
	s = strings.TrimSpace(s)
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return i, true
		}
	}
	return 0, false
}

// Names returns the accepted option names for each enumerated option, in
// declaration order. The HTTP bridge and CLI print these in usage text.
func Names() map[string][]string {
	return map[string][]string{
		"white_balance":        append([]string(nil), whiteBalanceNames...),
		"demosaic_algorithm":   append([]string(nil), demosaicNames...),
		"output_colorspace":    append([]string(nil), colorSpaceNames...),
		"highlight_mode":       append([]string(nil), highlightNames...),
		"orientation":          append([]string(nil), orientationNames...),
		"fbdd_noise_reduction": append([]string(nil), impulseNames...),
	}
}

func parseOrientation(s string) Orientation {
	if i, ok := lookup(orientationNames, s); ok {
		return Orientation(i)
	}
	if o, ok := orientationAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return o
	}
	return OrientAuto
}
