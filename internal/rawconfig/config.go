package rawconfig

import (
	"math"
	"strconv"

	"raw-loader/internal/rawerr"
)

// Documented option bounds. Translate clamps to these instead of rejecting.
const (
	MinBrightness = 0.1
	MaxBrightness = 8.0

	MinExposureEV = -5.0
	MaxExposureEV = 5.0

	MinNoiseThreshold = 0.0
	MaxNoiseThreshold = 100.0

	MinCAScale = 0.8
	MaxCAScale = 1.2

	MinGammaPower = 0.1
	MaxGammaPower = 6.0
	MaxGammaSlope = 20.0

	MaxMedianPasses = 10

	// LibRaw only accepts exposure multipliers in this linear range.
	minLinearExposure = 0.25
	maxLinearExposure = 8.0
)

// Options are the user-facing photographic settings, one field per control.
type Options struct {
	Output16Bit  bool
	WhiteBalance string
	CustomWB     [4]float64 // R, G1, B, G2

	Demosaic    string
	Orientation string
	HalfSize    bool

	AutoBright bool
	Brightness float64
	Highlight  string

	ColorSpace string
	GammaPower float64
	GammaSlope float64

	ExposureEV         float64
	PreserveHighlights float64

	CARed  float64
	CABlue float64

	NoiseThreshold float64
	ImpulseNoise   string
	MedianPasses   int
}

// DefaultOptions returns the settings of an untouched advanced loader.
func DefaultOptions() Options {
	return Options{
		Output16Bit:  true,
		WhiteBalance: "camera",
		CustomWB:     [4]float64{1, 1, 1, 1},
		Demosaic:     "AHD",
		Orientation:  "auto",
		AutoBright:   true,
		Brightness:   1.0,
		Highlight:    "clip",
		ColorSpace:   "sRGB",
		GammaPower:   2.222,
		GammaSlope:   4.5,
		CARed:        1.0,
		CABlue:       1.0,
		ImpulseNoise: "off",
	}
}

// Gamma is a power/toe-slope gamma curve.
type Gamma struct {
	Power float64
	Slope float64
}

// ChromaticAberration holds red/blue channel scale factors. 1.0 is no correction.
type ChromaticAberration struct {
	Red  float64
	Blue float64
}

// DecoderConfig describes exactly how the decoder develops a file. It is a
// comparable value; build it with Translate and never modify it afterwards.
type DecoderConfig struct {
	WhiteBalance WhiteBalance
	// Multipliers is meaningful only when WhiteBalance is WBCustom and is
	// zeroed otherwise.
	Multipliers [4]float64

	Demosaic    Demosaic
	BitDepth    BitDepth
	ColorSpace  ColorSpace
	Gamma       Gamma
	Orientation Orientation
	HalfSize    bool

	AutoBright bool
	Brightness float64

	// ExposureEV is the requested shift in [MinExposureEV, MaxExposureEV] at
	// either depth. Args passes it to the decoder as a linear gain, which
	// dcraw_emu limits to [0.25, 8], so the applied shift is at most -2..+3 EV.
	ExposureEV         float64
	PreserveHighlights float64
	Highlight          Highlight

	ChromaticAberration ChromaticAberration

	NoiseThreshold float64
	ImpulseNoise   ImpulseNoise
	MedianPasses   int
}

// Translate converts options into a DecoderConfig. It never fails.
func Translate(opts Options) DecoderConfig {
	defaults := DefaultOptions()

	cfg := DecoderConfig{
		BitDepth:   Eight,
		AutoBright: opts.AutoBright,
		HalfSize:   opts.HalfSize,
	}
	if opts.Output16Bit {
		cfg.BitDepth = Sixteen
	}

	cfg.WhiteBalance, cfg.Multipliers = resolveWhiteBalance(opts.WhiteBalance, opts.CustomWB)

	if i, ok := lookup(demosaicNames, opts.Demosaic); ok {
		cfg.Demosaic = Demosaic(i)
	}
	if i, ok := lookup(colorSpaceNames, opts.ColorSpace); ok {
		cfg.ColorSpace = ColorSpace(i)
	}
	if i, ok := lookup(highlightNames, opts.Highlight); ok {
		cfg.Highlight = Highlight(i)
	}
	if i, ok := lookup(impulseNames, opts.ImpulseNoise); ok {
		cfg.ImpulseNoise = ImpulseNoise(i)
	}
	cfg.Orientation = parseOrientation(opts.Orientation)

	cfg.Brightness = clamp(opts.Brightness, MinBrightness, MaxBrightness, defaults.Brightness)
	cfg.Gamma = Gamma{
		Power: clamp(opts.GammaPower, MinGammaPower, MaxGammaPower, defaults.GammaPower),
		Slope: clamp(opts.GammaSlope, 0, MaxGammaSlope, defaults.GammaSlope),
	}
	cfg.ChromaticAberration = ChromaticAberration{
		Red:  clamp(opts.CARed, MinCAScale, MaxCAScale, 1.0),
		Blue: clamp(opts.CABlue, MinCAScale, MaxCAScale, 1.0),
	}

	cfg.ExposureEV = clamp(opts.ExposureEV, MinExposureEV, MaxExposureEV, 0)
	cfg.PreserveHighlights = clamp(opts.PreserveHighlights, 0, 1, 0)

	cfg.NoiseThreshold = clamp(opts.NoiseThreshold, MinNoiseThreshold, MaxNoiseThreshold, 0)
	cfg.MedianPasses = opts.MedianPasses
	if cfg.MedianPasses < 0 {
		cfg.MedianPasses = 0
	} else if cfg.MedianPasses > MaxMedianPasses {
		cfg.MedianPasses = MaxMedianPasses
	}

	return cfg
}

// resolveWhiteBalance applies the "explicit multipliers win" rule.
func resolveWhiteBalance(mode string, wb [4]float64) (WhiteBalance, [4]float64) {
	positive := true
	neutral := true
	for _, m := range wb {
		if !(m > 0) || math.IsInf(m, 0) {
			positive = false
		}
		if m != 1.0 {
			neutral = false
		}
	}

	if positive && !neutral {
		return WBCustom, wb
	}

	named := WBCamera
	if i, ok := lookup(whiteBalanceNames, mode); ok {
		named = WhiteBalance(i)
	}
	if named == WBCustom {
		if positive {
			return WBCustom, wb
		}
		return WBCamera, [4]float64{}
	}
	return named, [4]float64{}
}

func clamp(v, lo, hi, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PreservationActive reports whether PreserveHighlights has any effect.
// It is kept in the config regardless, but ignored at zero exposure shift.
func (c DecoderConfig) PreservationActive() bool {
	return c.ExposureEV != 0 && c.PreserveHighlights > 0
}

// HasCustomMultipliers reports whether Multipliers are in use.
func (c DecoderConfig) HasCustomMultipliers() bool {
	return c.WhiteBalance == WBCustom
}

// Validate checks the translator invariants. A non-nil result is an
// rawerr.InvalidConfig and indicates a bug, not bad user input.
func (c DecoderConfig) Validate() error {
	const op = "rawconfig.validate"

	if c.HasCustomMultipliers() {
		for i, m := range c.Multipliers {
			if !(m > 0) {
				return rawerr.Errorf(rawerr.InvalidConfig, op, "", "custom multiplier %d is %v", i, m)
			}
		}
	} else if c.Multipliers != ([4]float64{}) {
		return rawerr.Errorf(rawerr.InvalidConfig, op, "", "multipliers set with white balance %s", c.WhiteBalance)
	}

	if c.BitDepth != Eight && c.BitDepth != Sixteen {
		return rawerr.Errorf(rawerr.InvalidConfig, op, "", "bit depth %d", c.BitDepth)
	}

	checks := []struct {
		name   string
		v      float64
		lo, hi float64
	}{
		{"brightness", c.Brightness, MinBrightness, MaxBrightness},
		{"exposure", c.ExposureEV, MinExposureEV, MaxExposureEV},
		{"highlight preservation", c.PreserveHighlights, 0, 1},
		{"noise threshold", c.NoiseThreshold, MinNoiseThreshold, MaxNoiseThreshold},
		{"gamma power", c.Gamma.Power, MinGammaPower, MaxGammaPower},
		{"gamma slope", c.Gamma.Slope, 0, MaxGammaSlope},
		{"CA red", c.ChromaticAberration.Red, MinCAScale, MaxCAScale},
		{"CA blue", c.ChromaticAberration.Blue, MinCAScale, MaxCAScale},
	}
	for _, chk := range checks {
		if math.IsNaN(chk.v) || chk.v < chk.lo || chk.v > chk.hi {
			return rawerr.Errorf(rawerr.InvalidConfig, op, "", "%s %v outside [%v, %v]", chk.name, chk.v, chk.lo, chk.hi)
		}
	}

	if c.MedianPasses < 0 || c.MedianPasses > MaxMedianPasses {
		return rawerr.Errorf(rawerr.InvalidConfig, op, "", "median passes %d", c.MedianPasses)
	}
	if int(c.Demosaic) >= len(demosaicCodes) || c.Demosaic < 0 ||
		int(c.ColorSpace) >= len(colorSpaceCodes) || c.ColorSpace < 0 ||
		int(c.Highlight) >= len(highlightCodes) || c.Highlight < 0 ||
		int(c.Orientation) >= len(orientationCodes) || c.Orientation < 0 ||
		c.ImpulseNoise < ImpulseOff || c.ImpulseNoise > ImpulseFull {
		return rawerr.Errorf(rawerr.InvalidConfig, op, "", "enum out of range")
	}
	return nil
}

// Args renders the config as dcraw_emu development arguments, excluding
// input/output selection. The order is fixed so equal configs give equal
// argument lists.
func (c DecoderConfig) Args() []string {
	args := make([]string, 0, 32)

	if c.BitDepth == Sixteen {
		args = append(args, "-6")
	}

	switch c.WhiteBalance {
	case WBCamera:
		args = append(args, "-w")
	case WBAuto:
		args = append(args, "-a")
	case WBCustom:
		args = append(args, "-r")
		for _, m := range c.Multipliers {
			args = append(args, ftoa(m))
		}
	case WBDaylight:
		// decoder default
	}

	args = append(args,
		"-q", strconv.Itoa(demosaicCodes[c.Demosaic]),
		"-o", strconv.Itoa(colorSpaceCodes[c.ColorSpace]),
		"-g", ftoa(c.Gamma.Power), ftoa(c.Gamma.Slope),
		"-H", strconv.Itoa(highlightCodes[c.Highlight]),
		"-b", ftoa(c.Brightness),
	)
	if !c.AutoBright {
		args = append(args, "-W")
	}

	if c.ExposureEV != 0 {
		linear := clamp(math.Exp2(c.ExposureEV), minLinearExposure, maxLinearExposure, 1)
		preserve := 0.0
		if c.PreservationActive() {
			preserve = c.PreserveHighlights
		}
		args = append(args, "-aexpo", ftoa(linear), ftoa(preserve))
	}

	if code := orientationCodes[c.Orientation]; code >= 0 {
		args = append(args, "-t", strconv.Itoa(code))
	}
	if ca := c.ChromaticAberration; ca.Red != 1.0 || ca.Blue != 1.0 {
		args = append(args, "-C", ftoa(ca.Red), ftoa(ca.Blue))
	}
	if c.HalfSize {
		args = append(args, "-h")
	}
	if c.NoiseThreshold > 0 {
		args = append(args, "-n", ftoa(c.NoiseThreshold))
	}
	if c.ImpulseNoise != ImpulseOff {
		args = append(args, "-fbdd", strconv.Itoa(int(c.ImpulseNoise)))
	}
	if c.MedianPasses > 0 {
		args = append(args, "-m", strconv.Itoa(c.MedianPasses))
	}

	return args
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
