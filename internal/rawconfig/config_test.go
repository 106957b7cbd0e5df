package rawconfig

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"raw-loader/internal/rawerr"
)

func TestTranslateDefaults(t *testing.T) {
	cfg := Translate(DefaultOptions())

	if cfg.BitDepth != Sixteen {
		t.Errorf("BitDepth = %v, want 16-bit", cfg.BitDepth)
	}
	if cfg.WhiteBalance != WBCamera {
		t.Errorf("WhiteBalance = %v, want camera", cfg.WhiteBalance)
	}
	if cfg.Multipliers != ([4]float64{}) {
		t.Errorf("Multipliers = %v, want zero for camera mode", cfg.Multipliers)
	}
	if cfg.Demosaic != DemosaicAHD || cfg.ColorSpace != ColorSRGB || cfg.Highlight != HighlightClip {
		t.Errorf("unexpected enum defaults: %v %v %v", cfg.Demosaic, cfg.ColorSpace, cfg.Highlight)
	}
	if cfg.Orientation != OrientAuto {
		t.Errorf("Orientation = %v, want auto", cfg.Orientation)
	}
	if cfg.ChromaticAberration != (ChromaticAberration{Red: 1, Blue: 1}) {
		t.Errorf("ChromaticAberration = %+v", cfg.ChromaticAberration)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults: %v", err)
	}
}

func TestTranslateDeterministic(t *testing.T) {
	opts := DefaultOptions()
	opts.WhiteBalance = "daylight"
	opts.CustomWB = [4]float64{2.1, 1, 1.4, 1}
	opts.ExposureEV = 1.5
	opts.PreserveHighlights = 0.4
	opts.NoiseThreshold = 250
	opts.Demosaic = "dcb"
	opts.Orientation = "90° CW"

	first := Translate(opts)
	for i := 0; i < 50; i++ {
		got := Translate(opts)
		if got != first {
			t.Fatalf("iteration %d: Translate not deterministic: %+v != %+v", i, got, first)
		}
		if !reflect.DeepEqual(got.Args(), first.Args()) {
			t.Fatalf("iteration %d: Args not deterministic", i)
		}
	}
}

func TestTranslateClampsOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		check  func(DecoderConfig) (float64, float64)
	}{
		{
			name:   "EV shift above bound",
			mutate: func(o *Options) { o.ExposureEV = 10.0 },
			check:  func(c DecoderConfig) (float64, float64) { return c.ExposureEV, 5.0 },
		},
		{
			name:   "EV shift below bound",
			mutate: func(o *Options) { o.ExposureEV = -12.0 },
			check:  func(c DecoderConfig) (float64, float64) { return c.ExposureEV, -5.0 },
		},
		{
			name:   "brightness below bound",
			mutate: func(o *Options) { o.Brightness = 0 },
			check:  func(c DecoderConfig) (float64, float64) { return c.Brightness, 0.1 },
		},
		{
			name:   "brightness above bound",
			mutate: func(o *Options) { o.Brightness = 42 },
			check:  func(c DecoderConfig) (float64, float64) { return c.Brightness, 8.0 },
		},
		{
			name:   "noise threshold above bound",
			mutate: func(o *Options) { o.NoiseThreshold = 1000 },
			check:  func(c DecoderConfig) (float64, float64) { return c.NoiseThreshold, 100.0 },
		},
		{
			name:   "noise threshold negative",
			mutate: func(o *Options) { o.NoiseThreshold = -3 },
			check:  func(c DecoderConfig) (float64, float64) { return c.NoiseThreshold, 0 },
		},
		{
			name:   "NaN brightness uses default",
			mutate: func(o *Options) { o.Brightness = math.NaN() },
			check:  func(c DecoderConfig) (float64, float64) { return c.Brightness, 1.0 },
		},
		{
			name:   "infinite EV clamps",
			mutate: func(o *Options) { o.ExposureEV = math.Inf(1) },
			check:  func(c DecoderConfig) (float64, float64) { return c.ExposureEV, 5.0 },
		},
		{
			name:   "CA scale clamps",
			mutate: func(o *Options) { o.CARed = 3 },
			check:  func(c DecoderConfig) (float64, float64) { return c.ChromaticAberration.Red, 1.2 },
		},
		{
			name:   "median passes clamp",
			mutate: func(o *Options) { o.MedianPasses = 99 },
			check:  func(c DecoderConfig) (float64, float64) { return float64(c.MedianPasses), 10 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			cfg := Translate(opts)
			got, want := tt.check(cfg)
			if got != want {
				t.Errorf("got %v, want %v", got, want)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("clamped config failed validation: %v", err)
			}
		})
	}
}

func TestExposureBoundsIgnoreBitDepth(t *testing.T) {
	tests := []struct {
		ev      float64
		sixteen bool
		want    float64
	}{
		{10, false, 5},
		{10, true, 5},
		{-10, false, -5},
		{-4, false, -4},
		{4, true, 4},
	}

	for _, tt := range tests {
		opts := DefaultOptions()
		opts.Output16Bit = tt.sixteen
		opts.ExposureEV = tt.ev
		cfg := Translate(opts)
		if cfg.ExposureEV != tt.want {
			t.Errorf("Translate(ev=%v, 16-bit=%v).ExposureEV = %v, want %v", tt.ev, tt.sixteen, cfg.ExposureEV, tt.want)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	}

	if got := Translate(Options{ExposureEV: 10}).ExposureEV; got != MaxExposureEV {
		t.Errorf("zero Options with ev 10 = %v, want %v", got, MaxExposureEV)
	}
}

func TestCustomMultipliersWinOverNamedMode(t *testing.T) {
	wb := [4]float64{2.0, 1.0, 1.5, 1.0}
	for _, mode := range []string{"camera", "auto", "daylight", "custom", "bogus", ""} {
		t.Run(mode, func(t *testing.T) {
			opts := DefaultOptions()
			opts.WhiteBalance = mode
			opts.CustomWB = wb

			cfg := Translate(opts)
			if cfg.WhiteBalance != WBCustom {
				t.Errorf("WhiteBalance = %v, want custom", cfg.WhiteBalance)
			}
			if cfg.Multipliers != wb {
				t.Errorf("Multipliers = %v, want %v", cfg.Multipliers, wb)
			}
			if !cfg.HasCustomMultipliers() {
				t.Error("HasCustomMultipliers() = false")
			}
		})
	}
}

func TestWhiteBalanceModes(t *testing.T) {
	tests := []struct {
		name string
		mode string
		wb   [4]float64
		want WhiteBalance
		mult [4]float64
	}{
		{"camera", "camera", [4]float64{1, 1, 1, 1}, WBCamera, [4]float64{}},
		{"auto", "AUTO", [4]float64{1, 1, 1, 1}, WBAuto, [4]float64{}},
		{"daylight", "daylight", [4]float64{1, 1, 1, 1}, WBDaylight, [4]float64{}},
		{"custom neutral", "custom", [4]float64{1, 1, 1, 1}, WBCustom, [4]float64{1, 1, 1, 1}},
		{"custom with zero multiplier", "custom", [4]float64{2, 0, 1, 1}, WBCamera, [4]float64{}},
		{"named mode ignores non-positive set", "auto", [4]float64{2, -1, 1, 1}, WBAuto, [4]float64{}},
		{"unknown name", "tungsten", [4]float64{1, 1, 1, 1}, WBCamera, [4]float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.WhiteBalance = tt.mode
			opts.CustomWB = tt.wb
			cfg := Translate(opts)
			if cfg.WhiteBalance != tt.want {
				t.Errorf("WhiteBalance = %v, want %v", cfg.WhiteBalance, tt.want)
			}
			if cfg.Multipliers != tt.mult {
				t.Errorf("Multipliers = %v, want %v", cfg.Multipliers, tt.mult)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate(): %v", err)
			}
		})
	}
}

func TestHighlightPreservationIgnoredAtZeroShift(t *testing.T) {
	opts := DefaultOptions()
	opts.ExposureEV = 0
	opts.PreserveHighlights = 0.8

	cfg := Translate(opts)
	if cfg.PreserveHighlights != 0.8 {
		t.Errorf("PreserveHighlights = %v, want preserved 0.8", cfg.PreserveHighlights)
	}
	if cfg.PreservationActive() {
		t.Error("PreservationActive() = true at zero exposure shift")
	}
	for _, a := range cfg.Args() {
		if a == "-aexpo" {
			t.Error("Args() contains -aexpo at zero exposure shift")
		}
	}

	opts.ExposureEV = 1
	cfg = Translate(opts)
	if !cfg.PreservationActive() {
		t.Error("PreservationActive() = false with non-zero shift")
	}
	if !strings.Contains(strings.Join(cfg.Args(), " "), "-aexpo 2 0.8") {
		t.Errorf("Args() = %v, want -aexpo 2 0.8", cfg.Args())
	}
}

func TestEnumLookups(t *testing.T) {
	opts := DefaultOptions()
	opts.Demosaic = "amaze"
	opts.ColorSpace = "prophoto"
	opts.Highlight = "Reconstruct"
	opts.ImpulseNoise = "full"
	opts.Orientation = "90cw"

	cfg := Translate(opts)
	if cfg.Demosaic != DemosaicAMAZE {
		t.Errorf("Demosaic = %v", cfg.Demosaic)
	}
	if cfg.ColorSpace != ColorProPhoto {
		t.Errorf("ColorSpace = %v", cfg.ColorSpace)
	}
	if cfg.Highlight != HighlightReconstruct {
		t.Errorf("Highlight = %v", cfg.Highlight)
	}
	if cfg.ImpulseNoise != ImpulseFull {
		t.Errorf("ImpulseNoise = %v", cfg.ImpulseNoise)
	}
	if cfg.Orientation != OrientRotate90CW {
		t.Errorf("Orientation = %v", cfg.Orientation)
	}

	opts.Demosaic = "nope"
	opts.ColorSpace = ""
	if cfg := Translate(opts); cfg.Demosaic != DemosaicAHD || cfg.ColorSpace != ColorSRGB {
		t.Errorf("unknown names should fall back to defaults, got %v %v", cfg.Demosaic, cfg.ColorSpace)
	}
}

func TestOrientationStatesAreDistinct(t *testing.T) {
	seen := map[int]Orientation{}
	for o := OrientNone; o <= OrientTransverse; o++ {
		code := orientationCodes[o]
		if prev, dup := seen[code]; dup {
			t.Errorf("%v and %v share flip code %d", prev, o, code)
		}
		seen[code] = o
	}
	if len(seen) != 8 {
		t.Errorf("got %d fixed orientation states, want 8", len(seen))
	}
}

func TestArgs(t *testing.T) {
	opts := DefaultOptions()
	opts.CustomWB = [4]float64{2, 1, 1.5, 1}
	opts.AutoBright = false
	opts.Brightness = 1.25
	opts.Orientation = "180°"
	opts.CARed = 0.999
	opts.HalfSize = true
	opts.NoiseThreshold = 50
	opts.ImpulseNoise = "light"
	opts.MedianPasses = 3

	got := strings.Join(Translate(opts).Args(), " ")
	want := "-6 -r 2 1 1.5 1 -q 3 -o 1 -g 2.222 4.5 -H 0 -b 1.25 -W -t 3 -C 0.999 1 -h -n 50 -fbdd 1 -m 3"
	if got != want {
		t.Errorf("Args() =\n  %s\nwant\n  %s", got, want)
	}

	eight := DefaultOptions()
	eight.Output16Bit = false
	eight.WhiteBalance = "daylight"
	got = strings.Join(Translate(eight).Args(), " ")
	if strings.Contains(got, "-6") || strings.Contains(got, "-w") {
		t.Errorf("8-bit daylight Args() = %s", got)
	}
}

func TestArgsClampLinearExposure(t *testing.T) {
	opts := DefaultOptions()
	opts.ExposureEV = -5
	got := strings.Join(Translate(opts).Args(), " ")
	if !strings.Contains(got, "-aexpo 0.25 0") {
		t.Errorf("Args() = %s, want linear exposure clamped to 0.25", got)
	}
}

func TestValidateRejectsBrokenInvariants(t *testing.T) {
	valid := Translate(DefaultOptions())

	tests := []struct {
		name   string
		mutate func(*DecoderConfig)
	}{
		{"custom with zero multiplier", func(c *DecoderConfig) {
			c.WhiteBalance = WBCustom
			c.Multipliers = [4]float64{1, 0, 1, 1}
		}},
		{"multipliers without custom mode", func(c *DecoderConfig) { c.Multipliers = [4]float64{2, 1, 1, 1} }},
		{"brightness out of range", func(c *DecoderConfig) { c.Brightness = 9 }},
		{"exposure out of range", func(c *DecoderConfig) { c.ExposureEV = 6 }},
		{"bad bit depth", func(c *DecoderConfig) { c.BitDepth = BitDepth(7) }},
		{"negative median passes", func(c *DecoderConfig) { c.MedianPasses = -1 }},
		{"enum out of range", func(c *DecoderConfig) { c.Demosaic = Demosaic(99) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !rawerr.Is(err, rawerr.InvalidConfig) {
				t.Errorf("Validate() = %v, want InvalidConfig", err)
			}
		})
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if got := names["white_balance"]; len(got) != 4 {
		t.Errorf("white_balance names = %v", got)
	}
	names["white_balance"][0] = "mutated"
	if whiteBalanceNames[0] != "camera" {
		t.Error("Names() must return copies")
	}
}
