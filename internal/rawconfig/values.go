package rawconfig

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// ParseValues builds Options from key/value pairs, starting from
// DefaultOptions. The HTTP bridge passes query parameters and the batch CLI
// passes its -set flags. Keys use the names from Names plus the numeric
// settings below; unknown keys and malformed values are errors. Numeric
// ranges are not checked here, Translate clamps them.
//
//	output_bps               8 or 16
//	user_wb                  r,g1,b,g2
//	half_size, auto_bright   bool
//	bright, exp_ev, exp_preserve_highlights, noise_thr  float
//	gamma                    power,slope
//	chromatic_aberration     red,blue
//	median_filter_passes     int
func ParseValues(values url.Values) (Options, error) {
	opts := DefaultOptions()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		v := values.Get(key)
		if err := setValue(&opts, key, v); err != nil {
			return Options{}, fmt.Errorf("option %s=%q: %w", key, v, err)
		}
	}
	return opts, nil
}

func setValue(opts *Options, key, v string) error {
	var err error
	switch key {
	case "output_bps":
		switch strings.TrimSpace(v) {
		case "8":
			opts.Output16Bit = false
		case "16":
			opts.Output16Bit = true
		default:
			return fmt.Errorf("must be 8 or 16")
		}
	case "white_balance":
		opts.WhiteBalance, err = enumValue(whiteBalanceNames, v)
	case "demosaic_algorithm":
		opts.Demosaic, err = enumValue(demosaicNames, v)
	case "output_colorspace":
		opts.ColorSpace, err = enumValue(colorSpaceNames, v)
	case "highlight_mode":
		opts.Highlight, err = enumValue(highlightNames, v)
	case "fbdd_noise_reduction":
		opts.ImpulseNoise, err = enumValue(impulseNames, v)
	case "orientation":
		if _, ok := lookup(orientationNames, v); !ok {
			if _, ok := orientationAliases[strings.ToLower(strings.TrimSpace(v))]; !ok {
				return fmt.Errorf("unknown value")
			}
		}
		opts.Orientation = v
	case "user_wb":
		var wb []float64
		if wb, err = floatList(v, 4); err == nil {
			copy(opts.CustomWB[:], wb)
		}
	case "half_size":
		opts.HalfSize, err = strconv.ParseBool(v)
	case "auto_bright":
		opts.AutoBright, err = strconv.ParseBool(v)
	case "bright":
		opts.Brightness, err = parseFloat(v)
	case "exp_ev":
		opts.ExposureEV, err = parseFloat(v)
	case "exp_preserve_highlights":
		opts.PreserveHighlights, err = parseFloat(v)
	case "noise_thr":
		opts.NoiseThreshold, err = parseFloat(v)
	case "gamma":
		var g []float64
		if g, err = floatList(v, 2); err == nil {
			opts.GammaPower, opts.GammaSlope = g[0], g[1]
		}
	case "chromatic_aberration":
		var ca []float64
		if ca, err = floatList(v, 2); err == nil {
			opts.CARed, opts.CABlue = ca[0], ca[1]
		}
	case "median_filter_passes":
		opts.MedianPasses, err = strconv.Atoi(strings.TrimSpace(v))
	default:
		return fmt.Errorf("unknown option")
	}
	return err
}

func enumValue(names []string, v string) (string, error) {
	i, ok := lookup(names, v)
	if !ok {
		return "", fmt.Errorf("unknown value, expected one of %s", strings.Join(names, ", "))
	}
	return names[i], nil
}

func parseFloat(v string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(v), 64)
}

func floatList(v string, n int) ([]float64, error) {
	parts := strings.Split(v, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma-separated numbers", n)
	}
	out := make([]float64, n)
	for i, p := range parts {
		f, err := parseFloat(p)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
