package imagestats

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/histogram"
	"github.com/lucasb-eyer/go-colorful"
)

// Channel holds the figures for one color channel, on a 0..255 scale.
type Channel struct {
	Mean        float64 `json:"mean"`
	Clipped     float64 `json:"clipped"`
	Crushed     float64 `json:"crushed"`
	PeakBin     int     `json:"peakBin"`
	OccupiedBin int     `json:"occupiedBins"`
}

// Summary describes the tonal distribution of an image.
type Summary struct {
	Pixels    int     `json:"pixels"`
	Red       Channel `json:"red"`
	Green     Channel `json:"green"`
	Blue      Channel `json:"blue"`
	Average   string  `json:"average"`
	Lightness float64 `json:"lightness"`
}

// Summarize computes a Summary for img. An empty image yields the zero value.
func Summarize(img image.Image) Summary {
	b := img.Bounds()
	total := b.Dx() * b.Dy()
	if total <= 0 {
		return Summary{}
	}

	hist := histogram.NewRGBAHistogram(img)
	s := Summary{
		Pixels: total,
		Red:    channel(hist.R, total),
		Green:  channel(hist.G, total),
		Blue:   channel(hist.B, total),
	}

	avg := colorful.Color{R: s.Red.Mean / 255, G: s.Green.Mean / 255, B: s.Blue.Mean / 255}.Clamped()
	s.Average = avg.Hex()
	_, _, l := avg.Hsl()
	s.Lightness = round(l, 4)
	return s
}

func channel(h histogram.Histogram, total int) Channel {
	var sum float64
	var occupied, peak int
	for i, n := range h.Bins {
		sum += float64(i) * float64(n)
		if n > 0 {
			occupied++
		}
		if n > h.Bins[peak] {
			peak = i
		}
	}

	last := len(h.Bins) - 1
	return Channel{
		Mean:        round(sum/float64(total), 2),
		Clipped:     round(float64(h.Bins[last])/float64(total), 4),
		Crushed:     round(float64(h.Bins[0])/float64(total), 4),
		PeakBin:     peak,
		OccupiedBin: occupied,
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
