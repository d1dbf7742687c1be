package complexity

import (
	"math"
)

// domCharThreshold marks DOM sizes that were almost certainly reported as
// HTML character counts rather than node counts.
const (
	domCharThreshold = 100000
	domCharDivisor   = 100
)

func clip(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// Norm maps v linearly from [lo, hi] onto [0, 1], clipping outside values.
// A degenerate range yields 0.
func Norm(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return clip((v - lo) / (hi - lo))
}

// LogNorm is Norm on a log(1+x) scale. Non-positive values yield 0.
func LogNorm(v, lo, hi float64) float64 {
	if v <= 0 || hi <= lo {
		return 0
	}
	return clip((math.Log1p(v) - math.Log1p(lo)) / (math.Log1p(hi) - math.Log1p(lo)))
}

// correctDOMSize rescales sizes that look like character counts.
func correctDOMSize(v float64) float64 {
	if v > domCharThreshold {
		return v / domCharDivisor
	}
	return v
}

// Round4 rounds to four decimal places.
func Round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// component is one input of a weighted sub-index. It only counts when its
// raw value is positive.
type component struct {
	raw    float64
	weight float64
	score  float64
}

// weightedPresent averages the scores of present components, renormalised
// by the weights of the components that were included.
func weightedPresent(cs ...component) float64 {
	var total, weights float64
	for _, c := range cs {
		if c.raw > 0 {
			total += c.weight * c.score
			weights += c.weight
		}
	}
	if weights == 0 {
		return 0
	}
	return total / weights
}
