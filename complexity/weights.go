package complexity

import (
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/aggregate"
)

// Weights are the composite weights of the four sub-indices.
type Weights struct {
	SUCI float64 `json:"suci"`
	IFCI float64 `json:"ifci"`
	TRCI float64 `json:"trci"`
	ADI  float64 `json:"adi"`
}

// BaseWeights apply when no override condition holds.
var BaseWeights = Weights{SUCI: 0.20, IFCI: 0.30, TRCI: 0.10, ADI: 0.40}

const largeSuiteTests = 20

// SelectWeights picks the composite weights for a record. When both
// overrides apply the backtrack override is applied last and wins.
func SelectWeights(a aggregate.AppLevel) Weights {
	w := BaseWeights
	if a.TotalTests > largeSuiteTests {
		w.IFCI = 0.40
		w.ADI = 0.30
	}
	if a.AvgAgentBacktracks > 0 {
		w.ADI = 0.45
		w.IFCI = 0.25
	}
	return w
}

// Sum returns the total of the four weights.
func (w Weights) Sum() float64 {
	return w.SUCI + w.IFCI + w.TRCI + w.ADI
}

// Normalize scales the weights to sum to 1. All-zero weights stay zero.
func (w Weights) Normalize() Weights {
	total := w.Sum()
	if total <= 0 {
		return Weights{}
	}
	return Weights{
		SUCI: w.SUCI / total,
		IFCI: w.IFCI / total,
		TRCI: w.TRCI / total,
		ADI:  w.ADI / total,
	}
}
