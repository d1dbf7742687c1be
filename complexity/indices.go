// Package complexity scores an application-level summary with four
// sub-indices and a weighted composite, each in [0, 1].
package complexity

import (
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/aggregate"
)

// Hand-tuned heuristics. Keep them exact.
const (
	spaMaxPages    = 3
	spaMinTests    = 5
	spaBoost       = 0.3
	staticMinPages = 5
	staticMaxTests = 2
	staticPenalty  = 0.2
	staticIFCIMult = 0.4

	adiManyTests       = 10
	adiManyTestsBonus  = 0.1
	adiBacktrackBonus  = 0.15
	adiProxyMultiplier = 0.85
)

// Indices is the scored result for one application, rounded to four places.
type Indices struct {
	AppID string  `json:"app_id"`
	SUCI  float64 `json:"suci"`
	IFCI  float64 `json:"ifci"`
	TRCI  float64 `json:"trci"`
	ADI   float64 `json:"adi"`
	WCS   float64 `json:"wcs"`
}

func isStaticSite(a aggregate.AppLevel) bool {
	return a.TotalPages > staticMinPages && a.TotalTests <= staticMaxTests
}

// SUCI is the structural UI complexity: pages, DOM size, interactive
// elements and forms.
func SUCI(a aggregate.AppLevel) float64 {
	pages := float64(a.TotalPages)
	score := weightedPresent(
		component{raw: pages, weight: 0.25, score: Norm(pages, 1, 15)},
		component{raw: a.AvgDOMNodes, weight: 0.25, score: LogNorm(correctDOMSize(a.AvgDOMNodes), 100, 10000)},
		component{raw: a.AvgInteractiveCount, weight: 0.30, score: Norm(a.AvgInteractiveCount, 1, 30)},
		component{raw: a.AvgFormCount, weight: 0.20, score: Norm(a.AvgFormCount, 0, 5)},
	)

	// Few pages with many tests points at a single-page app.
	if a.TotalPages <= spaMaxPages && a.TotalTests > spaMinTests {
		score += spaBoost
	}
	if isStaticSite(a) {
		score -= staticPenalty
	}
	return clip(score)
}

// IFCI is the interaction flow complexity derived from the test suite.
func IFCI(a aggregate.AppLevel) float64 {
	tests := float64(a.TotalTests)
	clicks := float64(a.TotalClicks)
	assertions := float64(a.TotalAssertions)
	score := weightedPresent(
		component{raw: tests, weight: 0.40, score: LogNorm(tests, 1, 200)},
		component{raw: a.AvgTestSteps, weight: 0.20, score: Norm(a.AvgTestSteps, 1, 20)},
		component{raw: clicks, weight: 0.20, score: LogNorm(clicks, 1, 500)},
		component{raw: assertions, weight: 0.20, score: LogNorm(assertions, 1, 1000)},
	)
	if isStaticSite(a) {
		score *= staticIFCIMult
	}
	return clip(score)
}

// TRCI is the runtime complexity: slow runs and flaky failures.
func TRCI(a aggregate.AppLevel) float64 {
	parts := []float64{}
	if a.AvgTestDurationMS > 0 {
		parts = append(parts, Norm(a.AvgTestDurationMS, 500, 30000))
	}
	parts = append(parts, Norm(a.FailureRate, 0, 0.5))

	var total float64
	for _, p := range parts {
		total += p
	}
	return clip(total / float64(len(parts)))
}

// ADI is the agent difficulty index. Without agent episodes it falls back
// to a discounted estimate from the test suite.
func ADI(a aggregate.AppLevel) float64 {
	if a.TotalEpisodes > 0 {
		score := 0.25*Norm(a.AvgAgentStepsToSuccess, 3, 20) +
			0.15*(1-Norm(a.AgentSuccessRate, 0, 1)) +
			0.45*Norm(a.AvgAgentBacktracks, 0, 3) +
			0.15*LogNorm(correctDOMSize(a.AvgAgentDOMSize), 100, 10000)
		if a.TotalTests > adiManyTests {
			score += adiManyTestsBonus
		}
		if a.AvgAgentBacktracks > 0 {
			score += adiBacktrackBonus
		}
		return clip(score)
	}

	var proxies []float64
	if a.TotalTests > 0 {
		proxies = append(proxies, adiProxyMultiplier*LogNorm(float64(a.TotalTests), 1, 200))
	}
	if a.AvgTestSteps > 0 {
		proxies = append(proxies, adiProxyMultiplier*Norm(a.AvgTestSteps, 1, 20))
	}
	if a.TotalClicks > 0 {
		proxies = append(proxies, adiProxyMultiplier*LogNorm(float64(a.TotalClicks), 1, 500))
	}
	if len(proxies) == 0 {
		return 0
	}
	var total float64
	for _, p := range proxies {
		total += p
	}
	return clip(total / float64(len(proxies)))
}

// WCS combines the four sub-indices with weights chosen for the record.
func WCS(a aggregate.AppLevel, suci, ifci, trci, adi float64) float64 {
	w := SelectWeights(a).Normalize()
	return clip(w.SUCI*suci + w.IFCI*ifci + w.TRCI*trci + w.ADI*adi)
}

// ComputeComplexityIndices scores an application. The composite is computed
// from the unrounded sub-indices; all five outputs are then rounded.
func ComputeComplexityIndices(a aggregate.AppLevel) Indices {
	suci := SUCI(a)
	ifci := IFCI(a)
	trci := TRCI(a)
	adi := ADI(a)
	wcs := WCS(a, suci, ifci, trci, adi)

	return Indices{
		AppID: a.AppID,
		SUCI:  Round4(suci),
		IFCI:  Round4(ifci),
		TRCI:  Round4(trci),
		ADI:   Round4(adi),
		WCS:   Round4(wcs),
	}
}
