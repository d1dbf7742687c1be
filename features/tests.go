package features

import (
	"strings"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/collector"
)

const (
	defaultFramework = "playwright"
	unknownID        = "unknown"
)

type stepTally struct {
	clicks, fills, selects, scrolls, navigations, assertions int
}

func tallySteps(steps []collector.TestStep) (stepTally, int) {
	var t stepTally
	pages := make(map[string]struct{})
	for _, s := range steps {
		kind := strings.ToLower(strings.TrimSpace(s.Type))
		switch {
		case kind == "click":
			t.clicks++
		case kind == "fill" || kind == "type":
			t.fills++
		case kind == "select":
			t.selects++
		case kind == "scroll":
			t.scrolls++
		case kind == "navigate" || kind == "goto":
			t.navigations++
		case strings.HasPrefix(kind, "assert") || strings.HasPrefix(kind, "expect"):
			t.assertions++
		}
		if s.URL != "" {
			pages[s.URL] = struct{}{}
		}
	}
	return t, len(pages)
}

func countOr(explicit *int, derived int) int {
	if explicit != nil {
		return nonNeg(*explicit)
	}
	return derived
}

// ComputeTestMetrics produces one TestMetric per test case. Reported counts
// win over counts tallied from the step list.
func ComputeTestMetrics(appID string, tests []collector.Test) []TestMetric {
	out := make([]TestMetric, 0, len(tests))
	for _, t := range tests {
		tally, pages := tallySteps(t.Steps)

		id := t.TestID
		if id == "" {
			id = unknownID
		}
		framework := t.Framework
		if framework == "" {
			framework = defaultFramework
		}

		out = append(out, TestMetric{
			AppID:       appID,
			TestID:      id,
			File:        t.File,
			Framework:   framework,
			StepsCount:  countOr(t.StepsCount, len(t.Steps)),
			Clicks:      countOr(t.Clicks, tally.clicks),
			Fills:       countOr(t.Fills, tally.fills),
			Selects:     tally.selects,
			Scrolls:     tally.scrolls,
			Navigations: countOr(t.Navigations, tally.navigations),
			Assertions:  countOr(t.Assertions, tally.assertions),
			UniquePages: pages,
		})
	}
	return out
}
