// Package aggregate rolls per-entity metric records up into one AppLevel
// record per application.
package aggregate

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/features"
)

// AppLevel is the application-level summary the complexity model scores.
type AppLevel struct {
	AppID string `json:"app_id"`

	TotalPages          int     `json:"total_pages"`
	AvgDOMNodes         float64 `json:"avg_dom_nodes"`
	MaxDOMNodes         float64 `json:"max_dom_nodes"`
	AvgInteractiveCount float64 `json:"avg_interactive_count"`
	AvgFormCount        float64 `json:"avg_form_count"`

	TotalTests       int     `json:"total_tests"`
	AvgTestSteps     float64 `json:"avg_test_steps"`
	TotalClicks      int     `json:"total_clicks"`
	TotalAssertions  int     `json:"total_assertions"`
	TotalFills       int     `json:"total_fills"`
	TotalNavigations int     `json:"total_navigations"`
	AvgUniquePages   float64 `json:"avg_unique_pages"`

	AvgTestDurationMS float64 `json:"avg_test_duration_ms"`
	FailureRate       float64 `json:"failure_rate"`
	TotalRuns         int     `json:"total_runs"`
	TotalRetries      int     `json:"total_retries"`

	TotalEpisodes          int     `json:"total_episodes"`
	AvgAgentStepsToSuccess float64 `json:"avg_agent_steps_to_success"`
	AgentSuccessRate       float64 `json:"agent_success_rate"`
	AvgAgentBacktracks     float64 `json:"avg_agent_backtracks"`
	AvgAgentDOMSize        float64 `json:"avg_agent_dom_size"`
}

// finite drops NaN and infinite samples.
func finite(xs []float64) []float64 {
	out := xs[:0:0]
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out
}

// mean returns 0 for an empty sample. Samples near the float64 limit are
// averaged term by term so the result stays finite.
func mean(xs []float64) float64 {
	xs = finite(xs)
	if len(xs) == 0 {
		return 0
	}
	m := stat.Mean(xs, nil)
	if math.IsInf(m, 0) {
		m = 0
		n := float64(len(xs))
		for _, x := range xs {
			m += x / n
		}
	}
	return m
}

func maxOf(xs []float64) float64 {
	xs = finite(xs)
	if len(xs) == 0 {
		return 0
	}
	return floats.Max(xs)
}

func sum(xs []float64) int {
	return int(floats.Sum(xs))
}

// AggregatePerApp summarises one application's metric records. Averages of
// DOM size, test steps, durations and agent steps skip zero values, which
// stand for a missing measurement. Empty inputs yield zeros.
func AggregatePerApp(
	appID string,
	ui []features.UIMetric,
	tests []features.TestMetric,
	logs []features.LogMetric,
	agents []features.AgentMetric,
) AppLevel {
	var (
		domCounts   []float64
		interactive = make([]float64, 0, len(ui))
		formCounts  = make([]float64, 0, len(ui))
	)
	for _, m := range ui {
		if m.DOMNodeCount > 0 {
			domCounts = append(domCounts, float64(m.DOMNodeCount))
		}
		interactive = append(interactive, float64(m.InteractiveCount))
		formCounts = append(formCounts, float64(m.FormCount))
	}

	var (
		stepCounts  []float64
		clicks      = make([]float64, 0, len(tests))
		assertions  = make([]float64, 0, len(tests))
		fills       = make([]float64, 0, len(tests))
		navigations = make([]float64, 0, len(tests))
		uniquePages = make([]float64, 0, len(tests))
	)
	for _, m := range tests {
		if m.StepsCount > 0 {
			stepCounts = append(stepCounts, float64(m.StepsCount))
		}
		clicks = append(clicks, float64(m.Clicks))
		assertions = append(assertions, float64(m.Assertions))
		fills = append(fills, float64(m.Fills))
		navigations = append(navigations, float64(m.Navigations))
		uniquePages = append(uniquePages, float64(m.UniquePages))
	}

	var (
		durations []float64
		retries   = make([]float64, 0, len(logs))
		failed    int
	)
	for _, m := range logs {
		if m.DurationMS > 0 {
			durations = append(durations, m.DurationMS)
		}
		if m.Status == features.StatusFailed {
			failed++
		}
		retries = append(retries, float64(m.Retries))
	}
	runs := len(logs)
	if runs < 1 {
		runs = 1
	}

	var (
		agentSteps []float64
		backtracks = make([]float64, 0, len(agents))
		domSizes   []float64
		successes  int
	)
	for _, m := range agents {
		if m.StepsCount > 0 {
			agentSteps = append(agentSteps, float64(m.StepsCount))
		}
		if m.Success {
			successes++
		}
		backtracks = append(backtracks, float64(m.Backtracks))
		if m.AvgDOMSize > 0 {
			domSizes = append(domSizes, m.AvgDOMSize)
		}
	}
	var successRate float64
	if len(agents) > 0 {
		successRate = float64(successes) / float64(len(agents))
	}

	return AppLevel{
		AppID: appID,

		TotalPages:          len(ui),
		AvgDOMNodes:         mean(domCounts),
		MaxDOMNodes:         maxOf(domCounts),
		AvgInteractiveCount: mean(interactive),
		AvgFormCount:        mean(formCounts),

		TotalTests:       len(tests),
		AvgTestSteps:     mean(stepCounts),
		TotalClicks:      sum(clicks),
		TotalAssertions:  sum(assertions),
		TotalFills:       sum(fills),
		TotalNavigations: sum(navigations),
		AvgUniquePages:   mean(uniquePages),

		AvgTestDurationMS: mean(durations),
		FailureRate:       float64(failed) / float64(runs),
		TotalRuns:         len(logs),
		TotalRetries:      sum(retries),

		TotalEpisodes:          len(agents),
		AvgAgentStepsToSuccess: mean(agentSteps),
		AgentSuccessRate:       successRate,
		AvgAgentBacktracks:     mean(backtracks),
		AvgAgentDOMSize:        mean(domSizes),
	}
}
