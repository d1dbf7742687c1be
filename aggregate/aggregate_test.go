package aggregate

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/features"
)

func TestAggregatePerApp_Empty(t *testing.T) {
	got := AggregatePerApp("empty", nil, nil, nil, nil)
	assert.Equal(t, AppLevel{AppID: "empty"}, got)
}

func TestAggregatePerApp_Sample(t *testing.T) {
	ui := []features.UIMetric{
		{PageID: "home", DOMNodeCount: 420, InteractiveCount: 25, FormCount: 2},
		{PageID: "details", DOMNodeCount: 580, InteractiveCount: 30, FormCount: 1},
	}
	tests := []features.TestMetric{
		{TestID: "search", StepsCount: 4, Clicks: 2, Fills: 1, Navigations: 1, UniquePages: 1},
	}
	logs := []features.LogMetric{
		{TestID: "search", Status: features.StatusPassed, DurationMS: 2100},
	}

	got := AggregatePerApp("movies", ui, tests, logs, nil)

	assert.Equal(t, 2, got.TotalPages)
	assert.InDelta(t, 500.0, got.AvgDOMNodes, 1e-9)
	assert.Equal(t, 580.0, got.MaxDOMNodes)
	assert.InDelta(t, 27.5, got.AvgInteractiveCount, 1e-9)
	assert.InDelta(t, 1.5, got.AvgFormCount, 1e-9)
	assert.Equal(t, 1, got.TotalTests)
	assert.InDelta(t, 4.0, got.AvgTestSteps, 1e-9)
	assert.Equal(t, 2, got.TotalClicks)
	assert.Equal(t, 1, got.TotalFills)
	assert.Equal(t, 1, got.TotalNavigations)
	assert.InDelta(t, 2100.0, got.AvgTestDurationMS, 1e-9)
	assert.Equal(t, 0.0, got.FailureRate)
	assert.Equal(t, 1, got.TotalRuns)
	assert.Equal(t, 0, got.TotalEpisodes)
	assert.Equal(t, 0.0, got.AgentSuccessRate)
}

func TestAggregatePerApp_ZeroMeansMissing(t *testing.T) {
	ui := []features.UIMetric{
		{DOMNodeCount: 0, InteractiveCount: 10},
		{DOMNodeCount: 300, InteractiveCount: 0},
	}
	tests := []features.TestMetric{{StepsCount: 0}, {StepsCount: 6}}
	logs := []features.LogMetric{
		{Status: features.StatusFailed, DurationMS: 0},
		{Status: features.StatusPassed, DurationMS: 1000},
		{Status: features.StatusFailed, DurationMS: 3000, Retries: 2},
		{Status: features.StatusPassed, DurationMS: 2000, Retries: 1},
	}

	got := AggregatePerApp("app", ui, tests, logs, nil)

	assert.InDelta(t, 300.0, got.AvgDOMNodes, 1e-9)
	assert.InDelta(t, 5.0, got.AvgInteractiveCount, 1e-9)
	assert.InDelta(t, 6.0, got.AvgTestSteps, 1e-9)
	assert.InDelta(t, 2000.0, got.AvgTestDurationMS, 1e-9)
	assert.InDelta(t, 0.5, got.FailureRate, 1e-9)
	assert.Equal(t, 4, got.TotalRuns)
	assert.Equal(t, 3, got.TotalRetries)
}

func TestAggregatePerApp_Agents(t *testing.T) {
	agents := []features.AgentMetric{
		{Success: true, StepsCount: 8, Backtracks: 1, AvgDOMSize: 1000},
		{Success: false, StepsCount: 0, Backtracks: 0, AvgDOMSize: 0},
		{Success: true, StepsCount: 10, Backtracks: 2, AvgDOMSize: 3000},
	}

	got := AggregatePerApp("app", nil, nil, nil, agents)

	assert.Equal(t, 3, got.TotalEpisodes)
	assert.InDelta(t, 9.0, got.AvgAgentStepsToSuccess, 1e-9)
	assert.InDelta(t, 2.0/3.0, got.AgentSuccessRate, 1e-9)
	assert.InDelta(t, 1.0, got.AvgAgentBacktracks, 1e-9)
	assert.InDelta(t, 2000.0, got.AvgAgentDOMSize, 1e-9)
	assert.Equal(t, 0.0, got.FailureRate)
}

func TestAggregatePerApp_NonFiniteSamples(t *testing.T) {
	logs := []features.LogMetric{
		{TestID: "t1", Status: features.StatusPassed, DurationMS: math.Inf(1)},
		{TestID: "t2", Status: features.StatusPassed, DurationMS: 1000},
	}
	agents := []features.AgentMetric{
		{EpisodeID: "ep", StepsCount: 4, AvgDOMSize: math.NaN()},
	}

	got := AggregatePerApp("app", nil, nil, logs, agents)
	assert.InDelta(t, 1000.0, got.AvgTestDurationMS, 1e-9)
	assert.Equal(t, 0.0, got.AvgAgentDOMSize)
}

func TestAggregatePerApp_MeanDoesNotOverflow(t *testing.T) {
	logs := []features.LogMetric{
		{TestID: "t1", DurationMS: 1e308},
		{TestID: "t2", DurationMS: 1e308},
	}

	got := AggregatePerApp("app", nil, nil, logs, nil)
	assert.False(t, math.IsInf(got.AvgTestDurationMS, 0))
	assert.InEpsilon(t, 1e308, got.AvgTestDurationMS, 1e-9)

	_, err := json.Marshal(got)
	assert.NoError(t, err)
}
