package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/collector"
)

func intp(n int) *int { return &n }

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw    string
		want   Status
		wantOK bool
	}{
		{"passed", StatusPassed, true},
		{"PASS", StatusPassed, true},
		{"skipped", StatusPassed, true},
		{"failed", StatusFailed, true},
		{" Error ", StatusFailed, true},
		{"timedOut", StatusFailed, true},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseStatus(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusPassed.IsValid())
	assert.True(t, StatusFailed.IsValid())
	assert.False(t, Status("skipped").IsValid())
}

func TestComputeUIMetrics(t *testing.T) {
	states := []collector.UIState{
		{PageID: "home", URL: "/", DOMNodeCount: 420, InteractiveElements: make([]any, 25), Forms: make([]any, 2)},
		{PageID: "cart", DOMNodeCount: -3, InteractiveElements: make([]any, 4), InteractiveCount: intp(9), FormCount: intp(0), Forms: make([]any, 3), Buttons: 2, Inputs: -1, Links: 7},
	}

	got := ComputeUIMetrics("shop", states)
	require.Len(t, got, 2)

	assert.Equal(t, UIMetric{AppID: "shop", PageID: "home", URL: "/", DOMNodeCount: 420, InteractiveCount: 25, FormCount: 2}, got[0])
	assert.Equal(t, 0, got[1].DOMNodeCount)
	assert.Equal(t, 9, got[1].InteractiveCount)
	assert.Equal(t, 0, got[1].FormCount)
	assert.Equal(t, 2, got[1].Buttons)
	assert.Equal(t, 0, got[1].Inputs)
	assert.Equal(t, 7, got[1].Links)
}

func TestComputeTestMetrics(t *testing.T) {
	tests := []struct {
		name  string
		input collector.Test
		want  TestMetric
	}{
		{
			name: "tallied from steps",
			input: collector.Test{
				TestID: "search",
				File:   "tests/test_search.py",
				Steps: []collector.TestStep{
					{Type: "navigate", URL: "http://a.test/"},
					{Type: "click", Selector: "text=Movies"},
					{Type: "fill", Selector: "#q"},
					{Type: "type", Selector: "#q"},
					{Type: "select", Selector: "#genre"},
					{Type: "scroll"},
					{Type: "goto", URL: "http://a.test/list"},
					{Type: "expect_visible"},
					{Type: "assertText"},
					{Type: "goto", URL: "http://a.test/"},
					{Type: "hover"},
				},
			},
			want: TestMetric{
				AppID: "app", TestID: "search", File: "tests/test_search.py", Framework: "playwright",
				StepsCount: 11, Clicks: 1, Fills: 2, Selects: 1, Scrolls: 1, Navigations: 3, Assertions: 2, UniquePages: 2,
			},
		},
		{
			name: "explicit counts win",
			input: collector.Test{
				Framework:  "cypress",
				StepsCount: intp(12),
				Clicks:     intp(5),
				Fills:      intp(-2),
				Steps:      []collector.TestStep{{Type: "click"}},
			},
			want: TestMetric{
				AppID: "app", TestID: "unknown", Framework: "cypress",
				StepsCount: 12, Clicks: 5, Fills: 0,
			},
		},
		{
			name:  "empty test",
			input: collector.Test{TestID: "noop"},
			want:  TestMetric{AppID: "app", TestID: "noop", Framework: "playwright"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTestMetrics("app", []collector.Test{tt.input})
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestComputeLogMetrics(t *testing.T) {
	logs := []collector.Log{
		{
			TestID: "t1", Status: "passed", DurationMS: 2100,
			Steps: []collector.LogStep{{Status: "passed"}, {Status: "passed"}, {Status: "skipped"}},
		},
		{
			TestID: "t2", DurationMS: -5, Retries: -1,
			Steps:    []collector.LogStep{{Status: "passed"}, {Status: "failed"}},
			Failures: []any{"boom", "bang"},
		},
		{TestID: "t3", Status: "ERROR"},
		{TestID: "t4", DurationMS: math.NaN()},
	}

	got := ComputeLogMetrics("app", logs)
	require.Len(t, got, 4)

	assert.Equal(t, LogMetric{AppID: "app", TestID: "t1", Status: StatusPassed, DurationMS: 2100, StepsCount: 3, PassedSteps: 2}, got[0])

	assert.Equal(t, StatusFailed, got[1].Status)
	assert.Equal(t, 0.0, got[1].DurationMS)
	assert.Equal(t, 0, got[1].Retries)
	assert.Equal(t, 1, got[1].FailedSteps)
	assert.Equal(t, 2, got[1].FailureCount)

	assert.Equal(t, StatusFailed, got[2].Status)
	assert.Equal(t, StatusPassed, got[3].Status)
	assert.Equal(t, 0.0, got[3].DurationMS)
}

func TestComputeLogMetrics_InfiniteDuration(t *testing.T) {
	got := ComputeLogMetrics("app", []collector.Log{
		{TestID: "t1", DurationMS: math.Inf(1)},
		{TestID: "t2", DurationMS: math.Inf(-1)},
	})
	require.Len(t, got, 2)
	assert.Equal(t, 0.0, got[0].DurationMS)
	assert.Equal(t, 0.0, got[1].DurationMS)
}

func TestComputeLogMetrics_StepStatusSpellings(t *testing.T) {
	got := ComputeLogMetrics("app", []collector.Log{{
		TestID: "t1",
		Steps: []collector.LogStep{
			{Status: "fail"}, {Status: "Timeout"}, {Status: "pass"}, {Status: "ok"},
			{Status: "pending"}, {Status: ""},
		},
	}})
	require.Len(t, got, 1)
	assert.Equal(t, StatusFailed, got[0].Status)
	assert.Equal(t, 2, got[0].FailedSteps)
	assert.Equal(t, 2, got[0].PassedSteps)
	assert.Equal(t, 6, got[0].StepsCount)
}

func TestComputeAgentMetrics_InfiniteDOMSize(t *testing.T) {
	got := ComputeAgentMetrics("app", []collector.Episode{
		{EpisodeID: "ep", AvgDOMSize: math.Inf(1), MaxDOMSize: math.Inf(1)},
	})
	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].AvgDOMSize)
	assert.Equal(t, 0.0, got[0].MaxDOMSize)
}

func TestComputeAgentMetrics(t *testing.T) {
	eps := []collector.Episode{
		{EpisodeID: "ep_0001", TaskID: "search", Success: true, StepsCount: 5, SuccessCount: 5, Backtracks: 1, AvgDOMSize: 900, MaxDOMSize: 1400},
		{Backtracks: -2, AvgDOMSize: -1},
	}

	got := ComputeAgentMetrics("app", eps)
	require.Len(t, got, 2)
	assert.Equal(t, AgentMetric{
		AppID: "app", EpisodeID: "ep_0001", TaskID: "search", Success: true,
		StepsCount: 5, SuccessCount: 5, Backtracks: 1, AvgDOMSize: 900, MaxDOMSize: 1400,
	}, got[0])
	assert.Equal(t, "unknown", got[1].EpisodeID)
	assert.Equal(t, 0, got[1].Backtracks)
	assert.Equal(t, 0.0, got[1].AvgDOMSize)
}

func TestExtractors_EmptyInput(t *testing.T) {
	assert.Empty(t, ComputeUIMetrics("a", nil))
	assert.Empty(t, ComputeTestMetrics("a", nil))
	assert.Empty(t, ComputeLogMetrics("a", nil))
	assert.Empty(t, ComputeAgentMetrics("a", nil))
}

func TestExtractors_DoNotMutateInput(t *testing.T) {
	in := []collector.Test{{TestID: "", Steps: []collector.TestStep{{Type: "click"}}}}
	_ = ComputeTestMetrics("a", in)
	assert.Equal(t, "", in[0].TestID)
	assert.Equal(t, "", in[0].Framework)
}
