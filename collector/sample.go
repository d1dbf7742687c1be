package collector

import (
	"context"
	"strings"
)

// SampleCollector serves a small built-in data set for demos and smoke tests.
// It satisfies every collector interface.
type SampleCollector struct {
	target    Target
	framework string
}

func placeholders(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func (c *SampleCollector) base() string {
	return strings.TrimRight(c.target.BaseURL, "/")
}

// CollectUIStates returns the demo pages.
func (c *SampleCollector) CollectUIStates(_ context.Context) ([]UIState, error) {
	return []UIState{
		{
			PageID:              "home",
			URL:                 c.target.BaseURL,
			DOMNodeCount:        420,
			InteractiveElements: placeholders(25),
			Forms:               placeholders(2),
		},
		{
			PageID:              "details",
			URL:                 c.base() + "/details/1",
			DOMNodeCount:        580,
			InteractiveElements: placeholders(30),
			Forms:               placeholders(1),
		},
	}, nil
}

// CollectTests returns the demo test cases.
func (c *SampleCollector) CollectTests(_ context.Context) ([]Test, error) {
	framework := c.framework
	if framework == "" {
		framework = "playwright"
	}
	return []Test{
		{
			TestID:    "movies_open_and_search",
			File:      "tests/test_movies_search.py",
			Framework: framework,
			Steps: []TestStep{
				{Type: "navigate", URL: c.target.BaseURL},
				{Type: "click", Selector: "text=Movies"},
				{Type: "fill", Selector: "#search", Value: "Twisters"},
				{Type: "click", Selector: "text=Search"},
			},
		},
	}, nil
}

// CollectLogs returns the demo execution logs.
func (c *SampleCollector) CollectLogs(_ context.Context) ([]Log, error) {
	return []Log{
		{
			TestID:     "movies_open_and_search",
			Status:     "passed",
			DurationMS: 2100,
			Steps: []LogStep{
				{Index: 0, DurationMS: 500, Status: "passed"},
				{Index: 1, DurationMS: 400, Status: "passed"},
				{Index: 2, DurationMS: 700, Status: "passed"},
				{Index: 3, DurationMS: 500, Status: "passed"},
			},
		},
	}, nil
}

// CollectEpisodes returns the demo agent episodes.
func (c *SampleCollector) CollectEpisodes(_ context.Context) ([]Episode, error) {
	ep := Episode{
		EpisodeID:  "ep_0001",
		TaskID:     "search_movie_twisters",
		Success:    true,
		Backtracks: 1,
		Steps: []EpisodeStep{
			{Action: "navigate"},
			{Action: "click", Selector: "text=Movies"},
			{Action: "click", Selector: "#search"},
			{Action: "type", Selector: "#search"},
			{Action: "click", Selector: "text=Search"},
		},
	}
	return []Episode{ep.WithDerivedCounts()}, nil
}
