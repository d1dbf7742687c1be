// Package features turns raw collector records into per-entity metric
// records. Every extractor is pure: it never fails, never mutates its input
// and clamps negative or non-finite values to zero.
package features

import (
	"math"
	"strings"
)

// Status is the normalised outcome of one test run.
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

// IsValid reports whether the status is a known value.
func (s Status) IsValid() bool {
	return s == StatusPassed || s == StatusFailed
}

// ParseStatus maps the many spellings test runners use onto passed or failed.
// An empty status is resolved by the caller from step and failure data.
func ParseStatus(raw string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", false
	case "failed", "fail", "failure", "error", "errored", "timedout", "timeout", "broken":
		return StatusFailed, true
	default:
		return StatusPassed, true
	}
}

// UIMetric describes one page or view.
type UIMetric struct {
	AppID            string `json:"app_id"`
	PageID           string `json:"page_id"`
	URL              string `json:"url"`
	DOMNodeCount     int    `json:"dom_node_count"`
	InteractiveCount int    `json:"interactive_count"`
	FormCount        int    `json:"form_count"`
	Buttons          int    `json:"buttons"`
	Inputs           int    `json:"inputs"`
	Links            int    `json:"links"`
}

// TestMetric describes one test case.
type TestMetric struct {
	AppID       string `json:"app_id"`
	TestID      string `json:"test_id"`
	File        string `json:"file"`
	Framework   string `json:"framework"`
	StepsCount  int    `json:"steps_count"`
	Clicks      int    `json:"clicks"`
	Fills       int    `json:"fills"`
	Selects     int    `json:"selects"`
	Scrolls     int    `json:"scrolls"`
	Navigations int    `json:"navigations"`
	Assertions  int    `json:"assertions"`
	UniquePages int    `json:"unique_pages"`
}

// LogMetric describes one executed test run.
type LogMetric struct {
	AppID        string  `json:"app_id"`
	TestID       string  `json:"test_id"`
	Status       Status  `json:"status"`
	DurationMS   float64 `json:"duration_ms"`
	StepsCount   int     `json:"steps_count"`
	PassedSteps  int     `json:"passed_steps"`
	FailedSteps  int     `json:"failed_steps"`
	Retries      int     `json:"retries"`
	FailureCount int     `json:"failure_count"`
}

// AgentMetric describes one autonomous exploration episode.
type AgentMetric struct {
	AppID        string  `json:"app_id"`
	EpisodeID    string  `json:"episode_id"`
	TaskID       string  `json:"task_id"`
	Success      bool    `json:"success"`
	StepsCount   int     `json:"steps_count"`
	SuccessCount int     `json:"success_count"`
	ErrorCount   int     `json:"error_count"`
	Backtracks   int     `json:"backtracks"`
	UniqueURLs   int     `json:"unique_urls"`
	AvgDOMSize   float64 `json:"avg_dom_size"`
	MaxDOMSize   float64 `json:"max_dom_size"`
}

func nonNeg(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// nonNegF maps negative, NaN and infinite values to 0.
func nonNegF(f float64) float64 {
	if math.IsInf(f, 0) || !(f >= 0) {
		return 0
	}
	return f
}
