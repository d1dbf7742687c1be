package features

import (
	"strings"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/collector"
)

// ComputeLogMetrics produces one LogMetric per execution log.
func ComputeLogMetrics(appID string, logs []collector.Log) []LogMetric {
	out := make([]LogMetric, 0, len(logs))
	for _, l := range logs {
		var passed, failed int
		for _, s := range l.Steps {
			st, ok := ParseStatus(s.Status)
			switch {
			case !ok || skipped(s.Status):
			case st == StatusFailed:
				failed++
			default:
				passed++
			}
		}

		status, ok := ParseStatus(l.Status)
		if !ok {
			status = StatusPassed
			if failed > 0 || len(l.Failures) > 0 {
				status = StatusFailed
			}
		}

		out = append(out, LogMetric{
			AppID:        appID,
			TestID:       l.TestID,
			Status:       status,
			DurationMS:   nonNegF(l.DurationMS),
			StepsCount:   len(l.Steps),
			PassedSteps:  passed,
			FailedSteps:  failed,
			Retries:      nonNeg(l.Retries),
			FailureCount: len(l.Failures),
		})
	}
	return out
}

// skipped reports whether a step status means the step never ran.
func skipped(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "skipped", "skip", "pending":
		return true
	}
	return false
}
