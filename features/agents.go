package features

import (
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/collector"
)

// ComputeAgentMetrics copies each episode's counters into an AgentMetric.
func ComputeAgentMetrics(appID string, episodes []collector.Episode) []AgentMetric {
	out := make([]AgentMetric, 0, len(episodes))
	for _, e := range episodes {
		id := e.EpisodeID
		if id == "" {
			id = unknownID
		}
		out = append(out, AgentMetric{
			AppID:        appID,
			EpisodeID:    id,
			TaskID:       e.TaskID,
			Success:      e.Success,
			StepsCount:   nonNeg(e.StepsCount),
			SuccessCount: nonNeg(e.SuccessCount),
			ErrorCount:   nonNeg(e.ErrorCount),
			Backtracks:   nonNeg(e.Backtracks),
			UniqueURLs:   nonNeg(e.UniqueURLs),
			AvgDOMSize:   nonNegF(e.AvgDOMSize),
			MaxDOMSize:   nonNegF(e.MaxDOMSize),
		})
	}
	return out
}
