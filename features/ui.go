package features

import (
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/collector"
)

// ComputeUIMetrics produces one UIMetric per UI state, in input order.
func ComputeUIMetrics(appID string, states []collector.UIState) []UIMetric {
	out := make([]UIMetric, 0, len(states))
	for _, s := range states {
		interactive := len(s.InteractiveElements)
		if s.InteractiveCount != nil {
			interactive = *s.InteractiveCount
		}
		forms := len(s.Forms)
		if s.FormCount != nil {
			forms = *s.FormCount
		}

		out = append(out, UIMetric{
			AppID:            appID,
			PageID:           s.PageID,
			URL:              s.URL,
			DOMNodeCount:     nonNeg(s.DOMNodeCount),
			InteractiveCount: nonNeg(interactive),
			FormCount:        nonNeg(forms),
			Buttons:          nonNeg(s.Buttons),
			Inputs:           nonNeg(s.Inputs),
			Links:            nonNeg(s.Links),
		})
	}
	return out
}
