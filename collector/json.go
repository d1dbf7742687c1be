package collector

import (
	"context"
)

// JSONUIStateCollector reads UI states from JSON or JSON lines files.
type JSONUIStateCollector struct {
	files *fileSource
}

// CollectUIStates decodes every matching record into a UIState.
func (c *JSONUIStateCollector) CollectUIStates(ctx context.Context) ([]UIState, error) {
	recs, err := c.files.records(ctx)
	out := make([]UIState, 0, len(recs))
	for _, r := range recs {
		out = append(out, decodeUIState(r))
	}
	return out, err
}

// JSONTestCollector reads parsed test cases from JSON or JSON lines files.
// The configured framework is used for records that do not name one.
type JSONTestCollector struct {
	files     *fileSource
	framework string
}

// CollectTests decodes every matching record into a Test.
func (c *JSONTestCollector) CollectTests(ctx context.Context) ([]Test, error) {
	recs, err := c.files.records(ctx)
	out := make([]Test, 0, len(recs))
	for _, r := range recs {
		t := decodeTest(r)
		if t.Framework == "" {
			t.Framework = c.framework
		}
		out = append(out, t)
	}
	return out, err
}

// JSONLogCollector reads execution logs from JSON or JSON lines files.
type JSONLogCollector struct {
	files *fileSource
}

// CollectLogs decodes every matching record into a Log.
func (c *JSONLogCollector) CollectLogs(ctx context.Context) ([]Log, error) {
	recs, err := c.files.records(ctx)
	out := make([]Log, 0, len(recs))
	for _, r := range recs {
		out = append(out, decodeLog(r))
	}
	return out, err
}

// EpisodeLogCollector reads agent episodes, one per record, and derives
// missing counters from the per-step detail.
type EpisodeLogCollector struct {
	files *fileSource
}

// CollectEpisodes decodes every matching record into an Episode.
func (c *EpisodeLogCollector) CollectEpisodes(ctx context.Context) ([]Episode, error) {
	recs, err := c.files.records(ctx)
	out := make([]Episode, 0, len(recs))
	for _, r := range recs {
		out = append(out, decodeEpisode(r).WithDerivedCounts())
	}
	return out, err
}
