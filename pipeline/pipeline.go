// Package pipeline runs collection, feature extraction, aggregation and
// scoring for each configured application.
package pipeline

import (
	"context"
	"time"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/aggregate"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/collector"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/complexity"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/features"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/logger"
)

// App is one application to evaluate. A nil collector means no data of that kind.
type App struct {
	ID       string
	UI       collector.UIStateCollector
	Tests    collector.TestCollector
	Logs     collector.LogCollector
	Episodes collector.EpisodeCollector
}

// Result bundles everything computed for one application.
type Result struct {
	AppID        string                 `json:"app_id"`
	UIMetrics    []features.UIMetric    `json:"ui_metrics"`
	TestMetrics  []features.TestMetric  `json:"test_metrics"`
	LogMetrics   []features.LogMetric   `json:"log_metrics"`
	AgentMetrics []features.AgentMetric `json:"agent_metrics"`
	AppLevel     aggregate.AppLevel     `json:"app_level"`
	Indices      complexity.Indices     `json:"indices"`
}

// Recorder receives pipeline observations. *metrics.Recorder satisfies it.
type Recorder interface {
	ObserveApp(appID string, took time.Duration, indices map[string]float64)
	CollectorFailed(collector string)
	RecordsCollected(kind string, n int)
}

// Pipeline evaluates applications one at a time.
type Pipeline struct {
	log      logger.Logger
	recorder Recorder
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) {
		p.recorder = r
	}
}

// New creates a Pipeline. A nil logger discards output.
func New(log logger.Logger, opts ...Option) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	p := &Pipeline{log: log}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run evaluates each application in order. It stops early only when ctx is
// cancelled and returns the results computed so far.
func (p *Pipeline) Run(ctx context.Context, apps []App) []Result {
	results := make([]Result, 0, len(apps))
	for _, app := range apps {
		if ctx.Err() != nil {
			p.log.Warn(ctx, "Evaluation cancelled", map[string]interface{}{
				"completed": len(results),
				"remaining": len(apps) - len(results),
			})
			break
		}
		results = append(results, p.Evaluate(ctx, app))
	}
	return results
}

// Evaluate collects, extracts, aggregates and scores a single application.
// Collector failures are logged and treated as empty input.
func (p *Pipeline) Evaluate(ctx context.Context, app App) Result {
	start := time.Now()
	log := p.log.WithField("app_id", app.ID)
	log.Info(ctx, "Evaluating application", nil)

	states := collect(ctx, p, log, "ui_structure", app.UI, func(c collector.UIStateCollector) ([]collector.UIState, error) {
		return c.CollectUIStates(ctx)
	})
	tests := collect(ctx, p, log, "tests", app.Tests, func(c collector.TestCollector) ([]collector.Test, error) {
		return c.CollectTests(ctx)
	})
	logs := collect(ctx, p, log, "logs", app.Logs, func(c collector.LogCollector) ([]collector.Log, error) {
		return c.CollectLogs(ctx)
	})
	episodes := collect(ctx, p, log, "agents", app.Episodes, func(c collector.EpisodeCollector) ([]collector.Episode, error) {
		return c.CollectEpisodes(ctx)
	})

	r := Result{
		AppID:        app.ID,
		UIMetrics:    features.ComputeUIMetrics(app.ID, states),
		TestMetrics:  features.ComputeTestMetrics(app.ID, tests),
		LogMetrics:   features.ComputeLogMetrics(app.ID, logs),
		AgentMetrics: features.ComputeAgentMetrics(app.ID, episodes),
	}
	r.AppLevel = aggregate.AggregatePerApp(app.ID, r.UIMetrics, r.TestMetrics, r.LogMetrics, r.AgentMetrics)
	r.Indices = complexity.ComputeComplexityIndices(r.AppLevel)

	took := time.Since(start)
	if p.recorder != nil {
		p.recorder.ObserveApp(app.ID, took, IndexValues(r.Indices))
	}
	log.Info(ctx, "Application scored", map[string]interface{}{
		"suci":        r.Indices.SUCI,
		"ifci":        r.Indices.IFCI,
		"trci":        r.Indices.TRCI,
		"adi":         r.Indices.ADI,
		"wcs":         r.Indices.WCS,
		"duration_ms": took.Milliseconds(),
	})
	return r
}

// collect invokes one collector, turning a nil collector or an error into
// an empty list.
func collect[C any, R any](ctx context.Context, p *Pipeline, log logger.Logger, kind string, c C, fn func(C) ([]R, error)) []R {
	if isNil(c) {
		return nil
	}
	records, err := fn(c)
	if err != nil {
		log.Warn(ctx, "Collector failed, continuing without its records", map[string]interface{}{
			"collector": kind,
			"error":     err.Error(),
		})
		if p.recorder != nil {
			p.recorder.CollectorFailed(kind)
		}
		return nil
	}
	if p.recorder != nil {
		p.recorder.RecordsCollected(kind, len(records))
	}
	log.Debug(ctx, "Collected records", map[string]interface{}{
		"collector": kind,
		"count":     len(records),
	})
	return records
}

func isNil(c any) bool {
	return c == nil
}

// IndexValues returns the indices keyed by their short names.
func IndexValues(i complexity.Indices) map[string]float64 {
	return map[string]float64{
		"suci": i.SUCI,
		"ifci": i.IFCI,
		"trci": i.TRCI,
		"adi":  i.ADI,
		"wcs":  i.WCS,
	}
}
