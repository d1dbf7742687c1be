// Package export writes evaluation results as CSV, JSON and HTML artifacts
// through a storage backend.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/aggregate"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/complexity"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/features"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/logger"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/pipeline"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/storage"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatHTML = "html"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the supported output formats in their default order.
var Formats = []string{FormatCSV, FormatJSON, FormatHTML}

// Exporter writes a batch of results in one format.
type Exporter interface {
	Format() string
	Export(ctx context.Context, results []pipeline.Result) error
}

// New returns the exporter for format.
func New(format string, store storage.BlobStorage, log logger.Logger) (Exporter, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithField("format", format)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV:
		return &CSVExporter{store: store, log: log}, nil
	case FormatJSON:
		return &JSONExporter{store: store, log: log}, nil
	case FormatHTML:
		return NewHTMLExporter(store, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ValidFormat reports whether format is supported.
func ValidFormat(format string) bool {
	f := strings.ToLower(strings.TrimSpace(format))
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// ExportAll runs one exporter per format in order and stops at the first failure.
func ExportAll(ctx context.Context, formats []string, store storage.BlobStorage, results []pipeline.Result, log logger.Logger) error {
	for _, format := range formats {
		exp, err := New(format, store, log)
		if err != nil {
			return err
		}
		if err := exp.Export(ctx, results); err != nil {
			return fmt.Errorf("%s export failed: %w", exp.Format(), err)
		}
	}
	return nil
}

// entityTables splits a batch of results into per-entity lists. Lists are
// never nil so they encode as empty JSON arrays.
type entityTables struct {
	apps    []aggregate.AppLevel
	ui      []features.UIMetric
	tests   []features.TestMetric
	logs    []features.LogMetric
	agents  []features.AgentMetric
	indices []complexity.Indices
}

func split(results []pipeline.Result) entityTables {
	t := entityTables{
		apps:    make([]aggregate.AppLevel, 0, len(results)),
		ui:      []features.UIMetric{},
		tests:   []features.TestMetric{},
		logs:    []features.LogMetric{},
		agents:  []features.AgentMetric{},
		indices: make([]complexity.Indices, 0, len(results)),
	}
	for _, r := range results {
		t.apps = append(t.apps, r.AppLevel)
		t.ui = append(t.ui, r.UIMetrics...)
		t.tests = append(t.tests, r.TestMetrics...)
		t.logs = append(t.logs, r.LogMetrics...)
		t.agents = append(t.agents, r.AgentMetrics...)
		t.indices = append(t.indices, r.Indices)
	}
	return t
}

// entity is one named output table.
type entity struct {
	name string
	rows any
	size int
}

func (t entityTables) entities() []entity {
	return []entity{
		{"apps_metrics", t.apps, len(t.apps)},
		{"ui_metrics", t.ui, len(t.ui)},
		{"test_metrics", t.tests, len(t.tests)},
		{"log_metrics", t.logs, len(t.logs)},
		{"agent_metrics", t.agents, len(t.agents)},
		{"complexity_indices", t.indices, len(t.indices)},
	}
}

func upload(ctx context.Context, store storage.BlobStorage, log logger.Logger, name string, buf *bytes.Buffer) error {
	size := buf.Len()
	if err := store.Upload(ctx, name, buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	log.Debug(ctx, "Wrote artifact", map[string]interface{}{
		"file":  name,
		"bytes": size,
	})
	return nil
}
