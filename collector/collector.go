// Package collector defines the raw record contracts consumed by the
// evaluation pipeline and the sources that produce them: record files,
// saved HTML snapshots, live rendered pages, JUnit reports, agent episode
// logs and a built-in sample data set.
package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/logger"
)

var (
	// ErrUnknownSource is returned when a source type is not supported for a collector kind.
	ErrUnknownSource = errors.New("unknown collector source")

	// ErrMissingPath is returned when a file based source has no path configured.
	ErrMissingPath = errors.New("source path is required")

	// ErrMissingURLs is returned when the browser source has no pages to visit.
	ErrMissingURLs = errors.New("browser source requires at least one url")
)

// Source types understood by the collector factories.
const (
	SourceNone    = "none"
	SourceSample  = "sample"
	SourceJSON    = "json"
	SourceJSONL   = "jsonl"
	SourceHTML    = "html"
	SourceBrowser = "browser"
	SourceJUnit   = "junit"
)

// DefaultPageTimeout bounds a single page render in the browser source.
const DefaultPageTimeout = 30 * time.Second

// Target identifies the application a collector gathers records for.
type Target struct {
	ID       string
	RootPath string
	BaseURL  string
}

// Source configures where one kind of record comes from.
type Source struct {
	Type      string        `mapstructure:"source" yaml:"source"`
	Path      string        `mapstructure:"path" yaml:"path,omitempty"`
	URLs      []string      `mapstructure:"urls" yaml:"urls,omitempty"`
	Framework string        `mapstructure:"framework" yaml:"framework,omitempty"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty"`
}

// IsNone reports whether the source is disabled.
func (s Source) IsNone() bool {
	t := strings.TrimSpace(strings.ToLower(s.Type))
	return t == "" || t == SourceNone
}

func (s Source) kind() string {
	return strings.TrimSpace(strings.ToLower(s.Type))
}

// UIStateCollector produces one UIState per discovered page or view.
type UIStateCollector interface {
	CollectUIStates(ctx context.Context) ([]UIState, error)
}

// TestCollector produces one Test per detected test case.
type TestCollector interface {
	CollectTests(ctx context.Context) ([]Test, error)
}

// LogCollector produces one Log per executed test run.
type LogCollector interface {
	CollectLogs(ctx context.Context) ([]Log, error)
}

// EpisodeCollector produces one Episode per autonomous exploration run.
type EpisodeCollector interface {
	CollectEpisodes(ctx context.Context) ([]Episode, error)
}

// NewUIStateCollector returns the UI state collector for the source.
// A disabled source yields a nil collector and no error.
func NewUIStateCollector(t Target, s Source, log logger.Logger) (UIStateCollector, error) {
	if s.IsNone() {
		return nil, nil
	}
	log = scoped(log, t, "ui_structure")

	switch s.kind() {
	case SourceSample:
		return &SampleCollector{target: t}, nil
	case SourceJSON, SourceJSONL:
		fs, err := newFileSource(t, s, log)
		if err != nil {
			return nil, err
		}
		return &JSONUIStateCollector{files: fs}, nil
	case SourceHTML:
		fs, err := newFileSource(t, s, log)
		if err != nil {
			return nil, err
		}
		return &HTMLSnapshotCollector{target: t, files: fs}, nil
	case SourceBrowser:
		bc, err := NewBrowserCollector(t, s, log)
		if err != nil {
			return nil, err
		}
		return bc, nil
	default:
		return nil, fmt.Errorf("%w: %q for ui_structure", ErrUnknownSource, s.Type)
	}
}

// NewTestCollector returns the test collector for the source.
func NewTestCollector(t Target, s Source, log logger.Logger) (TestCollector, error) {
	if s.IsNone() {
		return nil, nil
	}
	log = scoped(log, t, "tests")

	switch s.kind() {
	case SourceSample:
		return &SampleCollector{target: t, framework: s.Framework}, nil
	case SourceJSON, SourceJSONL:
		fs, err := newFileSource(t, s, log)
		if err != nil {
			return nil, err
		}
		return &JSONTestCollector{files: fs, framework: s.Framework}, nil
	default:
		return nil, fmt.Errorf("%w: %q for tests", ErrUnknownSource, s.Type)
	}
}

// NewLogCollector returns the execution log collector for the source.
func NewLogCollector(t Target, s Source, log logger.Logger) (LogCollector, error) {
	if s.IsNone() {
		return nil, nil
	}
	log = scoped(log, t, "logs")

	switch s.kind() {
	case SourceSample:
		return &SampleCollector{target: t}, nil
	case SourceJSON, SourceJSONL:
		fs, err := newFileSource(t, s, log)
		if err != nil {
			return nil, err
		}
		return &JSONLogCollector{files: fs}, nil
	case SourceJUnit:
		fs, err := newFileSource(t, s, log)
		if err != nil {
			return nil, err
		}
		return &JUnitCollector{files: fs}, nil
	default:
		return nil, fmt.Errorf("%w: %q for logs", ErrUnknownSource, s.Type)
	}
}

// NewEpisodeCollector returns the agent episode collector for the source.
func NewEpisodeCollector(t Target, s Source, log logger.Logger) (EpisodeCollector, error) {
	if s.IsNone() {
		return nil, nil
	}
	log = scoped(log, t, "agents")

	switch s.kind() {
	case SourceSample:
		return &SampleCollector{target: t}, nil
	case SourceJSON, SourceJSONL:
		fs, err := newFileSource(t, s, log)
		if err != nil {
			return nil, err
		}
		return &EpisodeLogCollector{files: fs}, nil
	default:
		return nil, fmt.Errorf("%w: %q for agents", ErrUnknownSource, s.Type)
	}
}

func scoped(log logger.Logger, t Target, kind string) logger.Logger {
	if log == nil {
		log = logger.Nop()
	}
	return log.WithFields(map[string]interface{}{
		"app_id":    t.ID,
		"collector": kind,
	})
}
