package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/logger"
)

func TestSource_IsNone(t *testing.T) {
	tests := []struct {
		name string
		src  Source
		want bool
	}{
		{"empty type", Source{}, true},
		{"explicit none", Source{Type: "none"}, true},
		{"upper case none", Source{Type: " NONE "}, true},
		{"sample", Source{Type: "sample"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.src.IsNone())
		})
	}
}

func TestFactories_DisabledSource(t *testing.T) {
	target := Target{ID: "app"}

	ui, err := NewUIStateCollector(target, Source{Type: "none"}, nil)
	require.NoError(t, err)
	assert.Nil(t, ui)

	tests, err := NewTestCollector(target, Source{}, nil)
	require.NoError(t, err)
	assert.Nil(t, tests)

	logs, err := NewLogCollector(target, Source{}, nil)
	require.NoError(t, err)
	assert.Nil(t, logs)

	eps, err := NewEpisodeCollector(target, Source{}, nil)
	require.NoError(t, err)
	assert.Nil(t, eps)
}

func TestFactories_Errors(t *testing.T) {
	target := Target{ID: "app"}

	tests := []struct {
		name    string
		build   func() error
		wantErr error
	}{
		{
			name: "unknown ui source",
			build: func() error {
				_, err := NewUIStateCollector(target, Source{Type: "ftp"}, nil)
				return err
			},
			wantErr: ErrUnknownSource,
		},
		{
			name: "junit is not a test source",
			build: func() error {
				_, err := NewTestCollector(target, Source{Type: "junit", Path: "x.xml"}, nil)
				return err
			},
			wantErr: ErrUnknownSource,
		},
		{
			name: "html is not a log source",
			build: func() error {
				_, err := NewLogCollector(target, Source{Type: "html", Path: "x"}, nil)
				return err
			},
			wantErr: ErrUnknownSource,
		},
		{
			name: "json without path",
			build: func() error {
				_, err := NewEpisodeCollector(target, Source{Type: "jsonl"}, nil)
				return err
			},
			wantErr: ErrMissingPath,
		},
		{
			name: "browser without urls",
			build: func() error {
				_, err := NewUIStateCollector(target, Source{Type: "browser"}, nil)
				return err
			},
			wantErr: ErrMissingURLs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestFactories_ScopedLogger(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ui.jsonl", "not json\n")
	log := logger.NewTestLogger()

	c, err := NewUIStateCollector(Target{ID: "shop", RootPath: dir}, Source{Type: "jsonl", Path: "ui.jsonl"}, log)
	require.NoError(t, err)

	states, err := c.CollectUIStates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, states)

	warns := log.EntriesAt("warn")
	require.Len(t, warns, 1)
	assert.Equal(t, "shop", warns[0].Fields["app_id"])
	assert.Equal(t, "ui_structure", warns[0].Fields["collector"])
}

func TestSampleCollector(t *testing.T) {
	ctx := context.Background()
	c := &SampleCollector{target: Target{ID: "movies", BaseURL: "http://localhost:3000/"}}

	states, err := c.CollectUIStates(ctx)
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, "home", states[0].PageID)
	assert.Len(t, states[0].InteractiveElements, 25)
	assert.Len(t, states[0].Forms, 2)
	assert.Equal(t, "http://localhost:3000/details/1", states[1].URL)
	assert.Equal(t, 580, states[1].DOMNodeCount)

	tests, err := c.CollectTests(ctx)
	require.NoError(t, err)
	require.Len(t, tests, 1)
	assert.Equal(t, "playwright", tests[0].Framework)
	assert.Len(t, tests[0].Steps, 4)

	logs, err := c.CollectLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 2100.0, logs[0].DurationMS)
	assert.Empty(t, logs[0].Failures)

	eps, err := c.CollectEpisodes(ctx)
	require.NoError(t, err)
	require.Len(t, eps, 1)
	assert.Equal(t, 5, eps[0].StepsCount)
	assert.Equal(t, 5, eps[0].SuccessCount)
	assert.Equal(t, 1, eps[0].Backtracks)
	assert.True(t, eps[0].Success)
}

func TestSampleCollector_Framework(t *testing.T) {
	c, err := NewTestCollector(Target{ID: "a"}, Source{Type: "sample", Framework: "selenium"}, nil)
	require.NoError(t, err)

	tests, err := c.CollectTests(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "selenium", tests[0].Framework)
}
