package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/logger"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/pipeline"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/storage"
)

// FullResultsFile holds every result in one document.
const FullResultsFile = "results_full.json"

// JSONExporter writes the full result document plus one file per entity.
type JSONExporter struct {
	store storage.BlobStorage
	log   logger.Logger
}

// Format returns the format name the exporter handles.
func (e *JSONExporter) Format() string { return FormatJSON }

// Export writes one JSON file per entity plus the full results document.
func (e *JSONExporter) Export(ctx context.Context, results []pipeline.Result) error {
	if results == nil {
		results = []pipeline.Result{}
	}
	if err := e.write(ctx, FullResultsFile, results); err != nil {
		return err
	}
	for _, ent := range split(results).entities() {
		if err := e.write(ctx, ent.name+".json", ent.rows); err != nil {
			return err
		}
	}
	e.log.Info(ctx, "JSON export complete", map[string]interface{}{"apps": len(results)})
	return nil
}

func (e *JSONExporter) write(ctx context.Context, name string, v any) error {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return upload(ctx, e.store, e.log, name, buf)
}
