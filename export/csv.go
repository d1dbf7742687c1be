package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/logger"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/pipeline"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/storage"
)

// CSVExporter writes one CSV file per entity with columns in name order.
// Entities without rows produce no file.
type CSVExporter struct {
	store storage.BlobStorage
	log   logger.Logger
}

// Format returns the format name the exporter handles.
func (e *CSVExporter) Format() string { return FormatCSV }

// Export writes one CSV file per non-empty entity.
func (e *CSVExporter) Export(ctx context.Context, results []pipeline.Result) error {
	for _, ent := range split(results).entities() {
		if ent.size == 0 {
			continue
		}
		buf, err := encodeCSV(ent.rows)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", ent.name, err)
		}
		if err := upload(ctx, e.store, e.log, ent.name+".csv", buf); err != nil {
			return err
		}
	}
	e.log.Info(ctx, "CSV export complete", map[string]interface{}{"apps": len(results)})
	return nil
}

// encodeCSV flattens a slice of records through their JSON field names, so
// the CSV header matches the JSON keys.
func encodeCSV(rows any) (*bytes.Buffer, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if len(records) == 0 {
		return buf, nil
	}

	columns := make([]string, 0, len(records[0]))
	for k := range records[0] {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	w := csv.NewWriter(buf)
	if err := w.Write(columns); err != nil {
		return nil, err
	}
	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			row[i] = cell(rec[col])
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf, w.Error()
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}
