package collector

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/logger"
)

// fileSource resolves a configured path or glob into the files a collector reads.
type fileSource struct {
	pattern string
	log     logger.Logger
}

func newFileSource(t Target, s Source, log logger.Logger) (*fileSource, error) {
	if s.Path == "" {
		return nil, fmt.Errorf("%w: %s source for app %q", ErrMissingPath, s.kind(), t.ID)
	}
	pattern := s.Path
	if !filepath.IsAbs(pattern) && t.RootPath != "" {
		pattern = filepath.Join(t.RootPath, pattern)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &fileSource{pattern: pattern, log: log}, nil
}

// paths returns the matching regular files in lexical order.
func (f *fileSource) paths() ([]string, error) {
	matches, err := filepath.Glob(f.pattern)
	if err != nil {
		return nil, fmt.Errorf("bad path pattern %q: %w", f.pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match %q: %w", f.pattern, os.ErrNotExist)
	}

	var out []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

// records decodes every JSON record found in the matched files. A file may
// hold a JSON array of objects or one object per line.
func (f *fileSource) records(ctx context.Context) ([]fields, error) {
	paths, err := f.paths()
	if err != nil {
		return nil, err
	}

	var out []fields
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return out, fmt.Errorf("failed to read %s: %w", p, err)
		}
		out = append(out, f.decode(ctx, p, data)...)
	}
	return out, nil
}

func (f *fileSource) decode(ctx context.Context, path string, data []byte) []fields {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			f.log.Warn(ctx, "Skipping unreadable record file", map[string]interface{}{
				"file":  path,
				"error": err.Error(),
			})
			return nil
		}
		out := make([]fields, 0, len(raw))
		for i, r := range raw {
			if rec, ok := f.object(ctx, path, i, r); ok {
				out = append(out, rec)
			}
		}
		return out
	}

	var out []fields
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		if rec, ok := f.object(ctx, path, line, text); ok {
			out = append(out, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		f.log.Warn(ctx, "Stopped reading record file early", map[string]interface{}{
			"file":  path,
			"error": err.Error(),
		})
	}
	return out
}

func (f *fileSource) object(ctx context.Context, path string, pos int, raw []byte) (fields, bool) {
	var rec map[string]any
	if err := json.Unmarshal(raw, &rec); err != nil || rec == nil {
		msg := "not a JSON object"
		if err != nil {
			msg = err.Error()
		}
		f.log.Warn(ctx, "Skipping malformed record", map[string]interface{}{
			"file":     path,
			"position": pos,
			"error":    msg,
		})
		return nil, false
	}
	return fields(rec), true
}
