package collector

import (
	"github.com/spf13/cast"
)

// fields is one decoded record before it is mapped onto a typed struct.
// Lookups never fail: an absent or unconvertible value yields the zero value.
type fields map[string]any

func (f fields) has(key string) bool {
	v, ok := f[key]
	return ok && v != nil
}

func (f fields) str(key, def string) string {
	if !f.has(key) {
		return def
	}
	s, err := cast.ToStringE(f[key])
	if err != nil {
		return def
	}
	return s
}

func (f fields) int(key string) int {
	n, _ := cast.ToIntE(f[key])
	return n
}

// intPtr returns nil when the key is absent or holds a value that cannot be
// read as an integer, so callers can fall back to a derived count.
func (f fields) intPtr(key string) *int {
	if !f.has(key) {
		return nil
	}
	n, err := cast.ToIntE(f[key])
	if err != nil {
		return nil
	}
	return &n
}

func (f fields) float(key string) float64 {
	n, _ := cast.ToFloat64E(f[key])
	return n
}

func (f fields) boolean(key string) bool {
	b, _ := cast.ToBoolE(f[key])
	return b
}

func (f fields) list(key string) []any {
	l, ok := f[key].([]any)
	if !ok {
		return nil
	}
	return l
}

// objects returns the map elements of a list, skipping anything else.
func (f fields) objects(key string) []fields {
	var out []fields
	for _, v := range f.list(key) {
		if m, ok := v.(map[string]any); ok {
			out = append(out, fields(m))
		}
	}
	return out
}

func decodeUIState(f fields) UIState {
	return UIState{
		PageID:              f.str("page_id", ""),
		URL:                 f.str("url", ""),
		DOMNodeCount:        f.int("dom_node_count"),
		InteractiveElements: f.list("interactive_elements"),
		Forms:               f.list("forms"),
		InteractiveCount:    f.intPtr("interactive_count"),
		FormCount:           f.intPtr("form_count"),
		Buttons:             f.int("buttons"),
		Inputs:              f.int("inputs"),
		Links:               f.int("links"),
	}
}

func decodeTest(f fields) Test {
	t := Test{
		TestID:      f.str("test_id", ""),
		File:        f.str("file", ""),
		Framework:   f.str("framework", ""),
		StepsCount:  f.intPtr("steps_count"),
		Clicks:      f.intPtr("clicks"),
		Fills:       f.intPtr("fills"),
		Navigations: f.intPtr("navigations"),
		Assertions:  f.intPtr("assertions"),
	}
	for _, s := range f.objects("steps") {
		url := s.str("url", "")
		if url == "" {
			url = s.str("target", "")
		}
		t.Steps = append(t.Steps, TestStep{
			Type:     s.str("type", ""),
			URL:      url,
			Selector: s.str("selector", ""),
			Value:    s.str("value", ""),
		})
	}
	return t
}

func decodeLog(f fields) Log {
	l := Log{
		TestID:     f.str("test_id", ""),
		Status:     f.str("status", ""),
		DurationMS: f.float("duration_ms"),
		Retries:    f.int("retries"),
		Failures:   f.list("failures"),
	}
	for _, s := range f.objects("steps") {
		l.Steps = append(l.Steps, LogStep{
			Index:      s.int("step_index"),
			DurationMS: s.float("duration_ms"),
			Status:     s.str("status", ""),
		})
	}
	return l
}

func decodeEpisode(f fields) Episode {
	e := Episode{
		EpisodeID:    f.str("episode_id", ""),
		TaskID:       f.str("task_id", ""),
		Success:      f.boolean("success"),
		StepsCount:   f.int("steps_count"),
		SuccessCount: f.int("success_count"),
		ErrorCount:   f.int("error_count"),
		Backtracks:   f.int("backtracks"),
		UniqueURLs:   f.int("unique_urls"),
		AvgDOMSize:   f.float("avg_dom_size"),
		MaxDOMSize:   f.float("max_dom_size"),
	}
	for _, s := range f.objects("steps") {
		e.Steps = append(e.Steps, EpisodeStep{
			Action:   s.str("action", ""),
			Selector: s.str("selector", ""),
			URL:      s.str("url", ""),
			Error:    s.str("error", ""),
			DOMSize:  s.float("dom_size"),
		})
	}
	return e
}
