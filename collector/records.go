package collector

// UIState is a raw snapshot of one page or view.
// InteractiveCount and FormCount are nil when the producer did not report
// them; consumers then derive them from the element lists.
type UIState struct {
	PageID              string `json:"page_id"`
	URL                 string `json:"url"`
	DOMNodeCount        int    `json:"dom_node_count"`
	InteractiveElements []any  `json:"interactive_elements,omitempty"`
	Forms               []any  `json:"forms,omitempty"`
	InteractiveCount    *int   `json:"interactive_count,omitempty"`
	FormCount           *int   `json:"form_count,omitempty"`
	Buttons             int    `json:"buttons"`
	Inputs              int    `json:"inputs"`
	Links               int    `json:"links"`
}

// TestStep is one parsed action of a UI test.
type TestStep struct {
	Type     string `json:"type"`
	URL      string `json:"url,omitempty"`
	Selector string `json:"selector,omitempty"`
	Value    string `json:"value,omitempty"`
}

// Test is a raw parsed test case. Count fields are nil when only the step
// list was reported.
type Test struct {
	TestID      string     `json:"test_id"`
	File        string     `json:"file"`
	Framework   string     `json:"framework"`
	Steps       []TestStep `json:"steps,omitempty"`
	StepsCount  *int       `json:"steps_count,omitempty"`
	Clicks      *int       `json:"clicks,omitempty"`
	Fills       *int       `json:"fills,omitempty"`
	Navigations *int       `json:"navigations,omitempty"`
	Assertions  *int       `json:"assertions,omitempty"`
}

// LogStep is the outcome of one executed step.
type LogStep struct {
	Index      int     `json:"step_index"`
	DurationMS float64 `json:"duration_ms"`
	Status     string  `json:"status"`
}

// Log is a raw execution record for one test run.
type Log struct {
	TestID     string    `json:"test_id"`
	Status     string    `json:"status"`
	DurationMS float64   `json:"duration_ms"`
	Steps      []LogStep `json:"steps,omitempty"`
	Retries    int       `json:"retries"`
	Failures   []any     `json:"failures,omitempty"`
}

// EpisodeStep is one action taken by an exploration agent.
type EpisodeStep struct {
	Action   string  `json:"action"`
	Selector string  `json:"selector,omitempty"`
	URL      string  `json:"url,omitempty"`
	Error    string  `json:"error,omitempty"`
	DOMSize  float64 `json:"dom_size,omitempty"`
}

// Episode is a raw agent exploration run.
type Episode struct {
	EpisodeID    string        `json:"episode_id"`
	TaskID       string        `json:"task_id"`
	Success      bool          `json:"success"`
	StepsCount   int           `json:"steps_count"`
	SuccessCount int           `json:"success_count"`
	ErrorCount   int           `json:"error_count"`
	Backtracks   int           `json:"backtracks"`
	UniqueURLs   int           `json:"unique_urls"`
	AvgDOMSize   float64       `json:"avg_dom_size"`
	MaxDOMSize   float64       `json:"max_dom_size"`
	Steps        []EpisodeStep `json:"steps,omitempty"`
}

var backtrackActions = map[string]bool{
	"back":          true,
	"go_back":       true,
	"navigate_back": true,
}

// WithDerivedCounts fills zero-valued counters from the step list.
// Counters the producer reported are left untouched.
func (e Episode) WithDerivedCounts() Episode {
	if len(e.Steps) == 0 {
		return e
	}

	var (
		errs, backs int
		urls        = make(map[string]struct{})
		domTotal    float64
		domSamples  int
		domMax      float64
	)
	for _, s := range e.Steps {
		if s.Error != "" {
			errs++
		}
		if backtrackActions[s.Action] {
			backs++
		}
		if s.URL != "" {
			urls[s.URL] = struct{}{}
		}
		if s.DOMSize > 0 {
			domTotal += s.DOMSize
			domSamples++
			if s.DOMSize > domMax {
				domMax = s.DOMSize
			}
		}
	}

	if e.StepsCount == 0 {
		e.StepsCount = len(e.Steps)
	}
	if e.ErrorCount == 0 {
		e.ErrorCount = errs
	}
	if e.SuccessCount == 0 {
		e.SuccessCount = len(e.Steps) - errs
	}
	if e.Backtracks == 0 {
		e.Backtracks = backs
	}
	if e.UniqueURLs == 0 {
		e.UniqueURLs = len(urls)
	}
	if e.AvgDOMSize == 0 && domSamples > 0 {
		e.AvgDOMSize = domTotal / float64(domSamples)
	}
	if e.MaxDOMSize == 0 {
		e.MaxDOMSize = domMax
	}
	return e
}
