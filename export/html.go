package export

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/logger"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/pipeline"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/storage"
)

// ReportFile is the name of the HTML report.
const ReportFile = "complexity_report.html"

// chartHeight is the pixel height of the tallest comparison bar.
const chartHeight = 160

//go:embed templates/report.html.tmpl
var reportTemplate string

// DisplayName turns an application id such as "movies_app" into "Movies App".
func DisplayName(appID string) string {
	// Casers keep state, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(appID, "_", " "))
}

var reportFuncs = template.FuncMap{
	"display": DisplayName,
	"f3":      func(v float64) string { return fmt.Sprintf("%.3f", v) },
	"f1":      func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"f0":      func(v float64) string { return fmt.Sprintf("%.0f", v) },
	"pct": func(v float64) template.CSS {
		return template.CSS(fmt.Sprintf("width: %.1f%%", v*100))
	},
}

var report = template.Must(template.New("report").Funcs(reportFuncs).Parse(reportTemplate))

type chartBar struct {
	AppID  string
	WCS    float64
	Height template.CSS
}

type reportData struct {
	Title       string
	GeneratedAt string
	Results     []pipeline.Result
	Chart       []chartBar
}

// HTMLExporter renders a single self-contained report page.
type HTMLExporter struct {
	store storage.BlobStorage
	log   logger.Logger
	now   func() time.Time
}

// NewHTMLExporter creates an HTMLExporter stamped with the current time.
func NewHTMLExporter(store storage.BlobStorage, log logger.Logger) *HTMLExporter {
	if log == nil {
		log = logger.Nop()
	}
	return &HTMLExporter{store: store, log: log, now: time.Now}
}

// Format returns the format name the exporter handles.
func (e *HTMLExporter) Format() string { return FormatHTML }

// Export renders the HTML report.
func (e *HTMLExporter) Export(ctx context.Context, results []pipeline.Result) error {
	buf := &bytes.Buffer{}
	if err := report.Execute(buf, e.data(results)); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if err := upload(ctx, e.store, e.log, ReportFile, buf); err != nil {
		return err
	}
	e.log.Info(ctx, "HTML report generated", map[string]interface{}{"file": ReportFile})
	return nil
}

func (e *HTMLExporter) data(results []pipeline.Result) reportData {
	var maxWCS float64
	for _, r := range results {
		if r.Indices.WCS > maxWCS {
			maxWCS = r.Indices.WCS
		}
	}
	if maxWCS == 0 {
		maxWCS = 1
	}

	bars := make([]chartBar, 0, len(results))
	for _, r := range results {
		h := int(r.Indices.WCS / maxWCS * chartHeight)
		bars = append(bars, chartBar{
			AppID:  r.AppID,
			WCS:    r.Indices.WCS,
			Height: template.CSS(fmt.Sprintf("height: %dpx", h)),
		})
	}

	return reportData{
		Title:       "Web Complexity Analysis Report",
		GeneratedAt: e.now().Format("2006-01-02 15:04:05"),
		Results:     results,
		Chart:       bars,
	}
}
