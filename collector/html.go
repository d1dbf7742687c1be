package collector

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	interactiveSelector = "a[href], button, input, select, textarea, [role='button'], [role='link'], [onclick]"
	buttonSelector      = "button, input[type='submit'], input[type='button'], [role='button']"
	inputSelector       = "input, select, textarea"
)

// PageAnalysis holds the structural counts of one HTML document.
type PageAnalysis struct {
	DOMNodeCount     int
	InteractiveCount int
	FormCount        int
	Buttons          int
	Inputs           int
	Links            int
	CanonicalURL     string
}

// AnalyzeHTML parses an HTML document and counts its elements.
func AnalyzeHTML(r io.Reader) (PageAnalysis, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return PageAnalysis{}, fmt.Errorf("failed to parse html: %w", err)
	}

	a := PageAnalysis{
		DOMNodeCount: doc.Find("*").Length(),
		InteractiveCount: doc.Find(interactiveSelector).
			Not("input[type='hidden']").Length(),
		FormCount: doc.Find("form").Length(),
		Buttons:   doc.Find(buttonSelector).Length(),
		Inputs: doc.Find(inputSelector).
			Not("input[type='hidden'], input[type='submit'], input[type='button']").Length(),
		Links: doc.Find("a[href]").Length(),
	}
	if href, ok := doc.Find("link[rel='canonical']").First().Attr("href"); ok {
		a.CanonicalURL = strings.TrimSpace(href)
	}
	return a, nil
}

// UIState converts the analysis into a raw UI state record.
func (a PageAnalysis) UIState(pageID, url string) UIState {
	interactive := a.InteractiveCount
	forms := a.FormCount
	return UIState{
		PageID:           pageID,
		URL:              url,
		DOMNodeCount:     a.DOMNodeCount,
		InteractiveCount: &interactive,
		FormCount:        &forms,
		Buttons:          a.Buttons,
		Inputs:           a.Inputs,
		Links:            a.Links,
	}
}

// HTMLSnapshotCollector analyses saved HTML snapshots, one UI state per file.
type HTMLSnapshotCollector struct {
	target Target
	files  *fileSource
}

// CollectUIStates analyses every matching HTML snapshot.
func (c *HTMLSnapshotCollector) CollectUIStates(ctx context.Context) ([]UIState, error) {
	paths, err := c.files.paths()
	if err != nil {
		return nil, err
	}

	out := make([]UIState, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		state, err := c.analyzeFile(p)
		if err != nil {
			c.files.log.Warn(ctx, "Skipping unreadable snapshot", map[string]interface{}{
				"file":  p,
				"error": err.Error(),
			})
			continue
		}
		out = append(out, state)
	}
	return out, nil
}

func (c *HTMLSnapshotCollector) analyzeFile(path string) (UIState, error) {
	f, err := os.Open(path)
	if err != nil {
		return UIState{}, err
	}
	defer f.Close()

	a, err := AnalyzeHTML(f)
	if err != nil {
		return UIState{}, err
	}

	pageID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	url := a.CanonicalURL
	if url == "" {
		url = snapshotURL(c.target.BaseURL, pageID)
	}
	return a.UIState(pageID, url), nil
}

func snapshotURL(base, pageID string) string {
	base = strings.TrimRight(base, "/")
	if base == "" {
		return ""
	}
	if pageID == "index" {
		return base + "/"
	}
	return base + "/" + pageID
}
