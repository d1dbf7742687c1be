package collector

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/logger"
)

// renderFunc returns the rendered outer HTML of a page.
type renderFunc func(ctx context.Context, pageURL string) (string, error)

// BrowserCollector renders live pages in a headless Chrome and analyses the
// resulting DOM.
type BrowserCollector struct {
	target  Target
	paths   []string
	timeout time.Duration
	log     logger.Logger
	render  renderFunc
}

// NewBrowserCollector prepares a collector for the configured page paths.
// Chrome is only started when CollectUIStates runs.
func NewBrowserCollector(t Target, s Source, log logger.Logger) (*BrowserCollector, error) {
	if len(s.URLs) == 0 {
		return nil, ErrMissingURLs
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultPageTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &BrowserCollector{
		target:  t,
		paths:   s.URLs,
		timeout: timeout,
		log:     log,
	}, nil
}

// CollectUIStates renders each configured URL and analyses the resulting DOM.
func (c *BrowserCollector) CollectUIStates(ctx context.Context) ([]UIState, error) {
	render := c.render
	if render == nil {
		opts := append(
			chromedp.DefaultExecAllocatorOptions[:],
			chromedp.WindowSize(1920, 1080),
		)
		allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
		defer cancelAlloc()
		browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
		defer cancelBrowser()
		if err := chromedp.Run(browserCtx); err != nil {
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		render = chromeRenderer(browserCtx)
	}

	out := make([]UIState, 0, len(c.paths))
	for _, p := range c.paths {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		pageURL := resolvePageURL(c.target.BaseURL, p)

		pageCtx, cancel := context.WithTimeout(ctx, c.timeout)
		html, err := render(pageCtx, pageURL)
		cancel()
		if err != nil {
			c.log.Warn(ctx, "Skipping page that failed to render", map[string]interface{}{
				"url":   pageURL,
				"error": err.Error(),
			})
			continue
		}

		a, err := AnalyzeHTML(strings.NewReader(html))
		if err != nil {
			c.log.Warn(ctx, "Skipping page with unparseable html", map[string]interface{}{
				"url":   pageURL,
				"error": err.Error(),
			})
			continue
		}
		out = append(out, a.UIState(pageIDFromPath(p), pageURL))
	}
	return out, nil
}

// chromeRenderer opens one tab per page inside the shared browser context.
func chromeRenderer(browserCtx context.Context) renderFunc {
	return func(ctx context.Context, pageURL string) (string, error) {
		tabCtx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()

		// Bound the tab by the caller's deadline.
		stop := context.AfterFunc(ctx, cancel)
		defer stop()

		var html string
		err := chromedp.Run(tabCtx,
			chromedp.Navigate(pageURL),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		)
		return html, err
	}
}

func resolvePageURL(base, p string) string {
	if u, err := url.Parse(p); err == nil && u.IsAbs() {
		return p
	}
	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return base + p
}

func pageIDFromPath(p string) string {
	if u, err := url.Parse(p); err == nil && u.IsAbs() {
		p = u.Path
	}
	id := strings.ReplaceAll(strings.Trim(p, "/"), "/", "_")
	if id == "" {
		return "home"
	}
	return id
}
