package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/crawlio/crawlio/models"
)

// Snapshot captures the rendered page exactly once per request, after the
// readiness wait: final HTML, resolved URL, HTTP status, response headers,
// and the wall-clock load time.
type Snapshot struct {
	HTML          string
	Title         string
	FinalURL      string
	StatusCode    int
	Headers       map[string]string
	ContentType   string
	ContentLength int
	LoadTime      int64 // milliseconds
	Screenshot    []byte
}

// RenderRequest carries everything a render session needs for one page.
type RenderRequest struct {
	URL                 string
	Options             *models.CrawlOptions
	SelectorWaitTimeout time.Duration
}

// Render navigates an isolated session to the requested URL and captures a
// Snapshot.
//
// Lifecycle:
//
//  1. Open render context    – fresh incognito browser context + page
//  2. DEFER: teardown        – close page + dispose context on EVERY exit path
//  3. Stealth injection      – before navigation, or it has no effect
//  4. Session setup          – user agent, viewport, extra headers
//  5. Hijack mount           – optional resource/ad blocking (before navigation)
//  6. Context binding        – propagate the request deadline to all Rod calls
//  7. Response listener      – registered before Navigate to catch the document
//  8. Navigate + waitUntil   – load / domcontentloaded / networkidle policy
//  9. Status gate            – non-2xx/3xx responses fail the request
//  10. Extra waits           – waitFor delay, waitForSelector, readiness waiter
//  11. Capture               – HTML, title, final URL, optional screenshot
//
// The deferred teardown uses the original page reference (without the request
// context) so cleanup succeeds even after the deadline has expired.
func (b *Browser) Render(ctx context.Context, req *RenderRequest) (*Snapshot, error) {
	opts := req.Options

	// ── 1. Open render context ──────────────────────────────────────
	b.activeSessions.Add(1)
	defer b.activeSessions.Add(-1)

	incognito, err := b.browser.Incognito()
	if err != nil {
		return nil, models.NewCrawlError(
			models.ErrCodeBrowserCrash,
			"failed to create browser context",
			err,
		)
	}
	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = proto.TargetDisposeBrowserContext{
			BrowserContextID: incognito.BrowserContextID,
		}.Call(b.browser)
		return nil, models.NewCrawlError(
			models.ErrCodeBrowserCrash,
			"failed to create page",
			err,
		)
	}

	// ── 2. CRITICAL DEFER: release the render context on every exit ──
	defer func() {
		if closeErr := page.Close(); closeErr != nil {
			slog.Warn("session teardown: page close failed", "error", closeErr)
		}
		_ = proto.TargetDisposeBrowserContext{
			BrowserContextID: incognito.BrowserContextID,
		}.Call(b.browser)
	}()

	// ── 3. Stealth injection ────────────────────────────────────────
	if opts.Browser.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	// ── 4. Session setup: user agent, viewport, headers ─────────────
	ua := opts.UserAgent
	if ua == "" {
		ua = b.browserCfg.UserAgent
	}
	if ua != "" {
		if uaErr := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua}); uaErr != nil {
			slog.Warn("failed to set user agent", "error", uaErr)
		}
	}

	if vpErr := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             b.browserCfg.ViewportWidth,
		Height:            b.browserCfg.ViewportHeight,
		DeviceScaleFactor: 1,
	}); vpErr != nil {
		slog.Warn("failed to set viewport", "error", vpErr)
	}

	if len(opts.Headers) > 0 {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(opts.Headers),
		}.Call(page)
	}

	// ── 5. Optional resource/ad blocking ────────────────────────────
	router := setupHijack(page, opts.Browser.BlockResources, opts.Browser.BlockAds)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	// ── 6. Bind request context to page ─────────────────────────────
	p := page.Context(ctx)

	// ── 7. Document response listener (before Navigate) ─────────────
	doc := &docResponse{}
	waitDoc := p.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		doc.capture(e)
		return true
	})
	go waitDoc()

	// networkidle needs its listener registered before navigation too,
	// otherwise in-flight requests are missed and the wait returns
	// instantly (false idle).
	var waitIdle func()
	if opts.WaitUntil == models.WaitUntilNetworkIdle {
		waitIdle = p.WaitRequestIdle(300*time.Millisecond, nil, nil, nil)
	}

	// ── 8. Navigate + waitUntil policy ──────────────────────────────
	navStart := time.Now()
	if navErr := p.Navigate(req.URL); navErr != nil {
		return nil, categorizeError(navErr, "navigation to target URL failed")
	}

	switch {
	case waitIdle != nil:
		waitIdle()
	case opts.WaitUntil == models.WaitUntilLoad:
		if loadErr := p.WaitLoad(); loadErr != nil {
			return nil, categorizeError(loadErr, "waiting for load event failed")
		}
	default: // domcontentloaded
		if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
			slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
				"error", stableErr,
			)
		}
	}

	// ── 9. Status gate ──────────────────────────────────────────────
	status, headers, mime := doc.values()
	if status == 0 {
		// Listener missed the document (e.g. cached navigation); fall back
		// to the Performance API, which needs no CDP event subscription.
		status = evalStatusCode(p)
	}
	if status >= 400 {
		return nil, models.NewCrawlError(
			models.ErrCodeNavigation,
			fmt.Sprintf("page responded with HTTP %d %s", status, http.StatusText(status)),
			nil,
		)
	}

	// ── 10. Extra waits ─────────────────────────────────────────────
	if opts.WaitFor > 0 {
		if sleepErr := ctxSleep(ctx, time.Duration(opts.WaitFor)*time.Millisecond); sleepErr != nil {
			return nil, categorizeError(sleepErr, "waitFor delay interrupted")
		}
	}
	if opts.WaitForSelector != "" {
		selTimeout := req.SelectorWaitTimeout
		if selTimeout <= 0 {
			selTimeout = 10 * time.Second
		}
		if _, selErr := p.Timeout(selTimeout).Element(opts.WaitForSelector); selErr != nil {
			return nil, categorizeError(selErr,
				fmt.Sprintf("waiting for selector %q failed", opts.WaitForSelector))
		}
	}

	waitForContent(ctx, p, b.waiterCfg)

	// ── 11. Capture ─────────────────────────────────────────────────
	rawHTML, htmlErr := p.HTML()
	if htmlErr != nil {
		return nil, categorizeError(htmlErr, "failed to extract page HTML")
	}
	loadTime := time.Since(navStart).Milliseconds()

	title := evalStringOrEmpty(p, `() => document.title`)
	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = req.URL
	}

	var shot []byte
	if opts.Screenshot != models.ScreenshotOff {
		var shotErr error
		shot, shotErr = p.Screenshot(opts.Screenshot == models.ScreenshotFullPage, nil)
		if shotErr != nil {
			slog.Warn("screenshot capture failed", "url", req.URL, "error", shotErr)
		}
	}

	return &Snapshot{
		HTML:          rawHTML,
		Title:         title,
		FinalURL:      finalURL,
		StatusCode:    status,
		Headers:       headers,
		ContentType:   mime,
		ContentLength: len(rawHTML),
		LoadTime:      loadTime,
		Screenshot:    shot,
	}, nil
}

// docResponse accumulates the main document's network response. The CDP event
// arrives on a different goroutine than the navigation wait, hence the mutex.
type docResponse struct {
	mu      sync.Mutex
	status  int
	headers map[string]string
	mime    string
}

func (d *docResponse) capture(e *proto.NetworkResponseReceived) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = e.Response.Status
	d.mime = e.Response.MIMEType
	d.headers = make(map[string]string, len(e.Response.Headers))
	for k, v := range e.Response.Headers {
		d.headers[k] = v.Str()
	}
}

func (d *docResponse) values() (int, map[string]string, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status, d.headers, d.mime
}

// evalStatusCode reads the HTTP status via the Performance API.
func evalStatusCode(p *rod.Page) int {
	res, err := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch(e) {}
		return 0;
	}`)
	if err != nil {
		return 0
	}
	return res.Value.Int()
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors (useful for optional metadata extraction).
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// ctxSleep sleeps for d or until ctx is done, whichever comes first.
func ctxSleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// categorizeError wraps raw errors into typed CrawlErrors so callers can map
// them to appropriate failure envelopes and HTTP status codes.
func categorizeError(err error, msg string) *models.CrawlError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewCrawlError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewCrawlError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewCrawlError(models.ErrCodeNavigation, msg, err)
	}
}
