package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-rod/rod"

	"github.com/crawlio/crawlio/config"
)

// readySelectors is the prioritized probe list for common content containers.
// The first match ends the scan.
var readySelectors = []string{
	"main",
	"article",
	"[role='main']",
	"#content",
	".content",
	".post",
	".article",
	"h1",
	"p",
}

// waitForContent decides when a JavaScript-rendered page has enough content
// to extract. Pages vary wildly in rendering strategy, so the waiter layers
// heuristics and always degrades to "proceed anyway" — it never fails the
// crawl, and callers must tolerate partial content.
//
// Layers, in order:
//
//  1. Probe the content-container selectors; on the first match, pause
//     briefly for the container to fill, then stop scanning.
//  2. Poll until the visible text length crosses a minimum threshold,
//     bounded by a timeout; proceed either way.
//  3. One trailing delay for late asynchronous rendering.
//  4. A best-effort scroll to the page middle to trigger lazy loading.
func waitForContent(ctx context.Context, p *rod.Page, cfg config.WaiterConfig) {
	// ── 1. Selector probing ─────────────────────────────────────────
	for _, sel := range readySelectors {
		if ctx.Err() != nil {
			return
		}
		if _, err := p.Timeout(cfg.SelectorTimeout).Element(sel); err == nil {
			_ = ctxSleep(ctx, cfg.SettleDelay)
			break
		}
	}

	// ── 2. Visible-text-length polling ──────────────────────────────
	deadline := time.Now().Add(cfg.TextPollTimeout)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return
		}
		res, err := p.Eval(`() => document.body ? document.body.innerText.length : 0`)
		if err == nil && res.Value.Int() >= cfg.MinTextLength {
			break
		}
		if sleepErr := ctxSleep(ctx, cfg.TextPollInterval); sleepErr != nil {
			return
		}
	}

	// ── 3. Trailing settle delay ────────────────────────────────────
	if err := ctxSleep(ctx, cfg.FinalDelay); err != nil {
		return
	}

	// ── 4. Scroll to the middle for lazy-loaded content ─────────────
	if _, err := p.Eval(`() => window.scrollTo(0, document.body.scrollHeight / 2)`); err != nil {
		slog.Debug("readiness scroll failed, proceeding", "error", err)
	}
}
