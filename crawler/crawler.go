// Package crawler drives one crawl request end to end: cache check, render,
// readiness wait, extraction, and envelope assembly. It owns the
// cache-then-compute policy and guarantees exactly one envelope per request.
package crawler

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/crawlio/crawlio/cache"
	"github.com/crawlio/crawlio/config"
	"github.com/crawlio/crawlio/extractor"
	"github.com/crawlio/crawlio/models"
	"github.com/crawlio/crawlio/scraper"
)

// Renderer is the page-renderer capability the orchestrator consumes. The
// production implementation is *scraper.Browser; tests substitute fakes.
type Renderer interface {
	Render(ctx context.Context, req *scraper.RenderRequest) (*scraper.Snapshot, error)
}

// Crawler orchestrates single and batched crawl requests against a shared
// renderer. It is safe for concurrent use.
type Crawler struct {
	renderer  Renderer
	extractor *extractor.Extractor
	cache     *cache.Cache
	cfg       config.CrawlerConfig
}

// New creates a Crawler. The cache may be nil, which disables the
// cache-then-compute policy entirely.
func New(renderer Renderer, ex *extractor.Extractor, cc *cache.Cache, cfg config.CrawlerConfig) *Crawler {
	return &Crawler{
		renderer:  renderer,
		extractor: ex,
		cache:     cc,
		cfg:       cfg,
	}
}

// Crawl processes one request through the per-request state machine:
//
//	start → cache-check → (hit: done) | render → wait-ready → snapshot
//	      → extract → (optional screenshot) → cache-write → done
//
// Every outcome, success or failure, is reported through exactly one
// well-formed envelope; errors never escape as Go errors or panics. Nothing
// is retried at this layer — retries are a caller concern.
func (c *Crawler) Crawl(ctx context.Context, rawURL string, reqOpts *models.CrawlOptions) (result *models.CrawlResult) {
	start := time.Now()

	// Extraction faults must degrade to a failure envelope, never crash the
	// process or the sibling requests sharing the browser engine.
	defer func() {
		if r := recover(); r != nil {
			slog.Error("crawl panicked", "url", rawURL, "panic", r)
			result = failEnvelope(rawURL, fmt.Errorf("internal fault: %v", r), start)
		}
	}()

	// The option set is immutable once the crawl starts; defaults are
	// applied to a private copy.
	var opts models.CrawlOptions
	if reqOpts != nil {
		opts = *reqOpts
	}
	opts.Defaults()

	// ── Input validation: fail fast, no resources acquired ──────────
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return failEnvelope(rawURL, models.NewCrawlError(
			models.ErrCodeInvalidInput,
			fmt.Sprintf("invalid URL %q", rawURL),
			err,
		), start)
	}

	// ── Cache check precedes rendering ──────────────────────────────
	key := cache.Key(rawURL, &opts)
	if c.cache != nil {
		if hit, ok := c.cache.Get(key, opts.MaxAge); ok {
			cached := *hit
			cached.Cached = true
			cached.ResponseTime = time.Since(start).Milliseconds()
			return &cached
		}
	}

	// ── Render ──────────────────────────────────────────────────────
	timeout := time.Duration(opts.Timeout) * time.Second
	if timeout > c.cfg.MaxTimeout {
		timeout = c.cfg.MaxTimeout
	}
	renderCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	snap, err := c.renderer.Render(renderCtx, &scraper.RenderRequest{
		URL:                 rawURL,
		Options:             &opts,
		SelectorWaitTimeout: c.cfg.SelectorWaitTimeout,
	})
	if err != nil {
		return failEnvelope(rawURL, err, start)
	}

	// ── Extract ─────────────────────────────────────────────────────
	var data *models.ExtractionResult
	if opts.WantsExtraction() {
		data, err = c.extractor.Extract(snap.HTML, snap.FinalURL, &opts)
		if err != nil {
			return failEnvelope(rawURL, err, start)
		}
	}

	metadata := models.PageMetadata{
		Title:         snap.Title,
		FinalURL:      snap.FinalURL,
		StatusCode:    snap.StatusCode,
		ContentType:   snap.ContentType,
		ContentLength: snap.ContentLength,
		LoadTime:      snap.LoadTime,
	}
	if opts.ExtractMeta {
		extractor.EnrichMetadata(snap.HTML, snap.FinalURL, &metadata)
	}

	result = &models.CrawlResult{
		Success:      true,
		URL:          rawURL,
		Data:         data,
		Metadata:     metadata,
		ResponseTime: time.Since(start).Milliseconds(),
	}
	if len(snap.Screenshot) > 0 {
		result.Screenshot = base64.StdEncoding.EncodeToString(snap.Screenshot)
	}

	// ── Cache write: best-effort, never fails the request ───────────
	if c.cache != nil {
		c.cache.Set(key, result)
	}

	return result
}

// failEnvelope converts any error into the failure envelope for one request.
func failEnvelope(rawURL string, err error, start time.Time) *models.CrawlResult {
	return &models.CrawlResult{
		Success:      false,
		URL:          rawURL,
		Error:        err.Error(),
		ResponseTime: time.Since(start).Milliseconds(),
	}
}
