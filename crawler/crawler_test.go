package crawler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/crawlio/crawlio/cache"
	"github.com/crawlio/crawlio/config"
	"github.com/crawlio/crawlio/extractor"
	"github.com/crawlio/crawlio/models"
	"github.com/crawlio/crawlio/scraper"
)

const testPage = `<html><head><title>Test</title></head><body>
	<main><h1>Heading</h1><p>Paragraph text for the extractor.</p></main>
</body></html>`

// fakeRenderer serves canned snapshots (or errors) and counts calls.
type fakeRenderer struct {
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	delay    time.Duration

	failURLs map[string]bool
}

func (f *fakeRenderer) Render(ctx context.Context, req *scraper.RenderRequest) (*scraper.Snapshot, error) {
	f.calls.Add(1)

	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	if f.failURLs[req.URL] {
		return nil, models.NewCrawlError(models.ErrCodeNavigation, "navigation failed", errors.New("boom"))
	}

	return &scraper.Snapshot{
		HTML:       testPage,
		Title:      "Test",
		FinalURL:   req.URL,
		StatusCode: 200,
		LoadTime:   5,
	}, nil
}

func testConfig() config.CrawlerConfig {
	return config.CrawlerConfig{
		DefaultTimeout:      30 * time.Second,
		MaxTimeout:          120 * time.Second,
		SelectorWaitTimeout: 10 * time.Second,
		CacheTTL:            time.Minute,
	}
}

func newTestCrawler(r Renderer, cc *cache.Cache) *Crawler {
	return New(r, extractor.New(), cc, testConfig())
}

func TestCrawl_Success(t *testing.T) {
	fake := &fakeRenderer{}
	c := newTestCrawler(fake, nil)

	result := c.Crawl(context.Background(), "https://example.com/page", &models.CrawlOptions{ExtractText: true})

	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.URL != "https://example.com/page" {
		t.Errorf("result URL = %q", result.URL)
	}
	if result.Data == nil || result.Data.Text == "" {
		t.Errorf("expected extracted text, got %+v", result.Data)
	}
	if result.Metadata.StatusCode != 200 || result.Metadata.Title != "Test" {
		t.Errorf("metadata = %+v", result.Metadata)
	}
	if fake.calls.Load() != 1 {
		t.Errorf("renderer called %d times, want 1", fake.calls.Load())
	}
}

func TestCrawl_InvalidURLFailsFast(t *testing.T) {
	fake := &fakeRenderer{}
	c := newTestCrawler(fake, nil)

	for _, bad := range []string{"", "not a url", "ftp://example.com/file", "https://"} {
		result := c.Crawl(context.Background(), bad, nil)

		if result.Success {
			t.Errorf("crawl of %q should fail", bad)
		}
		if result.Error == "" {
			t.Errorf("failure envelope for %q missing error", bad)
		}
	}

	if fake.calls.Load() != 0 {
		t.Errorf("renderer must not run for invalid URLs, called %d times", fake.calls.Load())
	}
}

func TestCrawl_RendererErrorBecomesEnvelope(t *testing.T) {
	fake := &fakeRenderer{failURLs: map[string]bool{"https://down.example.com": true}}
	c := newTestCrawler(fake, nil)

	result := c.Crawl(context.Background(), "https://down.example.com", &models.CrawlOptions{ExtractText: true})

	if result.Success {
		t.Fatal("expected a failure envelope")
	}
	if result.Error == "" {
		t.Error("failure envelope missing error message")
	}
	if result.URL != "https://down.example.com" {
		t.Errorf("envelope URL = %q", result.URL)
	}
}

func TestCrawl_NoExtractionRequested(t *testing.T) {
	fake := &fakeRenderer{}
	c := newTestCrawler(fake, nil)

	result := c.Crawl(context.Background(), "https://example.com", &models.CrawlOptions{})

	if !result.Success {
		t.Fatalf("expected success, got %q", result.Error)
	}
	if result.Data != nil {
		t.Errorf("no extractors enabled, Data should be nil: %+v", result.Data)
	}
}

func TestCrawl_CacheRoundTripDefaultOptions(t *testing.T) {
	fake := &fakeRenderer{}
	cc := cache.New(10, time.Minute)
	c := newTestCrawler(fake, cc)

	// No maxAge set: identical back-to-back requests must still be
	// cache-equivalent.
	opts := &models.CrawlOptions{ExtractText: true}

	first := c.Crawl(context.Background(), "https://example.com", opts)
	if !first.Success {
		t.Fatalf("first crawl failed: %q", first.Error)
	}
	if first.Cached {
		t.Error("first crawl must not be served from cache")
	}

	second := c.Crawl(context.Background(), "https://example.com", opts)
	if !second.Cached {
		t.Fatal("second identical crawl should hit the cache")
	}
	if second.Data.Text != first.Data.Text {
		t.Error("cached data differs from the original result")
	}
	if fake.calls.Load() != 1 {
		t.Errorf("renderer called %d times, want 1 (second request cached)", fake.calls.Load())
	}
}

func TestCrawl_NegativeMaxAgeBypassesCache(t *testing.T) {
	fake := &fakeRenderer{}
	cc := cache.New(10, time.Minute)
	c := newTestCrawler(fake, cc)

	opts := &models.CrawlOptions{ExtractText: true, MaxAge: -1}

	c.Crawl(context.Background(), "https://example.com", opts)
	result := c.Crawl(context.Background(), "https://example.com", opts)

	if result.Cached {
		t.Error("negative maxAge must bypass the cache read")
	}
	if fake.calls.Load() != 2 {
		t.Errorf("renderer called %d times, want 2", fake.calls.Load())
	}
}

func TestCrawl_FailuresNotCached(t *testing.T) {
	fake := &fakeRenderer{failURLs: map[string]bool{"https://down.example.com": true}}
	cc := cache.New(10, time.Minute)
	c := newTestCrawler(fake, cc)

	opts := &models.CrawlOptions{ExtractText: true, MaxAge: 60_000}

	c.Crawl(context.Background(), "https://down.example.com", opts)
	second := c.Crawl(context.Background(), "https://down.example.com", opts)

	if second.Cached {
		t.Error("failure envelopes must never be served from cache")
	}
	if fake.calls.Load() != 2 {
		t.Errorf("renderer called %d times, want 2 (failures not cached)", fake.calls.Load())
	}
}
