package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/crawlio/crawlio/models"
)

// defaultBatchConcurrency is used when the caller does not bound the fan-out.
const defaultBatchConcurrency = 3

// CrawlBatch fans the orchestrator out over an ordered URL list. The list is
// processed in sequential batches of the (clamped) concurrency bound: every
// item of a batch runs concurrently, and batch k+1 never starts before every
// item of batch k has settled. Peak concurrency is therefore strictly the
// configured bound.
//
// A single item's failure — including an unexpected panic — is captured as a
// failure envelope for that URL and aborts neither sibling items nor
// subsequent batches. Result order matches input order.
func (c *Crawler) CrawlBatch(ctx context.Context, urls []string, opts *models.CrawlOptions, concurrency int) []*models.CrawlResult {
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}
	if concurrency > len(urls) {
		concurrency = len(urls)
	}

	results := make([]*models.CrawlResult, len(urls))

	for batchStart := 0; batchStart < len(urls); batchStart += concurrency {
		batchEnd := batchStart + concurrency
		if batchEnd > len(urls) {
			batchEnd = len(urls)
		}

		var wg sync.WaitGroup
		for i := batchStart; i < batchEnd; i++ {
			wg.Add(1)
			go func(idx int, targetURL string) {
				defer wg.Done()
				start := time.Now()
				defer func() {
					if r := recover(); r != nil {
						slog.Error("batch item panicked",
							"url", targetURL, "index", idx, "panic", r,
						)
						results[idx] = failEnvelope(targetURL,
							fmt.Errorf("internal fault: %v", r), start)
					}
				}()
				results[idx] = c.Crawl(ctx, targetURL, opts)
			}(i, urls[i])
		}
		wg.Wait()
	}

	return results
}
