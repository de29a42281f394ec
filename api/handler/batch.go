package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crawlio/crawlio/crawler"
	"github.com/crawlio/crawlio/models"
	"github.com/crawlio/crawlio/sink"
)

// Batch returns a handler for POST /api/crawl/batch.
//
// The batch runner blocks until every URL has settled; per-item failures are
// reported in-place in the (input-ordered) result array, so the response is
// always 200 with per-item success flags.
func Batch(cr *crawler.Crawler, sk sink.Sink) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BatchCrawlRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		jobID := "batch-" + randomID()
		sk.Record(c.Request.Context(), &sink.Event{
			Type:      sink.EventJobStarted,
			JobID:     jobID,
			Timestamp: time.Now().Unix(),
		})

		results := cr.CrawlBatch(c.Request.Context(), req.URLs, &req.Options, req.Concurrency)

		allFailed := true
		for _, r := range results {
			if r.Success {
				allFailed = false
				break
			}
		}

		event := &sink.Event{
			JobID:     jobID,
			Timestamp: time.Now().Unix(),
			Results:   results,
		}
		if allFailed {
			event.Type = sink.EventJobFailed
		} else {
			event.Type = sink.EventJobCompleted
		}
		sk.Record(c.Request.Context(), event)

		c.JSON(http.StatusOK, models.BatchCrawlResponse{
			Success: !allFailed,
			Total:   len(results),
			Results: results,
		})
	}
}
