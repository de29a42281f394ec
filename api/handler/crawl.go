package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crawlio/crawlio/crawler"
	"github.com/crawlio/crawlio/models"
	"github.com/crawlio/crawlio/sink"
)

// Crawl returns a handler for POST /api/crawl/url.
//
// The orchestrator never surfaces a Go error: every outcome is an envelope
// with a success flag, so the handler only maps envelopes to HTTP codes and
// records the transition with the sink.
func Crawl(cr *crawler.Crawler, sk sink.Sink) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CrawlRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		jobID := "crawl-" + randomID()
		sk.Record(c.Request.Context(), &sink.Event{
			Type:      sink.EventJobStarted,
			JobID:     jobID,
			URL:       req.URL,
			Timestamp: time.Now().Unix(),
		})

		result := cr.Crawl(c.Request.Context(), req.URL, &req.Options)

		if result.Success {
			sk.Record(c.Request.Context(), &sink.Event{
				Type:      sink.EventJobCompleted,
				JobID:     jobID,
				URL:       req.URL,
				Timestamp: time.Now().Unix(),
				Result:    result,
			})
			c.JSON(http.StatusOK, result)
			return
		}

		sk.Record(c.Request.Context(), &sink.Event{
			Type:      sink.EventJobFailed,
			JobID:     jobID,
			URL:       req.URL,
			Timestamp: time.Now().Unix(),
			Result:    result,
			Error:     result.Error,
		})
		c.JSON(http.StatusBadGateway, result)
	}
}

// randomID generates a short random hex string for job IDs.
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
