package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crawlio/crawlio/models"
	"github.com/crawlio/crawlio/scraper"
)

// Health returns a handler for GET /api/health.
//
// Reports session utilisation and degrades status when > 80% of the session
// budget is active.
func Health(b *scraper.Browser, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := b.Stats()

		status := "healthy"
		if stats.MaxSessions > 0 && stats.ActiveSessions > int(float64(stats.MaxSessions)*0.8) {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:   status,
			Uptime:   time.Since(startTime).Round(time.Second).String(),
			Sessions: stats,
			Version:  "0.1.0",
		})
	}
}
