package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crawlio/crawlio/api/handler"
	"github.com/crawlio/crawlio/api/middleware"
	"github.com/crawlio/crawlio/config"
	"github.com/crawlio/crawlio/crawler"
	"github.com/crawlio/crawlio/scraper"
	"github.com/crawlio/crawlio/sink"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(cr *crawler.Crawler, b *scraper.Browser, sk sink.Sink, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	apiGroup := r.Group("/api")

	// Health — no auth required.
	apiGroup.GET("/health", handler.Health(b, startTime))

	// Protected group — auth + rate limit.
	protected := apiGroup.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/crawl/url", handler.Crawl(cr, sk))
	protected.POST("/crawl/batch", handler.Batch(cr, sk))

	return r
}
