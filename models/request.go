package models

// CrawlRequest is the payload for POST /api/crawl/url.
type CrawlRequest struct {
	// URL is the target page to crawl. Required.
	URL string `json:"url" binding:"required,url"`

	// Options controls extraction, waiting, screenshots and caching.
	Options CrawlOptions `json:"options"`
}

// BatchCrawlRequest is the payload for POST /api/crawl/batch.
type BatchCrawlRequest struct {
	// URLs is the ordered list of target pages. Required.
	URLs []string `json:"urls" binding:"required,min=1,max=100"`

	// Options is the shared option set applied to every URL.
	Options CrawlOptions `json:"options"`

	// Concurrency bounds how many URLs render at once. It is clamped to
	// len(URLs) and defaults to 3 when unset.
	Concurrency int `json:"concurrency,omitempty" binding:"omitempty,min=1,max=20"`
}

// BatchCrawlResponse is the response for POST /api/crawl/batch.
type BatchCrawlResponse struct {
	Success bool           `json:"success"`
	Total   int            `json:"total"`
	Results []*CrawlResult `json:"results"`
}

// HealthResponse is the response for GET /api/health.
type HealthResponse struct {
	Status   string       `json:"status"` // "healthy" or "degraded"
	Uptime   string       `json:"uptime"`
	Sessions SessionStats `json:"sessions"`
	Version  string       `json:"version"`
}

// SessionStats reports browser session utilisation.
type SessionStats struct {
	MaxSessions    int `json:"max_sessions"`
	ActiveSessions int `json:"active_sessions"`
}
