package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Crawler   CrawlerConfig
	Waiter    WaiterConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Webhook   WebhookConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 3002
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the shared Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxSessions bounds the number of concurrently open render sessions.
	MaxSessions int // default: 10

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// UserAgent is the default user agent applied to every session.
	UserAgent string

	// ViewportWidth/ViewportHeight set the fixed session viewport.
	ViewportWidth  int // default: 1366
	ViewportHeight int // default: 768
}

// CrawlerConfig controls per-request crawling behavior.
type CrawlerConfig struct {
	// DefaultTimeout is the per-request deadline when the caller sets none.
	DefaultTimeout time.Duration // default: 30s

	// MaxTimeout is the maximum allowed per-request deadline.
	MaxTimeout time.Duration // default: 120s

	// SelectorWaitTimeout bounds the caller-specified waitForSelector.
	SelectorWaitTimeout time.Duration // default: 10s

	// CacheTTL is how long successful results stay cached.
	CacheTTL time.Duration // default: 1h
}

// WaiterConfig controls the content-readiness heuristics. The defaults are
// tuned for JavaScript-heavy pages; tests shrink them to keep runs fast.
type WaiterConfig struct {
	// SelectorTimeout is the per-selector probe deadline.
	SelectorTimeout time.Duration // default: 3s

	// SettleDelay is the pause after the first selector match.
	SettleDelay time.Duration // default: 1s

	// TextPollTimeout bounds the visible-text-length polling loop.
	TextPollTimeout time.Duration // default: 5s

	// TextPollInterval is the polling period inside that loop.
	TextPollInterval time.Duration // default: 250ms

	// MinTextLength is the visible-text threshold that ends polling early.
	MinTextLength int // default: 100

	// FinalDelay is the trailing pause for late asynchronous rendering.
	FinalDelay time.Duration // default: 3s
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// CacheConfig controls the crawl result cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached results.
	MaxEntries int // default: 1000
}

// WebhookConfig controls the result sink.
type WebhookConfig struct {
	// URL is the endpoint notified of job transitions. Empty disables delivery.
	URL string

	// Secret signs payloads with HMAC-SHA256 when non-empty.
	Secret string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("CRAWLIO_HOST", "0.0.0.0"),
			Port: envIntOr("CRAWLIO_PORT", 3002),
			Mode: envOr("CRAWLIO_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:       envBoolOr("CRAWLIO_HEADLESS", true),
			MaxSessions:    envIntOr("CRAWLIO_MAX_SESSIONS", 10),
			NoSandbox:      envBoolOr("CRAWLIO_NO_SANDBOX", false),
			BrowserBin:     os.Getenv("CRAWLIO_BROWSER_BIN"),
			UserAgent:      os.Getenv("CRAWLIO_USER_AGENT"),
			ViewportWidth:  envIntOr("CRAWLIO_VIEWPORT_WIDTH", 1366),
			ViewportHeight: envIntOr("CRAWLIO_VIEWPORT_HEIGHT", 768),
		},
		Crawler: CrawlerConfig{
			DefaultTimeout:      envDurationOr("CRAWLIO_DEFAULT_TIMEOUT", 30*time.Second),
			MaxTimeout:          envDurationOr("CRAWLIO_MAX_TIMEOUT", 120*time.Second),
			SelectorWaitTimeout: envDurationOr("CRAWLIO_SELECTOR_WAIT_TIMEOUT", 10*time.Second),
			CacheTTL:            envDurationOr("CRAWLIO_CACHE_TTL", time.Hour),
		},
		Waiter: DefaultWaiter(),
		Auth: AuthConfig{
			Enabled: envBoolOr("CRAWLIO_AUTH_ENABLED", true),
			APIKeys: envSliceOr("CRAWLIO_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("CRAWLIO_RATE_RPS", 5.0),
			Burst:             envIntOr("CRAWLIO_RATE_BURST", 10),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("CRAWLIO_CACHE_MAX_ENTRIES", 1000),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv("CRAWLIO_WEBHOOK_URL"),
			Secret: os.Getenv("CRAWLIO_WEBHOOK_SECRET"),
		},
		Log: LogConfig{
			Level:  envOr("CRAWLIO_LOG_LEVEL", "info"),
			Format: envOr("CRAWLIO_LOG_FORMAT", "json"),
		},
	}
}

// DefaultWaiter returns the content-readiness timings used in production.
func DefaultWaiter() WaiterConfig {
	return WaiterConfig{
		SelectorTimeout:  envDurationOr("CRAWLIO_WAIT_SELECTOR_TIMEOUT", 3*time.Second),
		SettleDelay:      envDurationOr("CRAWLIO_WAIT_SETTLE_DELAY", time.Second),
		TextPollTimeout:  envDurationOr("CRAWLIO_WAIT_TEXT_TIMEOUT", 5*time.Second),
		TextPollInterval: envDurationOr("CRAWLIO_WAIT_TEXT_INTERVAL", 250*time.Millisecond),
		MinTextLength:    envIntOr("CRAWLIO_WAIT_MIN_TEXT", 100),
		FinalDelay:       envDurationOr("CRAWLIO_WAIT_FINAL_DELAY", 3*time.Second),
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
