package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != 3002 {
		t.Errorf("default port = %d, want 3002", cfg.Server.Port)
	}
	if !cfg.Browser.Headless {
		t.Error("browser should default to headless")
	}
	if cfg.Crawler.MaxTimeout != 120*time.Second {
		t.Errorf("max timeout = %v, want 120s", cfg.Crawler.MaxTimeout)
	}
	if cfg.Crawler.CacheTTL != time.Hour {
		t.Errorf("cache TTL = %v, want 1h", cfg.Crawler.CacheTTL)
	}
	if cfg.RateLimit.RequestsPerSecond != 5.0 {
		t.Errorf("rate = %v, want 5.0", cfg.RateLimit.RequestsPerSecond)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CRAWLIO_PORT", "9090")
	t.Setenv("CRAWLIO_HEADLESS", "false")
	t.Setenv("CRAWLIO_MAX_TIMEOUT", "45s")
	t.Setenv("CRAWLIO_API_KEYS", "key-a, key-b,")
	t.Setenv("CRAWLIO_RATE_RPS", "2.5")

	cfg := Load()

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Browser.Headless {
		t.Error("CRAWLIO_HEADLESS=false not honored")
	}
	if cfg.Crawler.MaxTimeout != 45*time.Second {
		t.Errorf("max timeout = %v, want 45s", cfg.Crawler.MaxTimeout)
	}
	if len(cfg.Auth.APIKeys) != 2 || cfg.Auth.APIKeys[0] != "key-a" || cfg.Auth.APIKeys[1] != "key-b" {
		t.Errorf("api keys = %v, want trimmed two-element list", cfg.Auth.APIKeys)
	}
	if cfg.RateLimit.RequestsPerSecond != 2.5 {
		t.Errorf("rate = %v, want 2.5", cfg.RateLimit.RequestsPerSecond)
	}
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("CRAWLIO_PORT", "not-a-number")
	t.Setenv("CRAWLIO_MAX_TIMEOUT", "soon")

	cfg := Load()

	if cfg.Server.Port != 3002 {
		t.Errorf("malformed port should fall back to 3002, got %d", cfg.Server.Port)
	}
	if cfg.Crawler.MaxTimeout != 120*time.Second {
		t.Errorf("malformed duration should fall back to 120s, got %v", cfg.Crawler.MaxTimeout)
	}
}
