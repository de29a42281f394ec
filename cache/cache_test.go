package cache

import (
	"testing"
	"time"

	"github.com/crawlio/crawlio/models"
)

func TestKey_Deterministic(t *testing.T) {
	opts := &models.CrawlOptions{ExtractText: true, Timeout: 30}

	k1 := Key("https://example.com", opts)
	k2 := Key("https://example.com", &models.CrawlOptions{ExtractText: true, Timeout: 30})

	if k1 != k2 {
		t.Errorf("equal URL+options produced different keys: %s vs %s", k1, k2)
	}
}

func TestKey_OptionsChangeKey(t *testing.T) {
	url := "https://example.com"

	base := Key(url, &models.CrawlOptions{ExtractText: true})
	withLinks := Key(url, &models.CrawlOptions{ExtractText: true, ExtractLinks: true})

	if base == withLinks {
		t.Error("different option sets must produce different keys")
	}
}

func TestKey_URLChangesKey(t *testing.T) {
	opts := &models.CrawlOptions{ExtractText: true}

	if Key("https://a.example.com", opts) == Key("https://b.example.com", opts) {
		t.Error("different URLs must produce different keys")
	}
}

func TestKey_MaxAgeIrrelevant(t *testing.T) {
	url := "https://example.com"

	k1 := Key(url, &models.CrawlOptions{ExtractText: true, MaxAge: 5_000})
	k2 := Key(url, &models.CrawlOptions{ExtractText: true, MaxAge: 60_000})

	if k1 != k2 {
		t.Error("maxAge is a read policy and must not change the cache key")
	}
}

func TestKey_SelectorMapOrderIrrelevant(t *testing.T) {
	// encoding/json marshals map keys sorted, so insertion order must not
	// change the key.
	o1 := &models.CrawlOptions{Selectors: map[string]string{"a": "h1", "b": "p"}}
	o2 := &models.CrawlOptions{Selectors: map[string]string{"b": "p", "a": "h1"}}

	if Key("https://example.com", o1) != Key("https://example.com", o2) {
		t.Error("selector map insertion order changed the cache key")
	}
}

func TestCache_RoundTrip(t *testing.T) {
	c := New(10, time.Minute)
	result := &models.CrawlResult{Success: true, URL: "https://example.com"}

	c.Set("k1", result)

	got, ok := c.Get("k1", 60_000)
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got.URL != result.URL || !got.Success {
		t.Errorf("cached result = %+v", got)
	}
}

func TestCache_MaxAgeZeroDisablesLookup(t *testing.T) {
	c := New(10, time.Minute)
	c.Set("k1", &models.CrawlResult{Success: true})

	if _, ok := c.Get("k1", 0); ok {
		t.Error("maxAge 0 must disable the cache lookup")
	}
	if _, ok := c.Get("k1", -1); ok {
		t.Error("negative maxAge must disable the cache lookup")
	}
}

func TestCache_MaxAgeExpiry(t *testing.T) {
	c := New(10, time.Minute)
	c.Set("k1", &models.CrawlResult{Success: true})

	time.Sleep(15 * time.Millisecond)

	if _, ok := c.Get("k1", 1); ok {
		t.Error("entry older than maxAge must miss")
	}
	if _, ok := c.Get("k1", 60_000); !ok {
		t.Error("entry younger than maxAge must hit")
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	c := New(10, 5*time.Millisecond)
	c.Set("k1", &models.CrawlResult{Success: true})

	time.Sleep(15 * time.Millisecond)

	if _, ok := c.Get("k1", 60_000); ok {
		t.Error("entry older than the cache TTL must miss regardless of maxAge")
	}
}

func TestCache_CapacityEviction(t *testing.T) {
	c := New(2, time.Minute)

	c.Set("k1", &models.CrawlResult{URL: "1"})
	c.Set("k2", &models.CrawlResult{URL: "2"})
	c.Set("k3", &models.CrawlResult{URL: "3"})

	c.mu.RLock()
	n := len(c.store)
	c.mu.RUnlock()

	if n > 2 {
		t.Errorf("cache exceeded capacity: %d entries", n)
	}
	if _, ok := c.Get("k3", 60_000); !ok {
		t.Error("most recent entry must survive eviction")
	}
}
