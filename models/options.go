package models

// Screenshot modes accepted by CrawlOptions.Screenshot.
const (
	ScreenshotOff      = ""
	ScreenshotViewport = "viewport"
	ScreenshotFullPage = "fullpage"
)

// Navigation completion policies accepted by CrawlOptions.WaitUntil.
const (
	WaitUntilLoad        = "load"
	WaitUntilDOMReady    = "domcontentloaded"
	WaitUntilNetworkIdle = "networkidle"
)

// DefaultMaxAge is the cache-read window applied when maxAge is unset,
// in milliseconds. Matches the default cache TTL of one hour.
const DefaultMaxAge = 3_600_000

// BrowserOptions carries session-level overrides for a single crawl.
type BrowserOptions struct {
	// Stealth enables anti-bot-detection evasions (navigator.webdriver masking etc.).
	Stealth bool `json:"stealth,omitempty"`

	// BlockAds blocks requests to well-known ad/tracking domains.
	BlockAds bool `json:"blockAds,omitempty"`

	// BlockResources lists resource types to block during rendering
	// (e.g. "Image", "Stylesheet", "Font", "Media").
	BlockResources []string `json:"blockResources,omitempty"`
}

// CrawlOptions is the flat option set for one crawl request. It is treated
// as immutable once the crawl starts; the cache key is derived from its
// canonical JSON serialization, so identical option sets are cache-equivalent.
type CrawlOptions struct {
	// ExtractText enables the structured-text extractor (full text,
	// sections, chunks).
	ExtractText bool `json:"extractText,omitempty"`

	// ExtractLinks enables anchor extraction.
	ExtractLinks bool `json:"extractLinks,omitempty"`

	// ExtractImages enables image extraction.
	ExtractImages bool `json:"extractImages,omitempty"`

	// ExtractMeta enables meta/Open-Graph/Twitter-card extraction plus
	// readability metadata enrichment.
	ExtractMeta bool `json:"extractMeta,omitempty"`

	// ExtractStructuredData enables JSON-LD extraction.
	ExtractStructuredData bool `json:"extractStructuredData,omitempty"`

	// ExtractMarkdown renders the selected main-content HTML to Markdown.
	ExtractMarkdown bool `json:"extractMarkdown,omitempty"`

	// WaitUntil selects the navigation completion policy:
	// "load", "domcontentloaded", or "networkidle" (default).
	WaitUntil string `json:"waitUntil,omitempty"`

	// WaitFor is an extra fixed delay in milliseconds applied after
	// navigation, before the readiness waiter runs.
	WaitFor int `json:"waitFor,omitempty"`

	// WaitForSelector is a CSS selector to await after navigation
	// (bounded at ~10s).
	WaitForSelector string `json:"waitForSelector,omitempty"`

	// Screenshot selects the capture mode: "" (off), "viewport", "fullpage".
	Screenshot string `json:"screenshot,omitempty"`

	// Selectors maps caller-chosen names to CSS selectors; each matching
	// element's text, inner HTML and attributes are collected.
	Selectors map[string]string `json:"selectors,omitempty"`

	// Headers are extra HTTP request headers applied before navigation.
	Headers map[string]string `json:"headers,omitempty"`

	// UserAgent overrides the configured user agent for this request.
	UserAgent string `json:"userAgent,omitempty"`

	// Timeout is the hard per-request deadline in seconds. Default 30, max 120.
	Timeout int `json:"timeout,omitempty"`

	// MaxAge is the cache-read window in milliseconds. Unset defaults to
	// DefaultMaxAge, so identical back-to-back requests are served from
	// cache; a negative value disables the cache read. Successful results
	// are written to the cache regardless.
	MaxAge int `json:"maxAge,omitempty"`

	// Browser carries session-level browser overrides.
	Browser BrowserOptions `json:"browserOptions,omitempty"`
}

// Defaults applies default values to unset fields.
func (o *CrawlOptions) Defaults() {
	if o.WaitUntil == "" {
		o.WaitUntil = WaitUntilNetworkIdle
	}
	if o.Timeout == 0 {
		o.Timeout = 30
	}
	if o.Timeout > 120 {
		o.Timeout = 120
	}
	if o.MaxAge == 0 {
		o.MaxAge = DefaultMaxAge
	}
}

// WantsExtraction reports whether any extractor is enabled, i.e. whether the
// envelope will carry a Data payload at all.
func (o *CrawlOptions) WantsExtraction() bool {
	return o.ExtractText || o.ExtractLinks || o.ExtractImages ||
		o.ExtractMeta || o.ExtractStructuredData || o.ExtractMarkdown ||
		len(o.Selectors) > 0
}
