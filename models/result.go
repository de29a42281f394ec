package models

import "encoding/json"

// Section is a heading-delimited block of page text. The extractor opens an
// implicit "Introduction" section at level 0 for content that precedes the
// first heading.
type Section struct {
	Title   string `json:"title"`
	Level   int    `json:"level"`
	ID      string `json:"id,omitempty"`
	Content string `json:"content"`
}

// Chunk is a fixed-size overlapping window over the normalized full text.
// Offsets index into the normalized text, not the raw HTML.
type Chunk struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Link is an anchor extracted from the page.
type Link struct {
	Text      string `json:"text"`
	Href      string `json:"href"`
	Title     string `json:"title,omitempty"`
	AriaLabel string `json:"ariaLabel,omitempty"`
}

// Image is an img element extracted from the page.
type Image struct {
	Src     string `json:"src"`
	Alt     string `json:"alt,omitempty"`
	Title   string `json:"title,omitempty"`
	Width   string `json:"width,omitempty"`
	Height  string `json:"height,omitempty"`
	Loading string `json:"loading,omitempty"`
	Class   string `json:"class,omitempty"`
}

// SelectorMatch is one element matched by a caller-supplied CSS selector.
type SelectorMatch struct {
	Text       string            `json:"text"`
	HTML       string            `json:"html"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// ExtractionResult aggregates all option-gated extracted fields for one page.
// Only fields whose option flag was set are populated.
type ExtractionResult struct {
	Text           string                     `json:"text,omitempty"`
	Sections       []Section                  `json:"sections,omitempty"`
	Chunks         []Chunk                    `json:"chunks,omitempty"`
	Links          []Link                     `json:"links,omitempty"`
	Images         []Image                    `json:"images,omitempty"`
	Meta           map[string]string          `json:"meta,omitempty"`
	OGMeta         map[string]string          `json:"ogMeta,omitempty"`
	TwitterMeta    map[string]string          `json:"twitterMeta,omitempty"`
	SchemaOrg      map[string]json.RawMessage `json:"schemaOrg,omitempty"`
	StructuredData []json.RawMessage          `json:"structuredData,omitempty"`
	Selectors      map[string][]SelectorMatch `json:"selectors,omitempty"`
	Markdown       string                     `json:"markdown,omitempty"`
}

// PageMetadata holds page-level information captured during the crawl.
type PageMetadata struct {
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	SiteName      string `json:"siteName,omitempty"`
	Author        string `json:"author,omitempty"`
	Language      string `json:"language,omitempty"`
	FinalURL      string `json:"finalUrl"`
	StatusCode    int    `json:"statusCode"`
	ContentType   string `json:"contentType,omitempty"`
	ContentLength int    `json:"contentLength"`
	LoadTime      int64  `json:"loadTime"`
}

// CrawlResult is the envelope persisted and returned for one crawl request.
// Every request, success or failure, yields exactly one well-formed envelope.
type CrawlResult struct {
	Success      bool              `json:"success"`
	URL          string            `json:"url"`
	Data         *ExtractionResult `json:"data,omitempty"`
	Metadata     PageMetadata      `json:"metadata"`
	Screenshot   string            `json:"screenshot,omitempty"`
	ResponseTime int64             `json:"responseTime"`
	Cached       bool              `json:"cached"`
	Error        string            `json:"error,omitempty"`
}
