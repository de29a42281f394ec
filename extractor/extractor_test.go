package extractor

import (
	"strings"
	"testing"

	"github.com/crawlio/crawlio/models"
)

const samplePage = `<html><head>
	<title>Sample</title>
	<meta property="og:title" content="Sample OG">
</head><body>
	<main>
		<h1>Sample</h1>
		<p>Body paragraph with a <a href="https://example.com/out">link</a>.</p>
		<img src="https://cdn.example.com/pic.jpg" alt="pic">
	</main>
</body></html>`

func TestExtract_OptionGating(t *testing.T) {
	e := New()

	res, err := e.Extract(samplePage, "https://example.com", &models.CrawlOptions{
		ExtractText: true,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if res.Text == "" {
		t.Error("extractText should populate Text")
	}
	if res.Links != nil {
		t.Errorf("links extracted without the flag: %+v", res.Links)
	}
	if res.Images != nil {
		t.Errorf("images extracted without the flag: %+v", res.Images)
	}
	if res.Meta != nil {
		t.Errorf("meta extracted without the flag: %+v", res.Meta)
	}
}

func TestExtract_AllExtractors(t *testing.T) {
	e := New()

	res, err := e.Extract(samplePage, "https://example.com", &models.CrawlOptions{
		ExtractText:     true,
		ExtractLinks:    true,
		ExtractImages:   true,
		ExtractMeta:     true,
		ExtractMarkdown: true,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if !strings.Contains(res.Text, "Body paragraph") {
		t.Errorf("text = %q", res.Text)
	}
	if len(res.Links) != 1 || res.Links[0].Href != "https://example.com/out" {
		t.Errorf("links = %+v", res.Links)
	}
	if len(res.Images) != 1 {
		t.Errorf("images = %+v", res.Images)
	}
	if res.OGMeta["title"] != "Sample OG" {
		t.Errorf("og meta = %v", res.OGMeta)
	}
	if !strings.Contains(res.Markdown, "Sample") {
		t.Errorf("markdown = %q", res.Markdown)
	}
}

func TestExtract_MarkdownScopedToMainContent(t *testing.T) {
	e := New()

	page := `<html><body>
		<nav><a href="/">home</a></nav>
		<main><h1>Doc</h1><p>kept paragraph</p></main>
		<footer>legal</footer>
	</body></html>`

	res, err := e.Extract(page, "https://example.com", &models.CrawlOptions{ExtractMarkdown: true})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if !strings.Contains(res.Markdown, "kept paragraph") {
		t.Errorf("markdown missing main content: %q", res.Markdown)
	}
	if strings.Contains(res.Markdown, "legal") || strings.Contains(res.Markdown, "home") {
		t.Errorf("markdown leaked chrome: %q", res.Markdown)
	}
}

func TestExtract_CustomSelectors(t *testing.T) {
	e := New()

	res, err := e.Extract(samplePage, "https://example.com", &models.CrawlOptions{
		Selectors: map[string]string{"heading": "h1"},
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(res.Selectors["heading"]) != 1 || res.Selectors["heading"][0].Text != "Sample" {
		t.Errorf("selectors = %+v", res.Selectors)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	e := New()
	opts := &models.CrawlOptions{ExtractText: true, ExtractLinks: true}

	r1, err := e.Extract(samplePage, "https://example.com", opts)
	if err != nil {
		t.Fatalf("first Extract: %v", err)
	}
	r2, err := e.Extract(samplePage, "https://example.com", opts)
	if err != nil {
		t.Fatalf("second Extract: %v", err)
	}

	if r1.Text != r2.Text {
		t.Errorf("texts differ: %q vs %q", r1.Text, r2.Text)
	}
	if len(r1.Chunks) != len(r2.Chunks) || len(r1.Links) != len(r2.Links) {
		t.Error("structure differs between identical extractions")
	}
}
