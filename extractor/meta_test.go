package extractor

import (
	"testing"

	"github.com/crawlio/crawlio/models"
)

func TestMetaTags_Basic(t *testing.T) {
	doc := parseDoc(t, `<html><head>
		<meta name="description" content="A page about things.">
		<meta property="og:title" content="OG Title">
		<meta property="og:image" content="https://example.com/img.png">
		<meta name="twitter:card" content="summary">
		<meta name="empty-tag" content="">
	</head><body></body></html>`)

	meta, og, twitter := MetaTags(doc)

	if meta["description"] != "A page about things." {
		t.Errorf("meta[description] = %q", meta["description"])
	}
	if og["title"] != "OG Title" {
		t.Errorf("og[title] = %q, want prefix stripped", og["title"])
	}
	if og["image"] != "https://example.com/img.png" {
		t.Errorf("og[image] = %q", og["image"])
	}
	if twitter["card"] != "summary" {
		t.Errorf("twitter[card] = %q, want prefix stripped", twitter["card"])
	}
	if _, ok := meta["empty-tag"]; ok {
		t.Error("content-less meta tags should be skipped")
	}
}

func TestMetaTags_PropertyFallsIntoGenericMap(t *testing.T) {
	doc := parseDoc(t, `<html><head>
		<meta property="og:description" content="social description">
	</head><body></body></html>`)

	meta, og, _ := MetaTags(doc)

	if meta["og:description"] != "social description" {
		t.Errorf("generic map should key by property: %v", meta)
	}
	if og["description"] != "social description" {
		t.Errorf("og map should strip the prefix: %v", og)
	}
}

func TestEnrichMetadata_BestEffort(t *testing.T) {
	// Garbage input must leave the metadata untouched, never error or panic.
	md := &models.PageMetadata{Title: "kept"}
	EnrichMetadata("not even html", "://bad-url", md)

	if md.Title != "kept" {
		t.Errorf("metadata mutated on enrichment failure: %+v", md)
	}
}

func TestEnrichMetadata_FillsDescription(t *testing.T) {
	html := `<html><head><title>Doc Title</title><meta name="description" content="short summary of the page"></head>
	<body><article><h1>Doc Title</h1><p>` +
		"A reasonably long paragraph of article text so readability treats this as real content. " +
		"It keeps going for a while to pass the length heuristics that readability applies." +
		`</p></article></body></html>`

	md := &models.PageMetadata{}
	EnrichMetadata(html, "https://example.com/doc", md)

	if md.Title == "" {
		t.Error("expected title to be filled from the document")
	}
}
