package extractor

import (
	"testing"
)

func TestLinks_Basic(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<a href="https://example.com/a" title="tip">First</a>
		<a href="/relative">Second</a>
	</body></html>`)

	links := Links(doc)
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d: %+v", len(links), links)
	}
	if links[0].Text != "First" || links[0].Href != "https://example.com/a" || links[0].Title != "tip" {
		t.Errorf("links[0] = %+v", links[0])
	}
	if links[1].Text != "Second" || links[1].Href != "/relative" {
		t.Errorf("links[1] = %+v", links[1])
	}
}

func TestLinks_TextlessRelativeDropped(t *testing.T) {
	doc := parseDoc(t, `<html><body><a href="/nowhere"></a></body></html>`)

	links := Links(doc)
	if len(links) != 0 {
		t.Errorf("text-less relative anchor should be dropped, got %+v", links)
	}
}

func TestLinks_TextlessAbsoluteKept(t *testing.T) {
	doc := parseDoc(t, `<html><body><a href="https://example.com/x"></a></body></html>`)

	links := Links(doc)
	if len(links) != 1 {
		t.Fatalf("text-less absolute anchor should be kept, got %d", len(links))
	}
	if links[0].Text != "" || links[0].Href != "https://example.com/x" {
		t.Errorf("link = %+v", links[0])
	}
}

func TestLinks_ImageAltFallback(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<a href="/logo"><img src="https://cdn.example.com/logo.png" alt="Company logo"></a>
	</body></html>`)

	links := Links(doc)
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
	if links[0].Text != "Company logo" {
		t.Errorf("link text = %q, want image alt fallback", links[0].Text)
	}
}

func TestLinks_AriaLabelFallback(t *testing.T) {
	doc := parseDoc(t, `<html><body><a href="/close" aria-label="Close dialog"></a></body></html>`)

	links := Links(doc)
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
	if links[0].Text != "Close dialog" || links[0].AriaLabel != "Close dialog" {
		t.Errorf("link = %+v, want aria-label fallback", links[0])
	}
}

func TestImages_Basic(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<img src="https://cdn.example.com/hero.jpg" alt="Hero shot" width="800" height="600" loading="lazy">
	</body></html>`)

	images := Images(doc)
	if len(images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(images))
	}
	img := images[0]
	if img.Src != "https://cdn.example.com/hero.jpg" || img.Alt != "Hero shot" {
		t.Errorf("image = %+v", img)
	}
	if img.Width != "800" || img.Height != "600" || img.Loading != "lazy" {
		t.Errorf("image attributes = %+v", img)
	}
}

func TestImages_DataURLSkipped(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<img src="data:image/gif;base64,R0lGODlhAQABAAAAACw=">
		<img src="https://cdn.example.com/real.png">
	</body></html>`)

	images := Images(doc)
	if len(images) != 1 {
		t.Fatalf("expected 1 image after filtering, got %d: %+v", len(images), images)
	}
	if images[0].Src != "https://cdn.example.com/real.png" {
		t.Errorf("kept image = %+v", images[0])
	}
}

func TestImages_ShortSrcSkipped(t *testing.T) {
	doc := parseDoc(t, `<html><body><img src="x.gif"></body></html>`)

	images := Images(doc)
	if len(images) != 0 {
		t.Errorf("implausibly short src should be skipped, got %+v", images)
	}
}
