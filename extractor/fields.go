package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/crawlio/crawlio/models"
)

// minImageSrcLen filters decorative/placeholder pixels whose src is too short
// to be a real asset URL.
const minImageSrcLen = 10

// Links extracts every anchor carrying an href. Link text falls back from the
// element's own text to a descendant image's alt/title to the aria-label. An
// anchor is kept only when it resolved non-empty text or its href is absolute
// (starts with "http") — bare relative anchors with no text are noise.
func Links(doc *goquery.Document) []models.Link {
	var links []models.Link
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" {
			return
		}

		text := Normalize(s.Text())
		if text == "" {
			img := s.Find("img").First()
			if alt, ok := img.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
				text = Normalize(alt)
			} else if t, ok := img.Attr("title"); ok && strings.TrimSpace(t) != "" {
				text = Normalize(t)
			}
		}
		aria, _ := s.Attr("aria-label")
		if text == "" {
			text = Normalize(aria)
		}

		if text == "" && !strings.HasPrefix(href, "http") {
			return
		}

		title, _ := s.Attr("title")
		links = append(links, models.Link{
			Text:      text,
			Href:      href,
			Title:     title,
			AriaLabel: aria,
		})
	})
	return links
}

// Images extracts every img carrying a usable src, skipping data URLs and
// implausibly short sources.
func Images(doc *goquery.Document) []models.Image {
	var images []models.Image
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if strings.HasPrefix(src, "data:") || len(src) < minImageSrcLen {
			return
		}

		alt, _ := s.Attr("alt")
		title, _ := s.Attr("title")
		width, _ := s.Attr("width")
		height, _ := s.Attr("height")
		loading, _ := s.Attr("loading")
		class, _ := s.Attr("class")

		images = append(images, models.Image{
			Src:     src,
			Alt:     Normalize(alt),
			Title:   Normalize(title),
			Width:   width,
			Height:  height,
			Loading: loading,
			Class:   class,
		})
	})
	return images
}
