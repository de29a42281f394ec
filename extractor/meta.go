package extractor

import (
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/crawlio/crawlio/models"
)

// MetaTags collects <meta> tags into three maps: the generic map keyed by
// name-or-property, the Open Graph map (og: prefix stripped), and the Twitter
// Card map (twitter: prefix stripped). Tags without content are skipped.
func MetaTags(doc *goquery.Document) (meta, og, twitter map[string]string) {
	meta = map[string]string{}
	og = map[string]string{}
	twitter = map[string]string{}

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, _ := s.Attr("content")
		if content == "" {
			return
		}

		name, _ := s.Attr("name")
		property, _ := s.Attr("property")

		key := name
		if key == "" {
			key = property
		}
		if key == "" {
			return
		}
		meta[key] = content

		if strings.HasPrefix(property, "og:") {
			og[strings.TrimPrefix(property, "og:")] = content
		}
		if strings.HasPrefix(name, "twitter:") {
			twitter[strings.TrimPrefix(name, "twitter:")] = content
		}
	})
	return meta, og, twitter
}

// EnrichMetadata runs the Mozilla Readability algorithm over the snapshot to
// fill page-level metadata the meta tags alone don't provide (description,
// site name, author, language). Best-effort: any failure leaves the metadata
// untouched — the crawl must never fail because readability choked.
func EnrichMetadata(rawHTML, sourceURL string, md *models.PageMetadata) {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		return
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Debug("readability: metadata enrichment failed",
			"url", sourceURL, "error", err,
		)
		return
	}

	if md.Title == "" {
		md.Title = article.Title
	}
	md.Description = article.Excerpt
	md.SiteName = article.SiteName
	md.Author = article.Byline
	md.Language = article.Language
}
