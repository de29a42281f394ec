// Package extractor turns a rendered page snapshot into structured,
// retrieval-ready data: normalized full text, heading-delimited sections,
// overlapping chunks, links, images, meta/Open-Graph/Twitter maps, JSON-LD
// structured data, and custom-selector matches. Every extractor is gated by
// its option flag and operates on the static HTML alone, so extraction is
// deterministic: the same snapshot always yields the same result.
package extractor

import (
	"log/slog"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"

	"github.com/crawlio/crawlio/models"
)

// Extractor runs the option-gated extraction pipeline. The Markdown converter
// is created once and reused across requests (goroutine-safe).
type Extractor struct {
	mdConverter *converter.Converter
}

// New creates an Extractor with a pre-configured Markdown converter.
func New() *Extractor {
	return &Extractor{mdConverter: newMarkdownConverter()}
}

// Extract assembles the ExtractionResult for one snapshot. Only fields whose
// option flag is set are populated. The raw HTML is parsed at most twice: one
// document is mutated by non-content stripping for the text/markdown path,
// the other stays pristine for the field extractors.
func (e *Extractor) Extract(rawHTML, sourceURL string, opts *models.CrawlOptions) (*models.ExtractionResult, error) {
	res := &models.ExtractionResult{}

	if opts.ExtractText || opts.ExtractMarkdown {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
		if err != nil {
			return nil, models.NewCrawlError(models.ErrCodeExtraction, "parsing snapshot HTML failed", err)
		}
		blocks, strategy := selectContent(doc)

		if opts.ExtractText {
			res.Text, res.Sections, res.Chunks = walkBlocks(blocks)
			slog.Debug("text extracted",
				"url", sourceURL,
				"strategy", strategy,
				"sections", len(res.Sections),
				"chunks", len(res.Chunks),
			)
		}
		if opts.ExtractMarkdown {
			md, err := toMarkdown(e.mdConverter, renderBlocks(blocks), sourceURL)
			if err != nil {
				return nil, models.NewCrawlError(models.ErrCodeExtraction, "markdown conversion failed", err)
			}
			res.Markdown = md
		}
	}

	if opts.ExtractLinks || opts.ExtractImages || opts.ExtractMeta || opts.ExtractStructuredData {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
		if err != nil {
			return nil, models.NewCrawlError(models.ErrCodeExtraction, "parsing snapshot HTML failed", err)
		}

		if opts.ExtractLinks {
			res.Links = Links(doc)
		}
		if opts.ExtractImages {
			res.Images = Images(doc)
		}
		if opts.ExtractMeta {
			res.Meta, res.OGMeta, res.TwitterMeta = MetaTags(doc)
		}
		if opts.ExtractStructuredData {
			res.SchemaOrg, res.StructuredData = StructuredData(doc)
		}
	}

	if len(opts.Selectors) > 0 {
		res.Selectors = CustomSelectors(rawHTML, opts.Selectors)
	}

	return res, nil
}

// renderBlocks concatenates the outer HTML of the selected content blocks so
// the Markdown converter sees only the main-content region.
func renderBlocks(blocks *goquery.Selection) string {
	var sb strings.Builder
	blocks.Each(func(_ int, s *goquery.Selection) {
		if h, err := goquery.OuterHtml(s); err == nil {
			sb.WriteString(h)
		}
	})
	return sb.String()
}
