package extractor

import (
	"encoding/json"

	"github.com/PuerkitoBio/goquery"
)

// ldBlocks is the internal result of JSON-LD parsing. Parsed and Skipped are
// tracked separately so "the page carried no structured data" and "every
// block was malformed" stay distinguishable, even though both collapse to an
// empty result for callers.
type ldBlocks struct {
	Parsed  []json.RawMessage
	Skipped int
}

// parseJSONLD collects every <script type="application/ld+json"> block that
// parses as valid JSON. Malformed blocks are counted and skipped silently;
// they never fail the extraction.
func parseJSONLD(doc *goquery.Document) ldBlocks {
	var out ldBlocks
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := []byte(s.Text())
		if !json.Valid(raw) {
			out.Skipped++
			return
		}
		out.Parsed = append(out.Parsed, json.RawMessage(raw))
	})
	return out
}

// StructuredData returns the two views over the page's JSON-LD blocks: a
// type-keyed map (keyed by each object's @type, last one wins on collision)
// and the flat ordered array of all parsed blocks.
func StructuredData(doc *goquery.Document) (map[string]json.RawMessage, []json.RawMessage) {
	blocks := parseJSONLD(doc)

	byType := map[string]json.RawMessage{}
	for _, raw := range blocks.Parsed {
		var obj struct {
			Type string `json:"@type"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil && obj.Type != "" {
			byType[obj.Type] = raw
		}
	}
	return byType, blocks.Parsed
}
