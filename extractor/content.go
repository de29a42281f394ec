package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// minBodyTextLen is the minimum visible text length for the stripped-body
	// strategy to count as a success.
	minBodyTextLen = 200

	// minLeafTextLen is the minimum text length for a leaf element to qualify
	// for the synthesis strategy.
	minLeafTextLen = 50
)

// removalSelectors match elements that never contribute page content.
var removalSelectors = []string{
	"script", "style", "noscript", "iframe", "nav", "footer",
	"[class*='sidebar']", "[class*='advert']", "[class*='banner']",
	".ad", ".ads",
}

// mainSelectors is the prioritized list of main-content containers.
// First match wins; order is the tie-break.
var mainSelectors = []string{
	"main",
	"article",
	"[role='main']",
	"#content",
	".content",
	"#main-content",
	".main-content",
	".post-content",
	".article-content",
	".entry-content",
	"#main",
	".main",
}

// contentStrategy attempts to locate the block-level children of the page's
// main content. It returns nil when the strategy does not apply, letting the
// caller fall through to the next one.
type contentStrategy struct {
	name string
	pick func(doc *goquery.Document) *goquery.Selection
}

// contentStrategies is the ordered fallback chain for main-content selection.
// The final stripped-body entry is unconditional so a page that defeats every
// heuristic still yields its (possibly empty) body blocks.
var contentStrategies = []contentStrategy{
	{name: "selector", pick: pickBySelector},
	{name: "body", pick: pickStrippedBody},
	{name: "leaves", pick: pickLeafElements},
	{name: "body-fallback", pick: func(doc *goquery.Document) *goquery.Selection {
		return strippedBodyChildren(doc)
	}},
}

// selectContent strips non-content elements in place and returns the ordered
// block elements of the main-content region, plus the winning strategy name.
func selectContent(doc *goquery.Document) (*goquery.Selection, string) {
	for _, sel := range removalSelectors {
		doc.Find(sel).Remove()
	}

	for _, st := range contentStrategies {
		if picked := st.pick(doc); picked != nil {
			return picked, st.name
		}
	}
	// Unreachable: the last strategy never returns nil.
	return doc.Find("body").Children(), "body-fallback"
}

// pickBySelector tries each main-content selector in priority order and
// returns the first match's direct children.
func pickBySelector(doc *goquery.Document) *goquery.Selection {
	for _, sel := range mainSelectors {
		if m := doc.Find(sel).First(); m.Length() > 0 {
			return m.Children()
		}
	}
	return nil
}

// pickStrippedBody uses the document body with navigation chrome removed,
// succeeding only when it carries a meaningful amount of text.
func pickStrippedBody(doc *goquery.Document) *goquery.Selection {
	children := strippedBodyChildren(doc)
	if len(strings.TrimSpace(doc.Find("body").Text())) < minBodyTextLen {
		return nil
	}
	return children
}

func strippedBodyChildren(doc *goquery.Document) *goquery.Selection {
	body := doc.Find("body")
	body.Find("nav, header, aside").Remove()
	return body.Children()
}

// pickLeafElements collects every element without element children whose text
// is non-trivial, synthesizing a flat block list from them. Returns nil when
// no leaf qualifies.
func pickLeafElements(doc *goquery.Document) *goquery.Selection {
	leaves := doc.Find("body *").FilterFunction(func(_ int, s *goquery.Selection) bool {
		if s.Children().Length() > 0 {
			return false
		}
		return len(strings.TrimSpace(s.Text())) > minLeafTextLen
	})
	if leaves.Length() == 0 {
		return nil
	}
	return leaves
}
