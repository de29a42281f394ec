package extractor

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/crawlio/crawlio/models"
)

// CustomSelectors runs a caller-supplied name→CSS-selector map against the
// page and collects, per name, every matching element's text, inner HTML and
// attribute map in document order.
//
// User-supplied selectors can be garbage, so each one is parsed with cascadia
// directly: an unparsable selector yields an empty match list for that name
// instead of failing the request.
func CustomSelectors(rawHTML string, selectors map[string]string) map[string][]models.SelectorMatch {
	if len(selectors) == 0 {
		return nil
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	out := make(map[string][]models.SelectorMatch, len(selectors))
	for name, selector := range selectors {
		sel, err := cascadia.Parse(selector)
		if err != nil {
			slog.Debug("custom selector does not parse, skipping",
				"name", name, "selector", selector, "error", err,
			)
			out[name] = []models.SelectorMatch{}
			continue
		}

		matches := cascadia.QueryAll(doc, sel)
		results := make([]models.SelectorMatch, 0, len(matches))
		for _, node := range matches {
			results = append(results, models.SelectorMatch{
				Text:       Normalize(nodeText(node)),
				HTML:       innerHTML(node),
				Attributes: nodeAttributes(node),
			})
		}
		out[name] = results
	}
	return out
}

// nodeText concatenates all text nodes under n.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// innerHTML renders the children of n, mirroring element.innerHTML.
func innerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return buf.String()
		}
	}
	return buf.String()
}

func nodeAttributes(n *html.Node) map[string]string {
	if len(n.Attr) == 0 {
		return nil
	}
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		attrs[a.Key] = a.Val
	}
	return attrs
}
