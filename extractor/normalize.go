package extractor

import "strings"

// replacer canonicalises typographic characters before whitespace collapsing.
var replacer = strings.NewReplacer(
	" ", " ", // non-breaking space
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"–", "-", // en dash
	"—", "-", // em dash
	"…", "...", // horizontal ellipsis
)

// Normalize cleans a block of extracted text into canonical form: typographic
// quotes/dashes become their ASCII equivalents and all whitespace runs
// (including newlines) collapse to a single space.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s). The
// extraction pipeline relies on this and applies it exactly once per block;
// chunk text is sliced from already-normalized full text and never re-cleaned.
func Normalize(s string) string {
	s = replacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
