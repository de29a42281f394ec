package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/crawlio/crawlio/models"
)

const (
	chunkSize    = 1000
	chunkOverlap = 200
)

// headingLevels maps heading tag names to their numeric level.
var headingLevels = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

// StructuredText turns a parsed page into the flat full text, its
// heading-delimited sections, and overlapping chunks over the full text.
//
// The walk visits the main-content region's block elements in document order
// with a single accumulator: headings close the current section and open a
// new one; every other block appends its normalized text to both the current
// section and the running full text, paragraph-separated. A page contributing
// no non-empty blocks yields empty text and empty section/chunk lists, which
// is a valid result rather than an error.
func StructuredText(doc *goquery.Document) (string, []models.Section, []models.Chunk) {
	blocks, _ := selectContent(doc)
	return walkBlocks(blocks)
}

// walkBlocks runs the section accumulator over an ordered block list.
func walkBlocks(blocks *goquery.Selection) (string, []models.Section, []models.Chunk) {
	current := models.Section{Title: "Introduction", Level: 0}
	var sections []models.Section
	var paragraphs []string

	blocks.Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		if level, ok := headingLevels[name]; ok {
			if current.Content != "" {
				sections = append(sections, current)
			}
			id, _ := s.Attr("id")
			current = models.Section{
				Title: Normalize(s.Text()),
				Level: level,
				ID:    id,
			}
			return
		}

		text := Normalize(s.Text())
		if text == "" {
			return
		}
		if current.Content != "" {
			current.Content += "\n\n"
		}
		current.Content += text
		paragraphs = append(paragraphs, text)
	})
	if current.Content != "" {
		sections = append(sections, current)
	}

	fullText := strings.Join(paragraphs, "\n\n")
	return fullText, sections, ChunkText(fullText)
}

// ChunkText splits text into fixed-size windows of chunkSize characters with
// chunkOverlap characters of overlap: chunk i spans
// [i*(chunkSize-chunkOverlap), min(start+chunkSize, len)). Offsets are rune
// offsets into the normalized full text. Whitespace-only windows are dropped.
func ChunkText(text string) []models.Chunk {
	runes := []rune(text)
	length := len(runes)
	if length == 0 {
		return nil
	}

	step := chunkSize - chunkOverlap
	var chunks []models.Chunk
	for start := 0; start < length; start += step {
		end := start + chunkSize
		if end > length {
			end = length
		}
		piece := string(runes[start:end])
		if strings.TrimSpace(piece) != "" {
			chunks = append(chunks, models.Chunk{Text: piece, Start: start, End: end})
		}
		if end == length {
			break
		}
	}
	return chunks
}
