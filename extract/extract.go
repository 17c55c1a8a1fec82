// Package extract turns HTML into the plain text and heading structure that
// the content scorer works on.
package extract

import (
	"html"
	"strings"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// Readability output shorter than this usually means only the title or
// metadata was picked up
const minReadableLength = 200

var headingTags = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

// Page is the scoring-relevant view of an HTML document
type Page struct {
	Title        string         `json:"title"`
	Text         string         `json:"text"`
	Headings     map[string]int `json:"headings"`
	HeadingCount int            `json:"headingCount"`
}

// FromHTML extracts title, text and heading counts from raw HTML
func FromHTML(raw string) Page {
	headings := Headings(raw)

	total := 0
	for _, n := range headings {
		total += n
	}

	return Page{
		Title:        Title(raw),
		Text:         Text(raw),
		Headings:     headings,
		HeadingCount: total,
	}
}

// IsHTML reports whether s looks like markup rather than plain text
func IsHTML(s string) bool {
	return strings.Contains(s, "<") && strings.Contains(s, ">")
}

// Text converts raw HTML into plain text. Headings, paragraphs and list items
// are kept as separate blocks so their sentence boundaries survive.
func Text(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	if !IsHTML(trimmed) {
		return trimmed
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err != nil {
		return StripTags(trimmed)
	}

	doc.Find("head, script, style, noscript, template, iframe, svg, nav, footer, aside").Remove()
	cleaned, err := doc.Html()
	if err != nil || cleaned == "" {
		cleaned = trimmed
	}

	article, err := readability.FromReader(strings.NewReader(cleaned), nil)
	if err == nil {
		var textBuf strings.Builder
		if err := article.RenderText(&textBuf); err == nil {
			if text := strings.TrimSpace(textBuf.String()); len(text) >= minReadableLength {
				return text
			}
		}
	}

	return blocks(doc)
}

// blocks joins the text of block-level elements, one block per paragraph
func blocks(doc *goquery.Document) string {
	var paragraphs []string

	doc.Find("h1, h2, h3, h4, h5, h6, p, li, blockquote, pre, td").Each(func(_ int, s *goquery.Selection) {
		// Nested blocks are collected on their own
		if s.Find("p, li").Length() > 0 {
			return
		}
		if text := normalizeWhitespace(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	if len(paragraphs) == 0 {
		body, _ := doc.Html()
		return StripTags(body)
	}
	return strings.Join(paragraphs, "\n\n")
}

// StripTags removes all markup and collapses whitespace
func StripTags(raw string) string {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return normalizeWhitespace(html.UnescapeString(p.Sanitize(raw)))
}

// Headings counts each heading level present in raw HTML
func Headings(raw string) map[string]int {
	counts := make(map[string]int, len(headingTags))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return counts
	}

	for _, tag := range headingTags {
		if n := doc.Find(tag).Length(); n > 0 {
			counts[tag] = n
		}
	}
	return counts
}

// Title returns the <title>, falling back to og:title and the first h1
func Title(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return ""
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if og, ok := doc.Find("meta[property='og:title']").First().Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og)
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
