package usecase

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Package-level compiled regex pattern for performance
var multipleSpacesRegex = regexp.MustCompile(`\s+`)

// Title extraction bounds: raw element text outside [3,160] characters is
// treated as empty/garbage; accepted titles are truncated to 120.
const (
	titleMinLen = 3
	titleMaxLen = 160
	titleCutLen = 120
)

// titlePlaceholder is returned when neither the title element nor a heading
// yields usable text. Title extraction never fails outright; a placeholder
// simply scores poorly against the query downstream.
const titlePlaceholder = "Medicine"

// Page wraps one source's raw proxy text together with a DOM parsed once and
// shared by the price and title extractors.
type Page struct {
	raw string
	doc *goquery.Document
}

// ParsePage parses raw page text into a Page. The proxy sometimes returns
// plain text rather than markup; goquery tolerates that, and the pattern
// price tier works on the raw text regardless.
func ParsePage(raw string) *Page {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		doc = nil
	}
	return &Page{raw: raw, doc: doc}
}

// Raw returns the unparsed page text
func (p *Page) Raw() string {
	return p.raw
}

// clean collapses whitespace and trims
func clean(s string) string {
	return strings.TrimSpace(multipleSpacesRegex.ReplaceAllString(s, " "))
}

// usableTitle validates raw element text against the title bounds and
// returns the cleaned, truncated result.
func usableTitle(raw string) (string, bool) {
	if len(raw) < titleMinLen || len(raw) > titleMaxLen {
		return "", false
	}
	title := clean(raw)
	if len(title) < titleMinLen {
		return "", false
	}
	if runes := []rune(title); len(runes) > titleCutLen {
		title = string(runes[:titleCutLen])
	}
	return title, true
}

// Title extracts the best product name guess from the page: the title
// element first, then the first h1/h2 heading, then a fixed placeholder.
func (p *Page) Title() string {
	if p.doc == nil {
		return titlePlaceholder
	}

	if title, ok := usableTitle(p.doc.Find("title").First().Text()); ok {
		return title
	}

	var heading string
	p.doc.Find("h1, h2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if title, ok := usableTitle(s.Text()); ok {
			heading = title
			return false
		}
		return true
	})
	if heading != "" {
		return heading
	}

	return titlePlaceholder
}

// CanonicalURL returns the page's declared canonical link, or "" if absent.
func (p *Page) CanonicalURL() string {
	if p.doc == nil {
		return ""
	}
	href, ok := p.doc.Find(`link[rel="canonical"]`).First().Attr("href")
	if !ok {
		return ""
	}
	return strings.TrimSpace(href)
}
