package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Probe reads one candidate value from a parsed document. Probes never fail:
// a missing node yields the empty string.
type Probe func(doc *goquery.Document) string

// First returns the first non-empty trimmed probe result, or fallback.
func First(doc *goquery.Document, fallback string, probes ...Probe) string {
	if doc == nil {
		return fallback
	}
	for _, probe := range probes {
		if v := strings.TrimSpace(probe(doc)); v != "" {
			return v
		}
	}
	return fallback
}

// Text returns the text of the first element matching selector.
func Text(selector string) Probe {
	return func(doc *goquery.Document) string {
		return strings.TrimSpace(doc.Find(selector).First().Text())
	}
}

// Attr returns attribute attr of the first element matching selector.
func Attr(selector, attr string) Probe {
	return func(doc *goquery.Document) string {
		v, _ := doc.Find(selector).First().Attr(attr)
		return strings.TrimSpace(v)
	}
}

// MetaContent returns the content attribute of the first matching meta tag.
func MetaContent(selector string) Probe {
	return Attr(selector, "content")
}

// AllText joins the trimmed, non-empty texts of every matching element.
func AllText(selector, sep string) Probe {
	return func(doc *goquery.Document) string {
		var parts []string
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if t := strings.TrimSpace(s.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		return strings.Join(parts, sep)
	}
}

// Parse builds a document from an HTML string.
func Parse(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}
