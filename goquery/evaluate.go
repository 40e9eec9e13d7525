package goquery

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/digest"
)

// Evaluate snapshots the rendered DOM of page and runs fn over it.
// fn is a pure function of the document; it cannot touch the live page.
func Evaluate[T any](page digest.Page, fn func(doc *goquery.Document) T) (T, error) {
	var zero T

	html, err := page.HTML()
	if err != nil {
		return zero, err
	}

	doc, err := Parse(html)
	if err != nil {
		return zero, fmt.Errorf("parsing %s: %w", page.URL(), err)
	}
	return fn(doc), nil
}
