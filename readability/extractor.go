// Package readability finds the main text of a rendered post page with
// go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/digest"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements digest.Extractor at compile time.
var _ digest.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article content and byline of rawHTML.
func (e *Extractor) Extract(rawHTML string) (*digest.MainContent, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, digest.Errorf(digest.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &digest.MainContent{
		Title:  article.Title,
		Author: strings.TrimSpace(article.Byline),
		HTML:   article.Content,
	}, nil
}
