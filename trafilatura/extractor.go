// Package trafilatura finds the main text of a rendered post page with
// go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/digest"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements digest.Extractor at compile time.
var _ digest.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura. Reply threads are dropped so only the
// post itself is returned.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the main content of rawHTML.
func (e *Extractor) Extract(rawHTML string) (*digest.MainContent, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, digest.Errorf(digest.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
	})
	if err != nil {
		return nil, err
	}

	out := &digest.MainContent{
		Title:  result.Metadata.Title,
		Author: result.Metadata.Author,
	}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		out.HTML = buf.String()
	}
	return out, nil
}
