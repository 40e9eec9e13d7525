package mock

import "github.com/fwojciec/digest"

var _ digest.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of digest.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*digest.MainContent, error)
}

func (e *Extractor) Extract(html string) (*digest.MainContent, error) {
	return e.ExtractFn(html)
}
