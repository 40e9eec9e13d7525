package digest

// MainContent is the readable part of a rendered page as found by a
// boilerplate-removal library.
type MainContent struct {
	Title  string
	Author string

	// HTML is the article markup without navigation, footers or ads.
	HTML string
}

// Extractor finds the main content of a page. Rendered posts fall back to
// it when their own selectors come up empty.
type Extractor interface {
	Extract(html string) (*MainContent, error)
}
