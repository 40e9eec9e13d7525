package digest

// Converter turns main-content HTML into markdown for the record body.
type Converter interface {
	// Convert returns EINVALID for blank input.
	Convert(html string) (string, error)
}
