package pipeline

import "github.com/fwojciec/digest"

// Default budgets for free text that does not carry its own.
const (
	DefaultTranscriptBudget = 30000
	DefaultCaptionsBudget   = 30000
)

// Budgets caps the free-text fields of a record before it reaches the
// summarizer.
type Budgets struct {
	// Sections overrides the budget an adapter set on a section, by name.
	Sections   map[string]int
	Transcript int
	Captions   int
}

// DefaultBudgets returns the transcript and caption defaults with no section
// overrides.
func DefaultBudgets() Budgets {
	return Budgets{Transcript: DefaultTranscriptBudget, Captions: DefaultCaptionsBudget}
}

// Section returns the effective budget for a section.
func (b Budgets) Section(s digest.Section) int {
	if n, ok := b.Sections[s.Name]; ok {
		return n
	}
	return s.Budget
}

// ClampSections returns copies of sections clamped to their budgets.
func (b Budgets) ClampSections(sections []digest.Section) []digest.Section {
	if len(sections) == 0 {
		return nil
	}
	out := make([]digest.Section, len(sections))
	for i, s := range sections {
		budget := b.Section(s)
		out[i] = digest.Section{Name: s.Name, Text: digest.Clamp(s.Text, budget), Budget: budget}
	}
	return out
}
