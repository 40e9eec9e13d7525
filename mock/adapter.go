package mock

import (
	"context"

	"github.com/fwojciec/digest"
)

var (
	_ digest.Adapter       = (*Adapter)(nil)
	_ digest.Adapter       = (*TranscribableAdapter)(nil)
	_ digest.Transcribable = (*TranscribableAdapter)(nil)
)

// Adapter is a mock implementation of digest.Adapter.
type Adapter struct {
	KindFn    func() digest.SourceKind
	ExtractFn func(ctx context.Context, req *digest.ExtractionRequest) (*digest.ExtractedContent, error)
}

func (a *Adapter) Kind() digest.SourceKind {
	return a.KindFn()
}

func (a *Adapter) Extract(ctx context.Context, req *digest.ExtractionRequest) (*digest.ExtractedContent, error) {
	return a.ExtractFn(ctx, req)
}

// TranscribableAdapter is a mock adapter for sources with native media.
type TranscribableAdapter struct {
	Adapter
	TranscriptionInstructionFn func(content *digest.ExtractedContent) string
	VisibleTextFn              func(content *digest.ExtractedContent) string
}

func (a *TranscribableAdapter) TranscriptionInstruction(content *digest.ExtractedContent) string {
	return a.TranscriptionInstructionFn(content)
}

func (a *TranscribableAdapter) VisibleText(content *digest.ExtractedContent) string {
	return a.VisibleTextFn(content)
}
