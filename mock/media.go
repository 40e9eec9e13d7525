package mock

import (
	"context"

	"github.com/fwojciec/digest"
)

var (
	_ digest.MediaAcquirer = (*MediaAcquirer)(nil)
	_ digest.Transcriber   = (*Transcriber)(nil)
	_ digest.Summarizer    = (*Summarizer)(nil)
)

// MediaAcquirer is a mock implementation of digest.MediaAcquirer.
type MediaAcquirer struct {
	AcquireFn func(ctx context.Context, mediaURL, mimeType string) (*digest.MediaAsset, error)
	ReleaseFn func(asset *digest.MediaAsset) error
}

func (m *MediaAcquirer) Acquire(ctx context.Context, mediaURL, mimeType string) (*digest.MediaAsset, error) {
	return m.AcquireFn(ctx, mediaURL, mimeType)
}

func (m *MediaAcquirer) Release(asset *digest.MediaAsset) error {
	return m.ReleaseFn(asset)
}

// Transcriber is a mock implementation of digest.Transcriber.
type Transcriber struct {
	TranscribeFn func(ctx context.Context, asset *digest.MediaAsset, instruction string) (string, error)
}

func (t *Transcriber) Transcribe(ctx context.Context, asset *digest.MediaAsset, instruction string) (string, error) {
	return t.TranscribeFn(ctx, asset, instruction)
}

// Summarizer is a mock implementation of digest.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, rec *digest.NormalizedRecord) (string, error)
}

func (s *Summarizer) Summarize(ctx context.Context, rec *digest.NormalizedRecord) (string, error) {
	return s.SummarizeFn(ctx, rec)
}
