package digest

import "context"

// Adapter extracts content from one source platform.
type Adapter interface {
	// Kind returns the source kind the adapter handles.
	Kind() SourceKind

	// Extract runs the adapter's fallback chain. Tiers that fail are
	// downgraded to absent fields; only identifier and resolution failures
	// are returned as errors.
	Extract(ctx context.Context, req *ExtractionRequest) (*ExtractedContent, error)
}

// Transcribable is implemented by adapters for sources with native media.
// Only their output passes through the transcription gate.
type Transcribable interface {
	// TranscriptionInstruction returns the task text sent with the media.
	TranscriptionInstruction(content *ExtractedContent) string
	// VisibleText returns the text a viewer reads on the post itself, such
	// as a caption. Empty when nothing on the page stands in for the audio.
	VisibleText(content *ExtractedContent) string
}

// MediaAcquirer downloads media assets to local storage.
type MediaAcquirer interface {
	// Acquire streams mediaURL to a local file.
	// Returns EDOWNLOAD on any network or write error.
	Acquire(ctx context.Context, mediaURL, mimeType string) (*MediaAsset, error)

	// Release removes the local file.
	Release(asset *MediaAsset) error
}

// Transcriber converts a media asset to text using an external backend.
type Transcriber interface {
	// Transcribe returns ETRANSCRIPTION if the backend call fails.
	Transcribe(ctx context.Context, asset *MediaAsset, instruction string) (string, error)
}

// Summarizer produces a summary of a normalized record.
// Output is not deterministic for identical input.
type Summarizer interface {
	Summarize(ctx context.Context, rec *NormalizedRecord) (string, error)
}
