package digest

import (
	"context"
	"time"
)

// NoAudioContent is the transcript of a media-capable item that had neither
// a media asset nor a cheap text signal. It is part of the output contract.
const NoAudioContent = "No audio content found"

// Field is a named metadata value, e.g. {"Stars", "42"}.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Section is a free-text block destined for the summarization prompt.
// Budget is the maximum number of characters kept when the text is clamped;
// zero means unbounded.
type Section struct {
	Name   string `json:"name"`
	Text   string `json:"text"`
	Budget int    `json:"budget,omitempty"`
}

// ExtractedContent is the best-effort output of a source adapter.
// All fields are optional; an empty string means the signal was absent.
// Values are never modified after an adapter returns them.
type ExtractedContent struct {
	// SourceID is the kind-specific storage key (see SourceKey).
	SourceID string

	Author   string
	Title    string
	Body     string
	Hashtags string

	// MediaURL references a downloadable video or audio asset.
	// Only sources with native media populate it.
	MediaURL  string
	MediaType string

	// Captions holds platform-provided caption text, a cheap alternative
	// to transcribing MediaURL.
	Captions string

	Metadata []Field
	Sections []Section
}

// MediaAsset is a media file downloaded to local storage.
// It is transient and must be released once transcription finishes.
type MediaAsset struct {
	LocalPath string
	MIMEType  string
}

// NormalizedRecord is the merged output of one extraction run.
type NormalizedRecord struct {
	ID          string     `json:"id,omitempty"`
	Key         string     `json:"key"`
	SourceURL   string     `json:"sourceUrl"`
	Kind        SourceKind `json:"kind"`
	Author      string     `json:"author"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Hashtags    string     `json:"hashtags"`
	MediaURL    string     `json:"mediaUrl,omitempty"`
	Captions    string     `json:"captions,omitempty"`
	Transcript  string     `json:"transcript,omitempty"`
	Metadata    []Field    `json:"metadata,omitempty"`
	Sections    []Section  `json:"sections,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	ContentHash string     `json:"contentHash,omitempty"`
	ExtractedAt time.Time  `json:"extractedAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *NormalizedRecord) Validate() error {
	if r.Key == "" {
		return Errorf(EINVALID, "record key required")
	}
	if r.SourceURL == "" {
		return Errorf(EINVALID, "record source URL required")
	}
	if !r.Kind.Valid() {
		return Errorf(EINVALID, "record kind %q invalid", r.Kind)
	}
	return nil
}

// RecordWriter hands a completed record to persistent storage.
type RecordWriter interface {
	WriteRecord(ctx context.Context, rec *NormalizedRecord) error
}

// RecordService reads and writes records keyed by source identifier.
type RecordService interface {
	RecordWriter

	// FindRecordByKey retrieves a record by its key.
	// Returns ENOTFOUND if the record does not exist.
	FindRecordByKey(ctx context.Context, key string) (*NormalizedRecord, error)

	// FindRecords retrieves records matching the filter, newest first.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*NormalizedRecord, error)
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	Kind *SourceKind `json:"kind"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
