package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/digest"
)

// Orchestrator drives a single item through extraction, the transcription
// gate, clamping, summarization and storage. Summarizer and Writer are
// optional.
type Orchestrator struct {
	Adapters   map[digest.SourceKind]digest.Adapter
	Gate       *Gate
	Summarizer digest.Summarizer
	Writer     digest.RecordWriter
	Budgets    Budgets
	Logger     *slog.Logger

	// Now returns the extraction timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewOrchestrator returns an Orchestrator with default budgets and the given
// adapters registered by kind.
func NewOrchestrator(adapters ...digest.Adapter) *Orchestrator {
	o := &Orchestrator{
		Adapters: make(map[digest.SourceKind]digest.Adapter),
		Budgets:  DefaultBudgets(),
	}
	for _, a := range adapters {
		o.Register(a)
	}
	return o
}

// Register adds a, replacing any adapter for the same kind.
func (o *Orchestrator) Register(a digest.Adapter) {
	if o.Adapters == nil {
		o.Adapters = make(map[digest.SourceKind]digest.Adapter)
	}
	o.Adapters[a.Kind()] = a
}

// Run extracts req and returns the normalized record. The record is
// summarized and written when the respective collaborators are set.
func (o *Orchestrator) Run(ctx context.Context, req *digest.ExtractionRequest) (*digest.NormalizedRecord, error) {
	logger := o.logger().With("url", req.SourceURL, "kind", string(req.Kind))

	adapter, ok := o.Adapters[req.Kind]
	if !ok {
		return nil, digest.Errorf(digest.ENOTFOUND, "no adapter for kind %q", req.Kind)
	}

	start := time.Now()
	content, err := adapter.Extract(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", req.SourceURL, err)
	}
	logger.Debug("extracted", "source", content.SourceID, "duration", time.Since(start))

	var transcript string
	if t, ok := adapter.(digest.Transcribable); ok && o.Gate != nil {
		transcript, err = o.Gate.Transcript(ctx, content, t.VisibleText(content), t.TranscriptionInstruction(content))
		if err != nil {
			return nil, err
		}
	}

	rec := o.record(req, content, transcript)
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	if o.Summarizer != nil {
		start := time.Now()
		summary, err := o.Summarizer.Summarize(ctx, rec)
		if err != nil {
			return nil, fmt.Errorf("summarize %s: %w", rec.Key, err)
		}
		rec.Summary = summary
		logger.Debug("summarized", "duration", time.Since(start))
	}

	if o.Writer != nil {
		if err := o.Writer.WriteRecord(ctx, rec); err != nil {
			return nil, fmt.Errorf("write %s: %w", rec.Key, err)
		}
	}

	logger.Info("record complete", "key", rec.Key)
	return rec, nil
}

// record merges content and transcript into a record, applying budgets.
// content itself is left untouched.
func (o *Orchestrator) record(req *digest.ExtractionRequest, content *digest.ExtractedContent, transcript string) *digest.NormalizedRecord {
	key := content.SourceID
	if key == "" {
		key = digest.SourceKey(string(req.Kind), req.SourceURL)
	}

	var metadata []digest.Field
	if len(content.Metadata) > 0 {
		metadata = append(metadata, content.Metadata...)
	}

	return &digest.NormalizedRecord{
		Key:         key,
		SourceURL:   req.SourceURL,
		Kind:        req.Kind,
		Author:      content.Author,
		Title:       content.Title,
		Body:        content.Body,
		Hashtags:    content.Hashtags,
		MediaURL:    content.MediaURL,
		Captions:    digest.Clamp(content.Captions, o.Budgets.Captions),
		Transcript:  digest.Clamp(transcript, o.Budgets.Transcript),
		Metadata:    metadata,
		Sections:    o.Budgets.ClampSections(content.Sections),
		ExtractedAt: o.now().UTC(),
	}
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}
