// Package slog decorates digest collaborators with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/digest"
)

// Ensure LoggingAdapter implements digest.Adapter.
var _ digest.Adapter = (*LoggingAdapter)(nil)

// LoggingAdapter wraps an Adapter with logging.
type LoggingAdapter struct {
	next   digest.Adapter
	logger *slog.Logger
}

// NewLoggingAdapter wraps next. The result implements digest.Transcribable
// exactly when next does, so the transcription gate sees the same adapter
// capabilities.
func NewLoggingAdapter(next digest.Adapter, logger *slog.Logger) digest.Adapter {
	a := &LoggingAdapter{next: next, logger: logger}
	if t, ok := next.(digest.Transcribable); ok {
		return &loggingTranscribable{LoggingAdapter: a, t: t}
	}
	return a
}

// Kind delegates to the wrapped adapter.
func (a *LoggingAdapter) Kind() digest.SourceKind {
	return a.next.Kind()
}

// Extract logs which signals the adapter found.
func (a *LoggingAdapter) Extract(ctx context.Context, req *digest.ExtractionRequest) (content *digest.ExtractedContent, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"kind", string(req.Kind),
			"url", req.SourceURL,
			"duration", time.Since(begin),
		}
		if content != nil {
			attrs = append(attrs,
				"source", content.SourceID,
				"body", len(content.Body),
				"captions", content.Captions != "",
				"media", content.MediaURL != "",
				"sections", len(content.Sections),
			)
		}
		a.logger.Info("extract", append(attrs, "err", err)...)
	}(time.Now())
	return a.next.Extract(ctx, req)
}

type loggingTranscribable struct {
	*LoggingAdapter
	t digest.Transcribable
}

func (a *loggingTranscribable) TranscriptionInstruction(content *digest.ExtractedContent) string {
	return a.t.TranscriptionInstruction(content)
}

func (a *loggingTranscribable) VisibleText(content *digest.ExtractedContent) string {
	return a.t.VisibleText(content)
}
