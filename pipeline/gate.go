// Package pipeline runs one extraction end to end: adapter, transcription
// gate, text budgets, summary and storage.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/digest"
	"github.com/fwojciec/digest/sources"
)

// DefaultMinVisibleChars is the body length at which the visible text of a
// media post is considered enough to skip transcription.
const DefaultMinVisibleChars = 500

// Decision is the outcome of the transcription gate.
type Decision int

// Gate decisions.
const (
	// DecisionCheapText means captions or visible text are used as is.
	DecisionCheapText Decision = iota
	// DecisionTranscribe means the media asset is downloaded and transcribed.
	DecisionTranscribe
	// DecisionNoContent means there is neither text nor media.
	DecisionNoContent
)

func (d Decision) String() string {
	switch d {
	case DecisionCheapText:
		return "cheap_text"
	case DecisionTranscribe:
		return "transcribe"
	case DecisionNoContent:
		return "no_content"
	}
	return "unknown"
}

// Decide picks the cheapest path to a transcript. Captions always win.
// Visible text of at least minVisibleChars runes that is not a literal default
// also skips transcription. A non-positive minVisibleChars disables that path.
func Decide(content *digest.ExtractedContent, visible string, minVisibleChars int) Decision {
	if strings.TrimSpace(content.Captions) != "" {
		return DecisionCheapText
	}
	visible = strings.TrimSpace(visible)
	if minVisibleChars > 0 && !sources.IsDefault(visible) && utf8.RuneCountInString(visible) >= minVisibleChars {
		return DecisionCheapText
	}
	if content.MediaURL != "" {
		return DecisionTranscribe
	}
	return DecisionNoContent
}

// Gate turns native media into a transcript when no cheaper text exists.
type Gate struct {
	Media           digest.MediaAcquirer
	Transcriber     digest.Transcriber
	MinVisibleChars int
	Logger          *slog.Logger
}

// NewGate returns a Gate with the default visible-text threshold.
func NewGate(media digest.MediaAcquirer, t digest.Transcriber) *Gate {
	return &Gate{Media: media, Transcriber: t, MinVisibleChars: DefaultMinVisibleChars}
}

// Transcript returns the transcript for content. It is empty when captions
// or the visible text make transcription unnecessary, and
// digest.NoAudioContent when there is nothing to transcribe. The downloaded
// asset is released whether or not transcription succeeds.
func (g *Gate) Transcript(ctx context.Context, content *digest.ExtractedContent, visible, instruction string) (string, error) {
	logger := g.logger()

	decision := Decide(content, visible, g.MinVisibleChars)
	logger.Debug("transcription gate", "decision", decision.String(), "source", content.SourceID)
	switch decision {
	case DecisionCheapText:
		return "", nil
	case DecisionNoContent:
		return digest.NoAudioContent, nil
	}

	if g.Media == nil || g.Transcriber == nil {
		logger.Warn("transcription disabled, media left untranscribed", "source", content.SourceID)
		return "", nil
	}

	asset, err := g.Media.Acquire(ctx, content.MediaURL, content.MediaType)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := g.Media.Release(asset); err != nil {
			logger.Warn("releasing media asset", "path", asset.LocalPath, "err", err)
		}
	}()

	text, err := g.Transcriber.Transcribe(ctx, asset, instruction)
	if err != nil {
		if digest.ErrorCode(err) == digest.EINTERNAL {
			return "", digest.Errorf(digest.ETRANSCRIPTION, "transcribing %s: %v", content.SourceID, err)
		}
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (g *Gate) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return g.Logger
}
