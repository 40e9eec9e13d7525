package gemini

import (
	"context"
	"log/slog"

	"github.com/fwojciec/digest"
	"google.golang.org/genai"
)

// DefaultSummaryModel is used when no model is configured.
const DefaultSummaryModel = "gemini-2.5-flash"

// Ensure Summarizer implements digest.Summarizer at compile time.
var _ digest.Summarizer = (*Summarizer)(nil)

// Summarizer implements digest.Summarizer using Google Gemini.
type Summarizer struct {
	client *genai.Client
	model  string

	// Counter and MaxPromptTokens reject oversized prompts before the call.
	// Either left unset disables the check.
	Counter         digest.TokenCounter
	MaxPromptTokens int

	Logger *slog.Logger
}

// NewSummarizer creates a new Summarizer. An empty model uses
// DefaultSummaryModel.
func NewSummarizer(client *genai.Client, model string) *Summarizer {
	if model == "" {
		model = DefaultSummaryModel
	}
	return &Summarizer{client: client, model: model, Logger: slog.New(slog.DiscardHandler)}
}

// Summarize sends the record's prompt to Gemini and returns the response text.
func (s *Summarizer) Summarize(ctx context.Context, rec *digest.NormalizedRecord) (string, error) {
	if rec == nil {
		return "", digest.Errorf(digest.EINVALID, "record required")
	}
	if err := rec.Validate(); err != nil {
		return "", err
	}

	prompt := BuildPrompt(rec)
	if s.Counter != nil && s.MaxPromptTokens > 0 {
		n, err := s.Counter.CountTokens(ctx, prompt)
		if err != nil {
			return "", err
		}
		s.Logger.Debug("summary prompt", "key", rec.Key, "tokens", n)
		if n > s.MaxPromptTokens {
			return "", digest.Errorf(digest.EINVALID, "prompt for %s is %d tokens, limit %d", rec.Key, n, s.MaxPromptTokens)
		}
	}
	if s.client == nil {
		return "", digest.Errorf(digest.EINVALID, "gemini client not configured")
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", digest.Errorf(digest.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}
