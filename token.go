package digest

import "context"

// TokenCounter measures a prompt before it is sent to the summarizer.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
