package gemini

import (
	"context"
	"fmt"

	"github.com/fwojciec/digest"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// TokenizerModel is the vocabulary used to size summary prompts. The 2.5
// summary models tokenize the same way.
const TokenizerModel = "gemini-2.0-flash"

var _ digest.TokenCounter = (*TokenCounter)(nil)

// TokenCounter sizes a summary prompt offline so an oversized record is
// rejected before any Gemini request is made.
type TokenCounter struct {
	model string
	vocab *tokenizer.LocalTokenizer
}

// NewTokenCounter loads the vocabulary for model. The first call for a model
// downloads it; later calls read the local cache.
func NewTokenCounter(model string) (*TokenCounter, error) {
	vocab, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, fmt.Errorf("loading %s tokenizer: %w", model, err)
	}
	return &TokenCounter{model: model, vocab: vocab}, nil
}

// CountTokens sizes prompt as the single user turn the summarizer sends.
func (c *TokenCounter) CountTokens(ctx context.Context, prompt string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if prompt == "" {
		return 0, nil
	}

	turn := genai.NewContentFromText(prompt, genai.RoleUser)
	res, err := c.vocab.CountTokens([]*genai.Content{turn}, nil)
	if err != nil {
		return 0, fmt.Errorf("counting %s tokens: %w", c.model, err)
	}
	return int(res.TotalTokens), nil
}
