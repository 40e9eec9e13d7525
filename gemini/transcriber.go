package gemini

import (
	"context"
	"os"

	"github.com/fwojciec/digest"
	"google.golang.org/genai"
)

// DefaultTranscriptionModel is used when no model is configured.
const DefaultTranscriptionModel = "gemini-2.5-pro"

// MaxInlineBytes is the largest media file sent inline with a request.
const MaxInlineBytes = 20 << 20

// Ensure Transcriber implements digest.Transcriber at compile time.
var _ digest.Transcriber = (*Transcriber)(nil)

// Transcriber sends a media file inline with an instruction and returns the
// model's text.
type Transcriber struct {
	client *genai.Client
	model  string
}

// NewTranscriber creates a new Transcriber. An empty model uses
// DefaultTranscriptionModel.
func NewTranscriber(client *genai.Client, model string) *Transcriber {
	if model == "" {
		model = DefaultTranscriptionModel
	}
	return &Transcriber{client: client, model: model}
}

// Transcribe returns ETRANSCRIPTION when the asset cannot be read or the
// backend call fails.
func (t *Transcriber) Transcribe(ctx context.Context, asset *digest.MediaAsset, instruction string) (string, error) {
	if asset == nil || asset.LocalPath == "" {
		return "", digest.Errorf(digest.EINVALID, "media asset required")
	}
	if asset.MIMEType == "" {
		return "", digest.Errorf(digest.EINVALID, "media MIME type required")
	}

	info, err := os.Stat(asset.LocalPath)
	if err != nil {
		return "", digest.Errorf(digest.ETRANSCRIPTION, "reading media: %v", err)
	}
	if info.Size() > MaxInlineBytes {
		return "", digest.Errorf(digest.ETRANSCRIPTION, "media is %d bytes, inline limit is %d", info.Size(), MaxInlineBytes)
	}
	data, err := os.ReadFile(asset.LocalPath)
	if err != nil {
		return "", digest.Errorf(digest.ETRANSCRIPTION, "reading media: %v", err)
	}
	if t.client == nil {
		return "", digest.Errorf(digest.EINVALID, "gemini client not configured")
	}

	result, err := t.client.Models.GenerateContent(ctx, t.model,
		[]*genai.Content{{
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: asset.MIMEType, Data: data}},
				{Text: instruction},
			},
		}},
		nil,
	)
	if err != nil {
		return "", digest.Errorf(digest.ETRANSCRIPTION, "transcribing with %s: %v", t.model, err)
	}
	if result == nil {
		return "", digest.Errorf(digest.ETRANSCRIPTION, "gemini returned nil result")
	}

	return result.Text(), nil
}
