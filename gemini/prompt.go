// Package gemini implements summarization and transcription on Google Gemini.
package gemini

import (
	"fmt"
	"strings"

	"github.com/fwojciec/digest"
	"google.golang.org/genai"
)

const repoInstructions = `You are a senior developer summarizing a GitHub repository.

Summarize this repository as:
1. Short summary (2-3 lines)
2. Detailed breakdown (5-8 bullet points)
3. Key files/modules and their roles
4. Probable tech stack and architecture
5. Risks or missing aspects`

const postInstructions = `You are summarizing a social media post for a reading digest.

Provide:
1. Short summary (2-3 lines)
2. Key points as bullets
3. Tone and intended audience
4. Any links, products or people mentioned`

const videoInstructions = `You are summarizing a video for a reading digest.

Provide:
1. Short summary (2-3 lines)
2. Detailed summary of the spoken content
3. Key points and tone`

// BuildConfig returns the GenerateContentConfig for summary calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You write faithful summaries of the material provided. Use only the material given. If a section is empty or truncated, work with what is there and do not invent content.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildPrompt renders a record as the summarization prompt. Sections are
// expected to be clamped already.
func BuildPrompt(rec *digest.NormalizedRecord) string {
	var sb strings.Builder
	sb.WriteString(instructions(rec.Kind))
	sb.WriteString("\n\n=== Metadata ===\n")

	if rec.Kind == digest.KindRepo {
		fmt.Fprintf(&sb, "Name: %s\n", rec.Title)
		fmt.Fprintf(&sb, "Description: %s\n", rec.Body)
	} else {
		fmt.Fprintf(&sb, "Source: %s\n", rec.SourceURL)
		fmt.Fprintf(&sb, "Author: %s\n", rec.Author)
		if rec.Title != "" {
			fmt.Fprintf(&sb, "Title: %s\n", rec.Title)
		}
		if rec.Hashtags != "" {
			fmt.Fprintf(&sb, "Hashtags: %s\n", rec.Hashtags)
		}
	}
	for _, f := range rec.Metadata {
		if f.Name == "Name" || f.Name == "Description" {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s\n", f.Name, f.Value)
	}

	block := func(name, text string) {
		fmt.Fprintf(&sb, "\n=== %s ===\n%s\n", name, text)
	}
	if rec.Kind != digest.KindRepo && rec.Body != "" {
		block("Content", rec.Body)
	}
	for _, s := range rec.Sections {
		name := s.Name
		if s.Budget > 0 {
			name += " (truncated)"
		}
		block(name, s.Text)
	}
	if rec.Captions != "" {
		block("Captions", rec.Captions)
	}
	if rec.Transcript != "" {
		block("Transcript", rec.Transcript)
	}
	return sb.String()
}

func instructions(kind digest.SourceKind) string {
	switch kind {
	case digest.KindRepo:
		return repoInstructions
	case digest.KindVideoPlatform, digest.KindShortVideo:
		return videoInstructions
	default:
		return postInstructions
	}
}
