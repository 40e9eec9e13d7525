// Package sources implements one digest.Adapter per supported platform.
//
// Every adapter runs an ordered fallback chain per field: the cheapest
// structured signal first, then rendered-page selectors in fixed priority,
// then a literal default. Tier failures are logged and never abort the run.
package sources

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/fwojciec/digest"
)

// Literal defaults used when every tier of a field comes up empty.
const (
	UnknownAuthor  = "Unknown"
	NoCaption      = "No caption found"
	UnknownTitle   = "Unknown"
	NoDescription  = "Unavailable"
	TweetError     = "Error extracting tweet."
	InstagramTitle = "Instagram Post"
	LinkedInTitle  = "LinkedIn Post"
	MicroblogTitle = "Post on X"
)

// Request defaults shared by the adapters.
const (
	BrowserUA      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
	AcceptLanguage = "en-US,en;q=0.9"
	DefaultTimeout = 30 * time.Second
)

// Defaults lists the literal fallbacks. Text equal to one of them is not a
// real signal.
func Defaults() []string {
	return []string{UnknownAuthor, NoCaption, NoDescription, TweetError, InstagramTitle, LinkedInTitle, MicroblogTitle}
}

// IsDefault reports whether s is one of the literal fallbacks.
func IsDefault(s string) bool {
	s = strings.TrimSpace(s)
	for _, d := range Defaults() {
		if s == d {
			return true
		}
	}
	return false
}

var hashtagRe = regexp.MustCompile(`#[\p{L}\p{N}_]+`)

// Hashtags returns the #tags in text joined by single spaces, in order of
// first appearance.
func Hashtags(text string) string {
	seen := make(map[string]bool)
	var tags []string
	for _, tag := range hashtagRe.FindAllString(text, -1) {
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return strings.Join(tags, " ")
}

func discard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

func field(name, value string) digest.Field {
	return digest.Field{Name: name, Value: value}
}
