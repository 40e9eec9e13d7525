package digest

import (
	"net/url"
	"strings"
)

// SourceKind identifies the platform a URL belongs to.
type SourceKind string

// Supported source kinds.
const (
	KindRepo             SourceKind = "repo"
	KindShortVideo       SourceKind = "short_video"
	KindProfessionalPost SourceKind = "professional_post"
	KindMicroblog        SourceKind = "microblog"
	KindVideoPlatform    SourceKind = "video_platform"
)

// Kinds lists every supported source kind in a stable order.
func Kinds() []SourceKind {
	return []SourceKind{KindRepo, KindShortVideo, KindProfessionalPost, KindMicroblog, KindVideoPlatform}
}

// Valid reports whether k is a supported source kind.
func (k SourceKind) Valid() bool {
	for _, kind := range Kinds() {
		if k == kind {
			return true
		}
	}
	return false
}

var hostKinds = map[string]SourceKind{
	"github.com":    KindRepo,
	"instagram.com": KindShortVideo,
	"linkedin.com":  KindProfessionalPost,
	"x.com":         KindMicroblog,
	"twitter.com":   KindMicroblog,
	"youtube.com":   KindVideoPlatform,
	"youtu.be":      KindVideoPlatform,
}

// DetectKind maps a source URL to its kind by host.
// Returns EIDENTIFIER for unparseable URLs and unsupported hosts.
func DetectKind(rawURL string) (SourceKind, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return "", Errorf(EIDENTIFIER, "invalid source URL %q", rawURL)
	}

	host := strings.ToLower(u.Hostname())
	for _, prefix := range []string{"www.", "m.", "mobile."} {
		host = strings.TrimPrefix(host, prefix)
	}

	kind, ok := hostKinds[host]
	if !ok {
		return "", Errorf(EIDENTIFIER, "unsupported source host %q", host)
	}
	return kind, nil
}

// ExtractionRequest describes a single extraction run.
// It is created once per run and never modified.
type ExtractionRequest struct {
	SourceURL string
	Kind      SourceKind
}

// NewExtractionRequest validates the URL and returns a request.
// An empty kind is detected from the URL host.
func NewExtractionRequest(sourceURL string, kind SourceKind) (*ExtractionRequest, error) {
	sourceURL = strings.TrimSpace(sourceURL)
	if sourceURL == "" {
		return nil, Errorf(EIDENTIFIER, "source URL required")
	}

	if kind == "" {
		detected, err := DetectKind(sourceURL)
		if err != nil {
			return nil, err
		}
		kind = detected
	}
	if !kind.Valid() {
		return nil, Errorf(EIDENTIFIER, "unsupported source kind %q", kind)
	}

	return &ExtractionRequest{SourceURL: sourceURL, Kind: kind}, nil
}

// SourceKey joins a kind-specific prefix and identifier into a storage key.
// Characters that are unsafe in file names are replaced with "_".
func SourceKey(parts ...string) string {
	var cleaned []string
	for _, p := range parts {
		p = strings.Map(func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
				return r
			case r == '-' || r == '.' || r == '_':
				return r
			}
			return '_'
		}, p)
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return strings.Join(cleaned, "__")
}
