package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/digest"
)

// YouTube endpoints.
const (
	YouTubeWatchURL  = "https://www.youtube.com/watch"
	YouTubeOEmbedURL = "https://www.youtube.com/oembed"
	TimedTextURL     = "https://video.google.com/timedtext"
)

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`v=([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`youtu\.be/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`shorts/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`embed/([0-9A-Za-z_-]{11})`),
}

// VideoID returns the 11-character video identifier from a watch, short,
// shorts or embed link. The first matching shape wins.
func VideoID(rawURL string) (string, error) {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return m[1], nil
		}
	}
	return "", digest.Errorf(digest.EIDENTIFIER, "no video ID in %q", rawURL)
}

// Ensure YouTube implements the adapter interfaces at compile time.
var (
	_ digest.Adapter       = (*YouTube)(nil)
	_ digest.Transcribable = (*YouTube)(nil)
)

// YouTube extracts video metadata and captions. When no captions exist the
// best audio stream is offered for transcription.
type YouTube struct {
	Fetcher digest.ResourceFetcher

	WatchURL     string
	OEmbedURL    string
	TimedTextURL string
	Timeout      time.Duration

	Logger *slog.Logger
}

// NewYouTube returns a YouTube adapter with the public endpoints.
func NewYouTube(f digest.ResourceFetcher) *YouTube {
	return &YouTube{
		Fetcher:      f,
		WatchURL:     YouTubeWatchURL,
		OEmbedURL:    YouTubeOEmbedURL,
		TimedTextURL: TimedTextURL,
		Timeout:      DefaultTimeout,
	}
}

// Kind returns digest.KindVideoPlatform.
func (y *YouTube) Kind() digest.SourceKind { return digest.KindVideoPlatform }

type videoMeta struct {
	Title       string
	Description string
	Author      string
	Length      string
	AudioURL    string
	AudioType   string
}

type playerResponse struct {
	VideoDetails struct {
		Title            string `json:"title"`
		ShortDescription string `json:"shortDescription"`
		Author           string `json:"author"`
		LengthSeconds    string `json:"lengthSeconds"`
	} `json:"videoDetails"`
	StreamingData struct {
		AdaptiveFormats []struct {
			URL      string `json:"url"`
			MimeType string `json:"mimeType"`
			Bitrate  int    `json:"bitrate"`
		} `json:"adaptiveFormats"`
	} `json:"streamingData"`
}

// Extract resolves the video ID and runs the metadata and caption chains.
func (y *YouTube) Extract(ctx context.Context, req *digest.ExtractionRequest) (*digest.ExtractedContent, error) {
	id, err := VideoID(req.SourceURL)
	if err != nil {
		return nil, err
	}
	logger := discard(y.Logger).With("video", id)

	meta, err := digest.Chain(ctx, logger, func(m *videoMeta) bool { return m != nil && m.Title != "" },
		digest.Tier[*videoMeta]{Name: "player response", Try: func(ctx context.Context) (*videoMeta, error) { return y.playerMeta(ctx, id) }},
		digest.Tier[*videoMeta]{Name: "oembed", Try: func(ctx context.Context) (*videoMeta, error) { return y.oembedMeta(ctx, id) }},
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		meta = &videoMeta{Title: UnknownTitle, Description: NoDescription}
	}

	captions, err := y.Captions(ctx, id)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Debug("captions unavailable", "err", err)
		captions = ""
	}

	content := &digest.ExtractedContent{
		SourceID:  digest.SourceKey("youtube", id),
		Author:    firstNonBlank(meta.Author, UnknownAuthor),
		Title:     meta.Title,
		Body:      meta.Description,
		Hashtags:  Hashtags(meta.Description),
		MediaURL:  meta.AudioURL,
		MediaType: meta.AudioType,
		Captions:  captions,
		Metadata:  []digest.Field{field("Video ID", id)},
	}
	if meta.Length != "" {
		content.Metadata = append(content.Metadata, field("Length Seconds", meta.Length))
	}
	return content, nil
}

// TranscriptionInstruction asks for a transcript, summary and key points.
func (y *YouTube) TranscriptionInstruction(content *digest.ExtractedContent) string {
	return fmt.Sprintf(`You are an AI transcriber and summarizer.
1. Transcribe the spoken content.
2. Provide a detailed summary.
3. Extract key points and tone.

Video Info:
Title: %s
Description: %s
`, content.Title, content.Body)
}

// VisibleText is always empty. The description is uploader metadata, not a
// stand-in for what is said, so an uncaptioned video is always transcribed.
func (y *YouTube) VisibleText(*digest.ExtractedContent) string {
	return ""
}

var playerMarker = []byte("ytInitialPlayerResponse")

func (y *YouTube) playerMeta(ctx context.Context, id string) (*videoMeta, error) {
	page, err := digest.GetText(ctx, y.Fetcher, digest.Request{
		URL:     y.WatchURL + "?v=" + url.QueryEscape(id),
		Headers: map[string]string{"User-Agent": "Mozilla/5.0", "Accept-Language": AcceptLanguage},
		Timeout: y.Timeout,
	})
	if err != nil {
		return nil, err
	}

	raw := findAssignedJSON([]byte(page), playerMarker)
	if raw == nil {
		return nil, errors.New("player response not found")
	}
	var pr playerResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return nil, fmt.Errorf("decoding player response: %w", err)
	}

	meta := &videoMeta{
		Title:       html.UnescapeString(pr.VideoDetails.Title),
		Description: html.UnescapeString(pr.VideoDetails.ShortDescription),
		Author:      pr.VideoDetails.Author,
		Length:      pr.VideoDetails.LengthSeconds,
	}

	bestRate := -1
	for _, f := range pr.StreamingData.AdaptiveFormats {
		mimeType, _, _ := strings.Cut(f.MimeType, ";")
		if f.URL == "" || !strings.HasPrefix(mimeType, "audio/") {
			continue
		}
		// audio/webm beats any other container; bitrate breaks ties.
		webm := mimeType == "audio/webm"
		haveWebm := meta.AudioType == "audio/webm"
		if (webm && !haveWebm) || (webm == haveWebm && f.Bitrate > bestRate) {
			meta.AudioURL, meta.AudioType, bestRate = f.URL, mimeType, f.Bitrate
		}
	}
	return meta, nil
}

func (y *YouTube) oembedMeta(ctx context.Context, id string) (*videoMeta, error) {
	var resp struct {
		Title      string `json:"title"`
		AuthorName string `json:"author_name"`
	}
	watch := y.WatchURL + "?v=" + id
	err := digest.GetJSON(ctx, y.Fetcher, digest.Request{
		URL:     y.OEmbedURL + "?format=json&url=" + url.QueryEscape(watch),
		Timeout: y.Timeout,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &videoMeta{Title: resp.Title, Author: resp.AuthorName, Description: NoDescription}, nil
}

// CaptionTrack is one entry of a timedtext track listing.
type CaptionTrack struct {
	LangCode string
	Kind     string
	Name     string
}

// Captions lists the caption tracks for id, picks one and returns its text
// segments joined by single spaces.
func (y *YouTube) Captions(ctx context.Context, id string) (string, error) {
	listXML, err := digest.GetText(ctx, y.Fetcher, digest.Request{
		URL:     fmt.Sprintf("%s?type=list&v=%s&hl=en", y.TimedTextURL, url.QueryEscape(id)),
		Timeout: y.Timeout,
		Kind:    digest.BodyXML,
	})
	if err != nil {
		return "", err
	}
	tracks, err := ParseTrackList(listXML)
	if err != nil {
		return "", err
	}
	track, ok := PickTrack(tracks)
	if !ok {
		return "", digest.Errorf(digest.EUNAVAILABLE, "no caption tracks")
	}

	trackXML, err := digest.GetText(ctx, y.Fetcher, digest.Request{
		URL:     fmt.Sprintf("%s?lang=%s&v=%s", y.TimedTextURL, url.QueryEscape(track.LangCode), url.QueryEscape(id)),
		Timeout: y.Timeout,
		Kind:    digest.BodyXML,
	})
	if err != nil {
		return "", err
	}
	text, err := ParseTimedText(trackXML)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", digest.Errorf(digest.EUNAVAILABLE, "caption track %s is empty", track.LangCode)
	}
	return text, nil
}

// ParseTrackList reads a timedtext track listing.
func ParseTrackList(xml string) ([]CaptionTrack, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		return nil, fmt.Errorf("parsing track list: %w", err)
	}
	root := doc.SelectElement("transcript_list")
	if root == nil {
		return nil, nil
	}

	var tracks []CaptionTrack
	for _, el := range root.SelectElements("track") {
		tracks = append(tracks, CaptionTrack{
			LangCode: el.SelectAttrValue("lang_code", ""),
			Kind:     el.SelectAttrValue("kind", ""),
			Name:     el.SelectAttrValue("name", ""),
		})
	}
	return tracks, nil
}

// PickTrack prefers an English track, then an auto-generated one, then the
// first listed.
func PickTrack(tracks []CaptionTrack) (CaptionTrack, bool) {
	if len(tracks) == 0 {
		return CaptionTrack{}, false
	}
	for _, t := range tracks {
		if strings.HasPrefix(t.LangCode, "en") {
			return t, true
		}
	}
	for _, t := range tracks {
		if t.Kind == "asr" {
			return t, true
		}
	}
	return tracks[0], true
}

// ParseTimedText joins the text segments of a caption track in document
// order. Segments carry entities escaped twice, so they are decoded again
// after XML parsing.
func ParseTimedText(xml string) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		return "", fmt.Errorf("parsing caption track: %w", err)
	}
	root := doc.SelectElement("transcript")
	if root == nil {
		return "", nil
	}

	var parts []string
	for _, el := range root.SelectElements("text") {
		if t := strings.Join(strings.Fields(html.UnescapeString(el.Text())), " "); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " "), nil
}

// findAssignedJSON returns the object literal assigned after marker, e.g.
// `marker = {...};`, using brace depth so nested objects and strings
// containing "};" are handled.
func findAssignedJSON(page, marker []byte) []byte {
	i := bytes.Index(page, marker)
	if i < 0 {
		return nil
	}
	rest := page[i+len(marker):]
	eq := bytes.IndexByte(rest, '=')
	if eq < 0 {
		return nil
	}
	rest = bytes.TrimLeft(rest[eq+1:], " \t\r\n")
	return extractJSON(rest)
}

func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}

// firstNonBlank returns the first argument that is not blank.
func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
