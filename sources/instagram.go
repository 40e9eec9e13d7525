package sources

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/digest"
	"github.com/fwojciec/digest/goquery"
)

// Instagram render settings.
const (
	InstagramRenderTimeout   = 60 * time.Second
	InstagramSelectorTimeout = 25 * time.Second
	InstagramMediaType       = "video/mp4"
)

var shortcodeRe = regexp.MustCompile(`/(?:p|reel|reels|tv)/([0-9A-Za-z_-]+)`)

// Ensure Instagram implements the adapter interfaces at compile time.
var (
	_ digest.Adapter       = (*Instagram)(nil)
	_ digest.Transcribable = (*Instagram)(nil)
)

// Instagram reads the embed view of a post or reel.
type Instagram struct {
	Renderer digest.Renderer
	Timeout  time.Duration
	Logger   *slog.Logger
}

// NewInstagram returns an Instagram adapter rendering through r.
func NewInstagram(r digest.Renderer) *Instagram {
	return &Instagram{Renderer: r, Timeout: InstagramRenderTimeout}
}

// Kind returns digest.KindShortVideo.
func (a *Instagram) Kind() digest.SourceKind { return digest.KindShortVideo }

// EmbedURL returns the embed view of a post URL.
func EmbedURL(postURL string) string {
	base, _, _ := strings.Cut(postURL, "?")
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + "embed/"
}

type instagramPost struct {
	Author   string
	Caption  string
	Title    string
	VideoURL string
}

// Extract renders the embed page and reads author, caption, title and video.
func (a *Instagram) Extract(ctx context.Context, req *digest.ExtractionRequest) (*digest.ExtractedContent, error) {
	m := shortcodeRe.FindStringSubmatch(req.SourceURL)
	if m == nil {
		return nil, digest.Errorf(digest.EIDENTIFIER, "no post shortcode in %q", req.SourceURL)
	}
	shortcode := m[1]
	logger := discard(a.Logger).With("shortcode", shortcode)

	post := instagramPost{Author: UnknownAuthor, Caption: NoCaption, Title: InstagramTitle}
	page, err := a.Renderer.Render(ctx, EmbedURL(req.SourceURL), digest.WaitStrategy{
		NetworkIdle:     true,
		Selector:        "article",
		SelectorTimeout: InstagramSelectorTimeout,
		Optional:        true,
	}, a.Timeout)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("render failed, using defaults", "err", err)
	} else {
		defer page.Close()
		read, err := goquery.Evaluate(page, readInstagramPost)
		if err != nil {
			logger.Warn("reading embed page", "err", err)
		} else {
			post = read
		}
	}

	content := &digest.ExtractedContent{
		SourceID: digest.SourceKey("instagram", shortcode),
		Author:   post.Author,
		Title:    post.Title,
		Body:     post.Caption,
		Hashtags: Hashtags(post.Caption),
	}
	if post.VideoURL != "" {
		content.MediaURL = post.VideoURL
		content.MediaType = InstagramMediaType
	}
	return content, nil
}

func readInstagramPost(doc *gq.Document) instagramPost {
	return instagramPost{
		Author: goquery.First(doc, UnknownAuthor,
			goquery.Text("a[href*='/']"),
			goquery.Text("header span"),
		),
		Caption: goquery.First(doc, NoCaption,
			goquery.Text("h1"),
			goquery.MetaContent("meta[property='og:description']"),
		),
		Title: goquery.First(doc, InstagramTitle,
			goquery.Text("title"),
		),
		VideoURL: goquery.First(doc, "", goquery.Attr("video", "src")),
	}
}

// TranscriptionInstruction asks for a verbatim transcript.
func (a *Instagram) TranscriptionInstruction(*digest.ExtractedContent) string {
	return "Transcribe all spoken audio from this Instagram video clearly and accurately."
}

// VisibleText is the post caption.
func (a *Instagram) VisibleText(content *digest.ExtractedContent) string {
	return content.Body
}
