package sources

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"time"

	"github.com/fwojciec/digest"
	"github.com/fwojciec/digest/goquery"
)

// Strategy selects how X posts are read. The caller picks one; strategies
// are never chained.
type Strategy string

// Strategies.
const (
	StrategyOEmbed Strategy = "oembed"
	StrategyRender Strategy = "render"
)

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	return s == StrategyOEmbed || s == StrategyRender
}

// X defaults.
const (
	XOEmbedURL         = "https://publish.twitter.com/oembed"
	XRenderTimeout     = 60 * time.Second
	XSelectorTimeout   = 20 * time.Second
	XTweetSelector     = `article[data-testid="tweet"]`
	XTweetTextSelector = `div[data-testid="tweetText"]`
	XUserNameSelector  = `div[data-testid="User-Name"] span`
)

var statusRe = regexp.MustCompile(`/status(?:es)?/(\d+)`)

// StatusID returns the numeric status ID of a post URL.
func StatusID(rawURL string) (string, error) {
	m := statusRe.FindStringSubmatch(rawURL)
	if m == nil {
		return "", digest.Errorf(digest.EIDENTIFIER, "no status ID in %q", rawURL)
	}
	return m[1], nil
}

// Ensure X implements digest.Adapter at compile time.
var _ digest.Adapter = (*X)(nil)

// X reads microblog posts either from the public oEmbed endpoint or from
// the rendered status page.
type X struct {
	Strategy Strategy

	// Fetcher serves the oembed strategy.
	Fetcher   digest.ResourceFetcher
	OEmbedURL string
	Timeout   time.Duration

	// Renderer and the main-content tiers serve the render strategy.
	Renderer      digest.Renderer
	Trafilatura   digest.Extractor
	Readability   digest.Extractor
	Converter     digest.Converter
	RenderTimeout time.Duration

	Logger *slog.Logger
}

// NewX returns an X adapter using the oembed strategy.
func NewX(f digest.ResourceFetcher) *X {
	return &X{
		Strategy:      StrategyOEmbed,
		Fetcher:       f,
		OEmbedURL:     XOEmbedURL,
		Timeout:       DefaultTimeout,
		RenderTimeout: XRenderTimeout,
	}
}

// Kind returns digest.KindMicroblog.
func (a *X) Kind() digest.SourceKind { return digest.KindMicroblog }

// Extract reads the post with the configured strategy.
func (a *X) Extract(ctx context.Context, req *digest.ExtractionRequest) (*digest.ExtractedContent, error) {
	id, err := StatusID(req.SourceURL)
	if err != nil {
		return nil, err
	}
	logger := discard(a.Logger).With("status", id, "strategy", string(a.Strategy))

	var content *digest.ExtractedContent
	switch a.Strategy {
	case StrategyOEmbed, "":
		content, err = a.oembed(ctx, logger, req.SourceURL)
	case StrategyRender:
		content, err = a.render(ctx, logger, req.SourceURL)
	default:
		return nil, digest.Errorf(digest.EINVALID, "unknown strategy %q", a.Strategy)
	}
	if err != nil {
		return nil, err
	}
	content.SourceID = digest.SourceKey("x", id)
	return content, nil
}

type oembedResponse struct {
	AuthorName string `json:"author_name"`
	AuthorURL  string `json:"author_url"`
	HTML       string `json:"html"`
}

func (a *X) oembed(ctx context.Context, logger *slog.Logger, postURL string) (*digest.ExtractedContent, error) {
	var resp oembedResponse
	err := digest.GetJSON(ctx, a.Fetcher, digest.Request{
		URL:     a.OEmbedURL + "?url=" + url.QueryEscape(postURL),
		Headers: map[string]string{"User-Agent": BrowserUA, "Accept-Language": AcceptLanguage},
		Timeout: a.Timeout,
	}, &resp)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("oembed failed", "err", err)
		return &digest.ExtractedContent{Author: UnknownAuthor, Title: MicroblogTitle, Body: TweetError}, nil
	}

	content := &digest.ExtractedContent{
		Author: firstNonBlank(resp.AuthorName, UnknownAuthor),
		Title:  MicroblogTitle,
		Body:   firstNonBlank(goquery.FirstParagraph(resp.HTML), NoCaption),
	}
	if doc, err := goquery.Parse(resp.HTML); err == nil {
		content.Hashtags = goquery.AllText("a[href*='/hashtag/']", " ")(doc)
	}
	if resp.AuthorURL != "" {
		content.Metadata = append(content.Metadata, field("Author URL", resp.AuthorURL))
	}
	return content, nil
}

func (a *X) render(ctx context.Context, logger *slog.Logger, postURL string) (*digest.ExtractedContent, error) {
	if a.Renderer == nil {
		return nil, digest.Errorf(digest.EINVALID, "render strategy requires a renderer")
	}

	content := &digest.ExtractedContent{Author: UnknownAuthor, Title: MicroblogTitle, Body: NoCaption}
	page, err := a.Renderer.Render(ctx, postURL, digest.WaitStrategy{
		Selector:        XTweetSelector,
		SelectorTimeout: XSelectorTimeout,
		Optional:        true,
	}, a.RenderTimeout)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("render failed, using defaults", "err", err)
		return content, nil
	}
	defer page.Close()

	html, err := page.HTML()
	if err != nil {
		logger.Warn("reading status page", "err", err)
		return content, nil
	}
	doc, err := goquery.Parse(html)
	if err != nil {
		logger.Warn("parsing status page", "err", err)
		return content, nil
	}

	tiers := &extracted{html: html, converter: a.Converter, logger: logger}
	content.Body = digest.FirstNonEmpty(NoCaption,
		func() string { return goquery.Text(XTweetTextSelector)(doc) },
		func() string { return tiers.body("trafilatura", a.Trafilatura) },
		func() string { return tiers.body("readability", a.Readability) },
	)
	content.Author = digest.FirstNonEmpty(UnknownAuthor,
		func() string { return goquery.Text(XUserNameSelector)(doc) },
		func() string { return tiers.author("trafilatura", a.Trafilatura) },
		func() string { return tiers.author("readability", a.Readability) },
	)
	content.Title = goquery.First(doc, MicroblogTitle,
		goquery.MetaContent("meta[property='og:title']"),
		goquery.Text("title"),
	)
	content.Hashtags = goquery.AllText("a[href*='/hashtag/']", " ")(doc)
	return content, nil
}

// extracted runs each extractor at most once and shares the result
// between the body and author chains.
type extracted struct {
	html      string
	converter digest.Converter
	logger    *slog.Logger
	results   map[string]*digest.MainContent
}

func (m *extracted) result(name string, e digest.Extractor) *digest.MainContent {
	if e == nil {
		return nil
	}
	if r, ok := m.results[name]; ok {
		return r
	}
	if m.results == nil {
		m.results = make(map[string]*digest.MainContent)
	}
	r, err := e.Extract(m.html)
	if err != nil {
		m.logger.Debug("tier failed", slog.String("tier", name), "err", err)
		r = nil
	}
	m.results[name] = r
	return r
}

func (m *extracted) body(name string, e digest.Extractor) string {
	r := m.result(name, e)
	if r == nil || r.HTML == "" {
		return ""
	}
	if m.converter == nil {
		return textOf(r.HTML)
	}
	md, err := m.converter.Convert(r.HTML)
	if err != nil {
		m.logger.Debug("tier failed", slog.String("tier", name+" markdown"), "err", err)
		return ""
	}
	return md
}

func (m *extracted) author(name string, e digest.Extractor) string {
	if r := m.result(name, e); r != nil {
		return r.Author
	}
	return ""
}

func textOf(fragment string) string {
	doc, err := goquery.Parse(fragment)
	if err != nil {
		return ""
	}
	return goquery.CollapseSpace(doc.Text())
}
