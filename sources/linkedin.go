package sources

import (
	"context"
	"log/slog"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/digest"
	"github.com/fwojciec/digest/goquery"
)

// LinkedIn render settings.
const (
	LinkedInRenderTimeout   = 90 * time.Second
	LinkedInSelectorTimeout = 15 * time.Second
	LinkedInScrolls         = 6
	LinkedInScrollDelay     = 2500 * time.Millisecond
	LinkedInSettle          = 4 * time.Second
)

// Heuristic decides which text fragments of a post container belong to the
// caption. A fragment is kept when it is longer than MinFragmentLen or
// contains one of Markers, and does not equal a Denylist phrase (case is
// ignored).
type Heuristic struct {
	MinFragmentLen int      `yaml:"min_fragment_len"`
	Markers        []string `yaml:"markers"`
	Denylist       []string `yaml:"denylist"`
}

// DefaultHeuristic returns the heuristic tuned for the public post layout.
func DefaultHeuristic() Heuristic {
	return Heuristic{
		MinFragmentLen: 2,
		Markers:        []string{"#", "$", "€", "£", "%"},
		Denylist: []string{
			"Like", "Comment", "Repost", "Send", "Follow",
			"See more", "Report this post", "Sign in", "Join now",
		},
	}
}

// Keep reports whether fragment passes the heuristic.
func (h Heuristic) Keep(fragment string) bool {
	for _, d := range h.Denylist {
		if strings.EqualFold(fragment, d) {
			return false
		}
	}
	if len([]rune(fragment)) > h.MinFragmentLen {
		return true
	}
	for _, m := range h.Markers {
		if strings.Contains(fragment, m) {
			return true
		}
	}
	return false
}

var (
	activityRe = regexp.MustCompile(`activity[-:](\d+)`)
	seeMoreRe  = regexp.MustCompile(`(?i)see more|(\.\.\.|…)more`)
)

// Ensure LinkedIn implements digest.Adapter at compile time.
var _ digest.Adapter = (*LinkedIn)(nil)

// LinkedIn reads a rendered public post. The page hydrates lazily, so the
// render scrolls several times before the DOM is read.
type LinkedIn struct {
	Renderer  digest.Renderer
	Heuristic Heuristic

	Timeout     time.Duration
	Scrolls     int
	ScrollDelay time.Duration
	Settle      time.Duration

	Logger *slog.Logger
}

// NewLinkedIn returns a LinkedIn adapter with the default heuristic and
// render settings.
func NewLinkedIn(r digest.Renderer) *LinkedIn {
	return &LinkedIn{
		Renderer:    r,
		Heuristic:   DefaultHeuristic(),
		Timeout:     LinkedInRenderTimeout,
		Scrolls:     LinkedInScrolls,
		ScrollDelay: LinkedInScrollDelay,
		Settle:      LinkedInSettle,
	}
}

// Kind returns digest.KindProfessionalPost.
func (a *LinkedIn) Kind() digest.SourceKind { return digest.KindProfessionalPost }

// PostKey derives the storage key of a post URL from its activity ID, or
// from the last path segment when there is none.
func PostKey(rawURL string) (string, error) {
	if m := activityRe.FindStringSubmatch(rawURL); m != nil {
		return digest.SourceKey("linkedin", m[1]), nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", digest.Errorf(digest.EIDENTIFIER, "invalid post URL %q", rawURL)
	}
	last := path.Base(strings.TrimSuffix(u.Path, "/"))
	if last == "" || last == "." || last == "/" {
		return "", digest.Errorf(digest.EIDENTIFIER, "no post identifier in %q", rawURL)
	}
	return digest.SourceKey("linkedin", last), nil
}

type linkedInPost struct {
	Author   string
	Title    string
	Body     string
	Hashtags string
}

// Extract renders the post and assembles the caption from the text nodes of
// the post container.
func (a *LinkedIn) Extract(ctx context.Context, req *digest.ExtractionRequest) (*digest.ExtractedContent, error) {
	key, err := PostKey(req.SourceURL)
	if err != nil {
		return nil, err
	}
	logger := discard(a.Logger).With("key", key)

	post := linkedInPost{Author: UnknownAuthor, Title: LinkedInTitle}
	page, err := a.Renderer.Render(ctx, req.SourceURL, digest.WaitStrategy{
		DOMContentLoaded: true,
		Scrolls:          a.Scrolls,
		ScrollDelay:      a.ScrollDelay,
		Selector:         "div.feed-shared-update-v2",
		SelectorTimeout:  LinkedInSelectorTimeout,
		Optional:         true,
		Settle:           a.Settle,
	}, a.Timeout)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("render failed, using defaults", "err", err)
	} else {
		defer page.Close()
		read, err := goquery.Evaluate(page, a.read)
		if err != nil {
			logger.Warn("reading post page", "err", err)
		} else {
			post = read
		}
	}

	return &digest.ExtractedContent{
		SourceID: key,
		Author:   post.Author,
		Title:    post.Title,
		Body:     post.Body,
		Hashtags: post.Hashtags,
	}, nil
}

func (a *LinkedIn) read(doc *gq.Document) linkedInPost {
	container := firstMatch(doc,
		"div.update-components-text",
		"div.feed-shared-update-v2__description-wrapper",
		"body",
	)
	var body string
	if container != nil {
		body = cleanPostText(strings.Join(goquery.WalkText(container, a.Heuristic.Keep), " "))
	}

	return linkedInPost{
		Author: goquery.First(doc, UnknownAuthor,
			goquery.Text("span.feed-shared-actor__name"),
			goquery.Text("div.update-components-actor__title span"),
		),
		Title: cleanPostText(goquery.First(doc, LinkedInTitle,
			goquery.MetaContent("meta[property='og:title']"),
			goquery.Text("title"),
		)),
		Body:     body,
		Hashtags: goquery.AllText("a[href*='/feed/hashtag/']", " ")(doc),
	}
}

// firstMatch returns the first element matching the earliest selector that
// matches anything.
func firstMatch(doc *gq.Document, selectors ...string) *gq.Selection {
	for _, sel := range selectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	return nil
}

func cleanPostText(s string) string {
	return goquery.CollapseSpace(seeMoreRe.ReplaceAllString(goquery.CollapseSpace(s), ""))
}
