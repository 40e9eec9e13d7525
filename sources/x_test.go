package sources_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/digest"
	digesthttp "github.com/fwojciec/digest/http"
	"github.com/fwojciec/digest/mock"
	"github.com/fwojciec/digest/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statusURL = "https://x.com/gopher/status/1986836508092080197?s=20"

func TestStatusID(t *testing.T) {
	t.Parallel()

	id, err := sources.StatusID(statusURL)
	require.NoError(t, err)
	assert.Equal(t, "1986836508092080197", id)

	_, err = sources.StatusID("https://x.com/gopher")
	assert.Equal(t, digest.EIDENTIFIER, digest.ErrorCode(err))
}

func TestX_OEmbed(t *testing.T) {
	t.Parallel()

	t.Run("decodes the first paragraph", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var gotURL, gotUA string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			gotURL = r.URL.Query().Get("url")
			gotUA = r.Header.Get("User-Agent")
			mu.Unlock()
			_, _ = w.Write([]byte(`{"author_name":"Gopher","author_url":"https://twitter.com/gopher","html":"<blockquote class=\"twitter-tweet\"><p lang=\"en\">Hello &amp; world <a href=\"https://twitter.com/hashtag/golang?src=hash\">#golang</a></p>&mdash; Gopher</blockquote>"}`))
		}))
		t.Cleanup(srv.Close)

		a := sources.NewX(digesthttp.NewFetcher())
		a.OEmbedURL = srv.URL

		content, err := a.Extract(context.Background(), request(t, statusURL))
		require.NoError(t, err)

		mu.Lock()
		assert.Equal(t, statusURL, gotURL)
		assert.Equal(t, sources.BrowserUA, gotUA)
		mu.Unlock()
		assert.Equal(t, "x__1986836508092080197", content.SourceID)
		assert.Equal(t, "Gopher", content.Author)
		assert.Equal(t, "Hello & world #golang", content.Body)
		assert.Equal(t, "#golang", content.Hashtags)
		assert.Equal(t, sources.MicroblogTitle, content.Title)
		assert.Contains(t, content.Metadata, digest.Field{Name: "Author URL", Value: "https://twitter.com/gopher"})
	})

	t.Run("failure yields the error literal", func(t *testing.T) {
		t.Parallel()

		f := &mock.ResourceFetcher{
			GetFn: func(context.Context, digest.Request) (io.ReadCloser, error) {
				return nil, &digest.FetchError{Status: http.StatusNotFound, URL: "oembed"}
			},
		}
		content, err := sources.NewX(f).Extract(context.Background(), request(t, statusURL))
		require.NoError(t, err)
		assert.Equal(t, sources.UnknownAuthor, content.Author)
		assert.Equal(t, sources.TweetError, content.Body)
	})
}

func TestX_Render(t *testing.T) {
	t.Parallel()

	newRenderX := func(html string, pages *[]*mock.Page) *sources.X {
		a := sources.NewX(nil)
		a.Strategy = sources.StrategyRender
		a.Renderer = mock.StaticRenderer(html, pages)
		a.Trafilatura = &mock.Extractor{ExtractFn: func(string) (*digest.MainContent, error) {
			return &digest.MainContent{Author: "Extracted Author", HTML: "<p>main <b>content</b></p>"}, nil
		}}
		a.Readability = &mock.Extractor{ExtractFn: func(string) (*digest.MainContent, error) {
			return nil, errors.New("no article")
		}}
		a.Converter = &mock.Converter{ConvertFn: func(string) (string, error) { return "main **content**", nil }}
		return a
	}

	t.Run("reads tweet selectors", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><meta property="og:title" content="Gopher on X"></head><body>
			<article data-testid="tweet">
			<div data-testid="User-Name"><span>Gopher</span><span>@gopher</span></div>
			<div data-testid="tweetText">Generics are here <a href="/hashtag/golang">#golang</a></div>
			</article></body></html>`
		var pages []*mock.Page
		content, err := newRenderX(html, &pages).Extract(context.Background(), request(t, statusURL))
		require.NoError(t, err)

		assert.Equal(t, "Gopher", content.Author)
		assert.Equal(t, "Generics are here #golang", content.Body)
		assert.Equal(t, "Gopher on X", content.Title)
		assert.Equal(t, "#golang", content.Hashtags)
		require.Len(t, pages, 1)
		assert.Equal(t, 1, pages[0].Closures)
	})

	t.Run("falls back to main content", func(t *testing.T) {
		t.Parallel()

		content, err := newRenderX(`<html><body><div>login wall</div></body></html>`, nil).Extract(context.Background(), request(t, statusURL))
		require.NoError(t, err)
		assert.Equal(t, "main **content**", content.Body)
		assert.Equal(t, "Extracted Author", content.Author)
		assert.Equal(t, sources.MicroblogTitle, content.Title)
	})

	t.Run("every tier empty", func(t *testing.T) {
		t.Parallel()

		a := newRenderX(`<html><body></body></html>`, nil)
		a.Trafilatura = nil
		content, err := a.Extract(context.Background(), request(t, statusURL))
		require.NoError(t, err)
		assert.Equal(t, sources.NoCaption, content.Body)
		assert.Equal(t, sources.UnknownAuthor, content.Author)
	})

	t.Run("render failure yields literal defaults", func(t *testing.T) {
		t.Parallel()

		a := newRenderX("", nil)
		a.Renderer = &mock.Renderer{
			RenderFn: func(context.Context, string, digest.WaitStrategy, time.Duration) (digest.Page, error) {
				return nil, digest.Errorf(digest.ENAVIGATION, "blocked")
			},
		}
		content, err := a.Extract(context.Background(), request(t, statusURL))
		require.NoError(t, err)
		assert.Equal(t, sources.NoCaption, content.Body)
		assert.Equal(t, sources.MicroblogTitle, content.Title)
	})

	t.Run("render strategy needs a renderer", func(t *testing.T) {
		t.Parallel()

		a := sources.NewX(nil)
		a.Strategy = sources.StrategyRender
		_, err := a.Extract(context.Background(), request(t, statusURL))
		assert.Equal(t, digest.EINVALID, digest.ErrorCode(err))
	})
}
