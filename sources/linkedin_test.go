package sources_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/digest"
	"github.com/fwojciec/digest/mock"
	"github.com/fwojciec/digest/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linkedInPost = `<html><head>
<meta property="og:title" content="Avi on   RAG vs CAG">
<title>ignored</title>
</head><body>
<nav>Home My Network Jobs</nav>
<div class="feed-shared-update-v2">
  <div class="update-components-actor__title"><span>Avi Chawla</span></div>
  <div class="update-components-text">
    <span>RAG vs CAG, explained visually.</span>
    <script>var tracking = "ignored";</script>
    <span>ok</span>
    <span>#</span>
    <span>Cost drops by 40%</span>
    <a href="https://www.linkedin.com/feed/hashtag/ai">#ai</a>
    <a href="https://www.linkedin.com/feed/hashtag/rag">#rag</a>
    <span>…more</span>
    <button>Like</button>
  </div>
</div>
</body></html>`

func TestHeuristic_Keep(t *testing.T) {
	t.Parallel()

	h := sources.DefaultHeuristic()
	assert.True(t, h.Keep("Long enough"))
	assert.False(t, h.Keep("ok"))
	assert.True(t, h.Keep("5$"))
	assert.False(t, h.Keep("like"))
	assert.False(t, h.Keep("See more"))
}

func TestPostKey(t *testing.T) {
	t.Parallel()

	key, err := sources.PostKey("https://www.linkedin.com/posts/avi-chawla_rag-vs-cag-activity-7391440368627585024-hikl")
	require.NoError(t, err)
	assert.Equal(t, "linkedin__7391440368627585024", key)

	key, err = sources.PostKey("https://www.linkedin.com/feed/update/urn:li:activity:7391440368627585024/")
	require.NoError(t, err)
	assert.Equal(t, "linkedin__7391440368627585024", key)

	key, err = sources.PostKey("https://www.linkedin.com/pulse/some-article/")
	require.NoError(t, err)
	assert.Equal(t, "linkedin__some-article", key)

	_, err = sources.PostKey("https://www.linkedin.com/")
	assert.Equal(t, digest.EIDENTIFIER, digest.ErrorCode(err))
}

func TestLinkedIn_Extract(t *testing.T) {
	t.Parallel()

	url := "https://www.linkedin.com/posts/avi-chawla_rag-activity-7391440368627585024-hikl"

	t.Run("walks the post container", func(t *testing.T) {
		t.Parallel()

		var pages []*mock.Page
		var wait digest.WaitStrategy
		var timeout time.Duration
		r := mock.StaticRenderer(linkedInPost, &pages)
		render := r.RenderFn
		r.RenderFn = func(ctx context.Context, u string, w digest.WaitStrategy, d time.Duration) (digest.Page, error) {
			wait, timeout = w, d
			return render(ctx, u, w, d)
		}

		content, err := sources.NewLinkedIn(r).Extract(context.Background(), request(t, url))
		require.NoError(t, err)

		assert.Equal(t, "linkedin__7391440368627585024", content.SourceID)
		assert.Equal(t, "Avi Chawla", content.Author)
		assert.Equal(t, "Avi on RAG vs CAG", content.Title)
		assert.Equal(t, "RAG vs CAG, explained visually. # Cost drops by 40% #ai #rag", content.Body)
		assert.Equal(t, "#ai #rag", content.Hashtags)
		assert.NotContains(t, content.Body, "Home My Network")

		require.Len(t, pages, 1)
		assert.Equal(t, 1, pages[0].Closures)
		assert.True(t, wait.DOMContentLoaded)
		assert.Equal(t, 6, wait.Scrolls)
		assert.Equal(t, 2500*time.Millisecond, wait.ScrollDelay)
		assert.True(t, wait.Optional)
		assert.Equal(t, 4*time.Second, wait.Settle)
		assert.Equal(t, 90*time.Second, timeout)
	})

	t.Run("no container walks the body", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Post | LinkedIn</title></head><body>
			<span class="feed-shared-actor__name">Jane Doe</span>
			<p>Shipping a new release today.</p>
		</body></html>`
		content, err := sources.NewLinkedIn(mock.StaticRenderer(html, nil)).Extract(context.Background(), request(t, url))
		require.NoError(t, err)

		assert.Equal(t, "Jane Doe", content.Author)
		assert.Equal(t, "Post | LinkedIn", content.Title)
		assert.Equal(t, "Jane Doe Shipping a new release today.", content.Body)
		assert.Empty(t, content.Hashtags)
	})

	t.Run("configured heuristic", func(t *testing.T) {
		t.Parallel()

		a := sources.NewLinkedIn(mock.StaticRenderer(linkedInPost, nil))
		a.Heuristic = sources.Heuristic{MinFragmentLen: 20}

		content, err := a.Extract(context.Background(), request(t, url))
		require.NoError(t, err)
		assert.Equal(t, "RAG vs CAG, explained visually.", content.Body)
	})

	t.Run("render failure yields literal defaults", func(t *testing.T) {
		t.Parallel()

		r := &mock.Renderer{
			RenderFn: func(context.Context, string, digest.WaitStrategy, time.Duration) (digest.Page, error) {
				return nil, digest.Errorf(digest.ETIMEOUT, "slow")
			},
		}
		content, err := sources.NewLinkedIn(r).Extract(context.Background(), request(t, url))
		require.NoError(t, err)
		assert.Equal(t, sources.UnknownAuthor, content.Author)
		assert.Equal(t, sources.LinkedInTitle, content.Title)
		assert.Empty(t, content.Body)
	})
}
