package rod

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	navigateErr error
	selectorErr error
	html        string
	idleBlocks  bool

	ctx context.Context

	navigated string
	domOnly   bool
	idleWaits int
	scrolls   int
	selector  string
	closes    int
	lateClose bool
}

func (f *fakeTarget) Navigate(url string, domContentLoaded bool) error {
	f.navigated = url
	f.domOnly = domContentLoaded
	return f.navigateErr
}

func (f *fakeTarget) WaitRequestIdle(time.Duration) error {
	f.idleWaits++
	if f.idleBlocks {
		<-f.ctx.Done()
		return f.ctx.Err()
	}
	return nil
}

func (f *fakeTarget) WaitSelector(selector string, _ time.Duration) error {
	f.selector = selector
	return f.selectorErr
}

func (f *fakeTarget) Scroll() error {
	f.scrolls++
	return nil
}

func (f *fakeTarget) HTML() (string, error) { return f.html, nil }

func (f *fakeTarget) Close() error {
	f.closes++
	f.lateClose = f.ctx != nil && f.ctx.Err() != nil
	return nil
}

func newTestRenderer(ft *fakeTarget) *Renderer {
	r := NewRenderer()
	r.open = func(ctx context.Context) (target, error) {
		ft.ctx = ctx
		return ft, nil
	}
	return r
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	t.Run("applies wait strategy and returns page", func(t *testing.T) {
		t.Parallel()

		ft := &fakeTarget{html: "<html><body>ok</body></html>"}
		r := newTestRenderer(ft)

		page, err := r.Render(context.Background(), "https://example.com/p", digest.WaitStrategy{
			DOMContentLoaded: true,
			NetworkIdle:      true,
			Scrolls:          3,
			Selector:         "article",
		}, time.Second)
		require.NoError(t, err)

		assert.Equal(t, "https://example.com/p", page.URL())
		assert.True(t, ft.domOnly)
		assert.Equal(t, 1, ft.idleWaits)
		assert.Equal(t, 3, ft.scrolls)
		assert.Equal(t, "article", ft.selector)

		html, err := page.HTML()
		require.NoError(t, err)
		assert.Contains(t, html, "ok")
		assert.Equal(t, 0, ft.closes)

		require.NoError(t, page.Close())
		assert.Equal(t, 1, ft.closes)
	})

	t.Run("selector timeout returns ETIMEOUT and closes page once", func(t *testing.T) {
		t.Parallel()

		ft := &fakeTarget{selectorErr: context.DeadlineExceeded}
		r := newTestRenderer(ft)

		page, err := r.Render(context.Background(), "https://example.com", digest.WaitStrategy{
			Selector:        "div.never",
			SelectorTimeout: time.Millisecond,
		}, time.Second)

		require.Error(t, err)
		assert.Nil(t, page)
		assert.Equal(t, digest.ETIMEOUT, digest.ErrorCode(err))
		assert.Equal(t, 1, ft.closes)
	})

	t.Run("network idle past the deadline returns ETIMEOUT and still closes", func(t *testing.T) {
		t.Parallel()

		ft := &fakeTarget{idleBlocks: true}
		r := newTestRenderer(ft)

		_, err := r.Render(context.Background(), "https://example.com/reel", digest.WaitStrategy{
			NetworkIdle: true,
		}, 20*time.Millisecond)

		require.Error(t, err)
		assert.Equal(t, digest.ETIMEOUT, digest.ErrorCode(err))
		assert.Equal(t, 1, ft.closes)
		assert.True(t, ft.lateClose)
	})

	t.Run("optional selector timeout returns page", func(t *testing.T) {
		t.Parallel()

		ft := &fakeTarget{selectorErr: context.DeadlineExceeded}
		r := newTestRenderer(ft)

		page, err := r.Render(context.Background(), "https://example.com", digest.WaitStrategy{
			Selector: "article",
			Optional: true,
		}, time.Second)

		require.NoError(t, err)
		require.NotNil(t, page)
		require.NoError(t, page.Close())
		assert.Equal(t, 1, ft.closes)
	})

	t.Run("navigation failure returns ENAVIGATION", func(t *testing.T) {
		t.Parallel()

		ft := &fakeTarget{navigateErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}
		r := newTestRenderer(ft)

		_, err := r.Render(context.Background(), "https://nope.invalid", digest.WaitStrategy{}, time.Second)

		require.Error(t, err)
		assert.Equal(t, digest.ENAVIGATION, digest.ErrorCode(err))
		assert.Equal(t, 1, ft.closes)
	})

	t.Run("canceled context fails before opening a page", func(t *testing.T) {
		t.Parallel()

		opened := false
		r := NewRenderer()
		r.open = func(context.Context) (target, error) {
			opened = true
			return &fakeTarget{}, nil
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := r.Render(ctx, "https://example.com", digest.WaitStrategy{}, time.Second)

		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, opened)
	})
}

func TestPage_Close_Idempotent(t *testing.T) {
	t.Parallel()

	ft := &fakeTarget{}
	r := newTestRenderer(ft)

	page, err := r.Render(context.Background(), "https://example.com", digest.WaitStrategy{}, 0)
	require.NoError(t, err)

	require.NoError(t, page.Close())
	require.NoError(t, page.Close())
	assert.Equal(t, 1, ft.closes)
}

func TestRenderer_Close_WithoutBrowser(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	require.NoError(t, r.Close())

	_, err := r.openBrowserPage(context.Background())
	require.Error(t, err)
	assert.Equal(t, digest.EINVALID, digest.ErrorCode(err))
}
