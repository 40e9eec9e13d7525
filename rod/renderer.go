package rod

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/digest"
)

// Ensure Renderer implements digest.Renderer at compile time.
var _ digest.Renderer = (*Renderer)(nil)

// DefaultIdleWindow is how long the network must stay quiet for a
// NetworkIdle wait to finish.
const DefaultIdleWindow = 500 * time.Millisecond

// Renderer loads pages in headless Chrome. The browser is launched on the
// first Render call and shared by every later call until Close.
type Renderer struct {
	opts   []ManagerOption
	logger *slog.Logger

	mu      sync.Mutex
	manager *BrowserManager
	closed  bool

	// open creates the tab for a render. Replaced in tests.
	open func(ctx context.Context) (target, error)
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithManagerOptions passes options to the lazily created BrowserManager.
func WithManagerOptions(opts ...ManagerOption) RendererOption {
	return func(r *Renderer) {
		r.opts = append(r.opts, opts...)
	}
}

// WithLogger sets the logger used for optional wait misses.
func WithLogger(logger *slog.Logger) RendererOption {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// NewRenderer returns a Renderer. No browser is started until the first
// Render call.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(r)
	}
	r.open = r.openBrowserPage
	return r
}

func (r *Renderer) openBrowserPage(ctx context.Context) (target, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, digest.Errorf(digest.EINVALID, "renderer closed")
	}
	if r.manager == nil {
		m, err := NewBrowserManager(r.opts...)
		if err != nil {
			r.mu.Unlock()
			return nil, err
		}
		r.manager = m
	}
	m := r.manager
	r.mu.Unlock()

	page, err := m.NewPage()
	if err != nil {
		return nil, err
	}
	return newRodTarget(ctx, page), nil
}

// Render navigates to url and applies the wait strategy. The returned page
// must be closed by the caller. On error the page has already been closed.
func (r *Renderer) Render(ctx context.Context, url string, wait digest.WaitStrategy, timeout time.Duration) (digest.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}

	t, err := r.open(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	p := &Page{url: url, target: t, cancel: cancel}

	if err := r.load(ctx, p, wait); err != nil {
		_ = p.Close()
		return nil, err
	}
	return p, nil
}

func (r *Renderer) load(ctx context.Context, p *Page, wait digest.WaitStrategy) error {
	if err := p.target.Navigate(p.url, wait.DOMContentLoaded); err != nil {
		if isTimeout(ctx, err) {
			return digest.Errorf(digest.ETIMEOUT, "loading %s: %v", p.url, err)
		}
		if errors.Is(err, context.Canceled) {
			return err
		}
		return digest.Errorf(digest.ENAVIGATION, "navigating to %s: %v", p.url, err)
	}

	if wait.NetworkIdle {
		if err := p.target.WaitRequestIdle(DefaultIdleWindow); err != nil {
			return waitError(ctx, p.url, "network idle", err)
		}
	}

	for i := 0; i < wait.Scrolls; i++ {
		if err := p.target.Scroll(); err != nil {
			r.logger.Debug("scroll failed", "url", p.url, "err", err)
			break
		}
		if err := digest.Sleep(ctx, wait.ScrollDelay); err != nil {
			return waitError(ctx, p.url, "scroll", err)
		}
	}

	if wait.Selector != "" {
		selectorTimeout := wait.SelectorTimeout
		if selectorTimeout <= 0 {
			if deadline, ok := ctx.Deadline(); ok {
				selectorTimeout = time.Until(deadline)
			}
		}
		if err := p.target.WaitSelector(wait.Selector, selectorTimeout); err != nil {
			if !wait.Optional || errors.Is(ctx.Err(), context.Canceled) {
				return waitError(ctx, p.url, "selector "+wait.Selector, err)
			}
			r.logger.Warn("optional selector not found",
				"url", p.url,
				"selector", wait.Selector,
				"err", err,
			)
		}
	}

	if err := digest.Sleep(ctx, wait.Settle); err != nil {
		return waitError(ctx, p.url, "settle", err)
	}
	return nil
}

// Close kills the browser if one was started. Later Render calls fail.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	if r.manager == nil {
		return nil
	}
	return r.manager.Close()
}

func waitError(ctx context.Context, url, what string, err error) error {
	if errors.Is(err, context.Canceled) && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return err
	}
	return digest.Errorf(digest.ETIMEOUT, "waiting for %s on %s: %v", what, url, err)
}

func isTimeout(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}

// Page is a rendered browser tab.
type Page struct {
	url    string
	target target
	cancel context.CancelFunc

	once     sync.Once
	closeErr error
}

// URL returns the URL the page was navigated to.
func (p *Page) URL() string { return p.url }

// HTML returns the serialized DOM.
func (p *Page) HTML() (string, error) {
	html, err := p.target.HTML()
	if err != nil {
		return "", fmt.Errorf("serializing %s: %w", p.url, err)
	}
	return html, nil
}

// Close closes the tab. Only the first call has any effect.
func (p *Page) Close() error {
	p.once.Do(func() {
		p.closeErr = p.target.Close()
		p.cancel()
	})
	return p.closeErr
}
