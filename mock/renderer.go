package mock

import (
	"context"
	"time"

	"github.com/fwojciec/digest"
)

var (
	_ digest.Renderer = (*Renderer)(nil)
	_ digest.Page     = (*Page)(nil)
)

// Renderer is a mock implementation of digest.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, url string, wait digest.WaitStrategy, timeout time.Duration) (digest.Page, error)
	CloseFn  func() error
}

func (r *Renderer) Render(ctx context.Context, url string, wait digest.WaitStrategy, timeout time.Duration) (digest.Page, error) {
	return r.RenderFn(ctx, url, wait, timeout)
}

func (r *Renderer) Close() error {
	return r.CloseFn()
}

// Page is a mock implementation of digest.Page that serves fixed HTML and
// counts Close calls.
type Page struct {
	PageURL  string
	Content  string
	HTMLErr  error
	Closures int
}

func (p *Page) URL() string { return p.PageURL }

func (p *Page) HTML() (string, error) {
	if p.HTMLErr != nil {
		return "", p.HTMLErr
	}
	return p.Content, nil
}

func (p *Page) Close() error {
	p.Closures++
	return nil
}

// StaticRenderer returns a Renderer that serves html for every URL and
// records each page it hands out.
func StaticRenderer(html string, pages *[]*Page) *Renderer {
	return &Renderer{
		RenderFn: func(_ context.Context, url string, _ digest.WaitStrategy, _ time.Duration) (digest.Page, error) {
			p := &Page{PageURL: url, Content: html}
			if pages != nil {
				*pages = append(*pages, p)
			}
			return p, nil
		},
		CloseFn: func() error { return nil },
	}
}
