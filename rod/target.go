package rod

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// target is the subset of page operations Render drives. It exists so the
// page lifecycle can be exercised without a browser.
type target interface {
	Navigate(url string, domContentLoaded bool) error
	WaitRequestIdle(d time.Duration) error
	WaitSelector(selector string, timeout time.Duration) error
	Scroll() error
	HTML() (string, error)
	Close() error
}

// rodTarget drives page under the render deadline. tab is the same page
// without it, so Close still reaches the browser once the deadline passed.
type rodTarget struct {
	ctx  context.Context
	page *rod.Page
	tab  *rod.Page
}

func newRodTarget(ctx context.Context, page *rod.Page) *rodTarget {
	return &rodTarget{ctx: ctx, page: page.Context(ctx), tab: page}
}

func (t *rodTarget) Navigate(url string, domContentLoaded bool) error {
	if domContentLoaded {
		wait := t.page.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
		if err := t.page.Navigate(url); err != nil {
			return err
		}
		wait()
		return t.ctx.Err()
	}

	if err := t.page.Navigate(url); err != nil {
		return err
	}
	return t.page.WaitLoad()
}

func (t *rodTarget) WaitRequestIdle(d time.Duration) error {
	t.page.WaitRequestIdle(d, nil, nil, nil)()
	return t.ctx.Err()
}

func (t *rodTarget) WaitSelector(selector string, timeout time.Duration) error {
	page := t.page
	if timeout > 0 {
		page = page.Timeout(timeout)
	}
	_, err := page.Element(selector)
	return err
}

func (t *rodTarget) Scroll() error {
	_, err := t.page.Eval(`() => window.scrollBy(0, window.innerHeight)`)
	return err
}

func (t *rodTarget) HTML() (string, error) {
	return t.page.HTML()
}

func (t *rodTarget) Close() error {
	return t.tab.Close()
}
