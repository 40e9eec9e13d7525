package digest

import (
	"context"
	"time"
)

// WaitStrategy describes the content signal a render waits for after
// navigation.
type WaitStrategy struct {
	// DOMContentLoaded returns from navigation once the document is parsed
	// instead of waiting for the load event.
	DOMContentLoaded bool

	// Selector waits for a DOM element to appear. Empty means no selector wait.
	Selector string

	// SelectorTimeout bounds the selector wait. Zero uses the render timeout.
	SelectorTimeout time.Duration

	// Optional turns a selector timeout into a logged miss instead of ETIMEOUT.
	Optional bool

	// NetworkIdle waits for network quiescence after the load event.
	NetworkIdle bool

	// Scrolls scrolls the viewport this many times, pausing ScrollDelay after
	// each, to trigger lazy hydration.
	Scrolls     int
	ScrollDelay time.Duration

	// Settle pauses after all wait conditions are met.
	Settle time.Duration
}

// Page is a loaded document owned by a single adapter invocation.
// Close must be called exactly once; implementations make repeat calls no-ops.
type Page interface {
	// URL returns the URL the page was navigated to.
	URL() string

	// HTML returns the serialized rendered DOM.
	HTML() (string, error)

	// Close releases the browser tab.
	Close() error
}

// Renderer drives a headless browser.
type Renderer interface {
	// Render navigates to url and waits per the strategy.
	// Returns ENAVIGATION if the URL cannot be loaded and ETIMEOUT if a
	// required wait condition is not met within timeout. On error the page
	// has already been closed.
	Render(ctx context.Context, url string, wait WaitStrategy, timeout time.Duration) (Page, error)

	// Close releases browser resources.
	Close() error
}
