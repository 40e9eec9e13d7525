package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/digest"
)

// Ensure LoggingRenderer implements digest.Renderer.
var _ digest.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with logging.
type LoggingRenderer struct {
	next   digest.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next digest.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render logs the URL, wait selector and outcome of each render.
func (r *LoggingRenderer) Render(ctx context.Context, url string, wait digest.WaitStrategy, timeout time.Duration) (page digest.Page, err error) {
	defer func(begin time.Time) {
		r.logger.Info("render",
			"url", url,
			"selector", wait.Selector,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	page, err = r.next.Render(ctx, url, wait, timeout)
	if err != nil {
		return nil, err
	}
	return &loggingPage{Page: page, logger: r.logger}, nil
}

// Close delegates to the wrapped renderer.
func (r *LoggingRenderer) Close() error {
	return r.next.Close()
}

type loggingPage struct {
	digest.Page
	logger *slog.Logger
}

func (p *loggingPage) HTML() (html string, err error) {
	defer func(begin time.Time) {
		p.logger.Debug("snapshot",
			"url", p.URL(),
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.Page.HTML()
}
