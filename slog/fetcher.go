package slog

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/digest"
)

// Ensure LoggingFetcher implements digest.ResourceFetcher.
var _ digest.ResourceFetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a ResourceFetcher with logging. Successful requests
// are logged when the body is closed so the line carries the bytes read.
type LoggingFetcher struct {
	next   digest.ResourceFetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next digest.ResourceFetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Get delegates to the wrapped fetcher.
func (f *LoggingFetcher) Get(ctx context.Context, req digest.Request) (io.ReadCloser, error) {
	begin := time.Now()
	body, err := f.next.Get(ctx, req)
	if err != nil {
		f.logger.Info("fetch",
			"url", req.URL,
			"duration", time.Since(begin),
			"err", err,
		)
		return nil, err
	}
	return &countingBody{ReadCloser: body, url: req.URL, begin: begin, logger: f.logger}, nil
}

type countingBody struct {
	io.ReadCloser
	url    string
	begin  time.Time
	logger *slog.Logger
	n      int64
	closed bool
}

func (b *countingBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	b.n += int64(n)
	return n, err
}

func (b *countingBody) Close() error {
	err := b.ReadCloser.Close()
	if !b.closed {
		b.closed = true
		b.logger.Info("fetch",
			"url", b.url,
			"bytes", b.n,
			"duration", time.Since(b.begin),
			"err", err,
		)
	}
	return err
}
