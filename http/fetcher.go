// Package http implements digest.ResourceFetcher over net/http for the JSON
// APIs, caption tracks, raw files and media downloads the source adapters use.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/digest"
)

// DefaultTimeout bounds a request when neither the Request nor the Fetcher
// sets one.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is sent when no other User-Agent is configured.
const DefaultUserAgent = "digest/1.0 (+https://github.com/fwojciec/digest)"

// Ensure Fetcher implements digest.ResourceFetcher at compile time.
var _ digest.ResourceFetcher = (*Fetcher)(nil)

// Fetcher issues GET requests. Each request carries its own deadline, which
// stays armed until the caller closes the returned body.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	token     string
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithBearerToken sends an Authorization header on every request.
// An empty token leaves requests anonymous.
func WithBearerToken(token string) Option {
	return func(f *Fetcher) {
		f.token = token
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithClient uses c instead of a fresh http.Client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{}
	}
	return f
}

// Get performs the request and returns the open response body.
func (f *Fetcher) Get(ctx context.Context, r digest.Request) (io.ReadCloser, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = f.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		cancel()
		return nil, digest.Errorf(digest.EINVALID, "invalid request URL %q: %v", r.URL, err)
	}
	req.Header.Set("Accept", accept(r.Kind))
	req.Header.Set("User-Agent", f.userAgent)
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		ctxErr := ctx.Err()
		cancel()
		switch {
		case errors.Is(ctxErr, context.DeadlineExceeded):
			return nil, digest.Errorf(digest.ETIMEOUT, "GET %s: timed out after %s", r.URL, timeout)
		case ctxErr != nil:
			return nil, ctxErr
		}
		return nil, &digest.FetchError{URL: r.URL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		cancel()
		return nil, &digest.FetchError{Status: resp.StatusCode, URL: r.URL}
	}

	return &body{ReadCloser: resp.Body, cancel: cancel}, nil
}

func accept(kind digest.BodyKind) string {
	switch kind {
	case digest.BodyJSON:
		return "application/json"
	case digest.BodyXML:
		return "application/xml, text/xml;q=0.9, */*;q=0.5"
	case digest.BodyStream:
		return "*/*"
	default:
		return "text/html, text/plain;q=0.9, */*;q=0.5"
	}
}

// body releases the request context when closed.
type body struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *body) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
