package digest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// BodyKind is the expected payload of a Request.
type BodyKind int

// Body kinds.
const (
	BodyText BodyKind = iota
	BodyJSON
	BodyXML
	BodyStream
)

// MaxBufferedBytes caps the size of text and JSON bodies read into memory.
const MaxBufferedBytes = 8 << 20

// Request describes a GET request for a remote resource.
type Request struct {
	URL     string
	Headers map[string]string

	// Timeout bounds the whole exchange including reading the body.
	// Zero uses the fetcher default.
	Timeout time.Duration

	Kind BodyKind
}

// ResourceFetcher issues GET requests for metadata APIs, caption tracks, raw
// files and media.
type ResourceFetcher interface {
	// Get returns the response body. The caller must close it.
	// Returns *FetchError on non-2xx responses and ETIMEOUT past the deadline.
	Get(ctx context.Context, req Request) (io.ReadCloser, error)
}

// GetText fetches req and returns the body as a string.
func GetText(ctx context.Context, f ResourceFetcher, req Request) (string, error) {
	body, err := f.Get(ctx, req)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, MaxBufferedBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", req.URL, err)
	}
	return string(data), nil
}

// GetJSON fetches req and decodes the JSON body into v.
func GetJSON(ctx context.Context, f ResourceFetcher, req Request, v any) error {
	req.Kind = BodyJSON
	body, err := f.Get(ctx, req)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(io.LimitReader(body, MaxBufferedBytes)).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL, err)
	}
	return nil
}
