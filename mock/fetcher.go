package mock

import (
	"context"
	"io"
	"strings"

	"github.com/fwojciec/digest"
)

var _ digest.ResourceFetcher = (*ResourceFetcher)(nil)

// ResourceFetcher is a mock implementation of digest.ResourceFetcher.
type ResourceFetcher struct {
	GetFn func(ctx context.Context, req digest.Request) (io.ReadCloser, error)
}

func (f *ResourceFetcher) Get(ctx context.Context, req digest.Request) (io.ReadCloser, error) {
	return f.GetFn(ctx, req)
}

// Body wraps s as a response body.
func Body(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}
