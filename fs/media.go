package fs

import (
	"context"
	"io"
	"mime"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/digest"
)

// DefaultMediaTimeout bounds a single media download.
const DefaultMediaTimeout = 5 * time.Minute

// Ensure MediaStore implements digest.MediaAcquirer at compile time.
var _ digest.MediaAcquirer = (*MediaStore)(nil)

// MediaStore downloads media assets into temporary files.
type MediaStore struct {
	fetcher digest.ResourceFetcher
	dir     string
	timeout time.Duration
}

// NewMediaStore returns a store that writes under dir. An empty dir uses
// the system temp directory.
func NewMediaStore(fetcher digest.ResourceFetcher, dir string, timeout time.Duration) *MediaStore {
	if timeout <= 0 {
		timeout = DefaultMediaTimeout
	}
	return &MediaStore{fetcher: fetcher, dir: dir, timeout: timeout}
}

// Acquire streams mediaURL to a new file. Any failure removes the partial
// file and returns EDOWNLOAD. There is no retry.
func (s *MediaStore) Acquire(ctx context.Context, mediaURL, mimeType string) (*digest.MediaAsset, error) {
	if mediaURL == "" {
		return nil, digest.Errorf(digest.EDOWNLOAD, "media URL required")
	}

	body, err := s.fetcher.Get(ctx, digest.Request{URL: mediaURL, Timeout: s.timeout, Kind: digest.BodyStream})
	if err != nil {
		return nil, digest.Errorf(digest.EDOWNLOAD, "downloading %s: %v", mediaURL, err)
	}
	defer body.Close()

	f, err := os.CreateTemp(s.dir, "digest-media-*"+extension(mimeType))
	if err != nil {
		return nil, digest.Errorf(digest.EDOWNLOAD, "creating media file: %v", err)
	}
	path := f.Name()

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		_ = os.Remove(path)
		return nil, digest.Errorf(digest.EDOWNLOAD, "writing %s: %v", mediaURL, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, digest.Errorf(digest.EDOWNLOAD, "closing media file: %v", err)
	}

	return &digest.MediaAsset{LocalPath: path, MIMEType: mimeType}, nil
}

// Release removes the asset's file. Releasing a missing file is not an error.
func (s *MediaStore) Release(asset *digest.MediaAsset) error {
	if asset == nil || asset.LocalPath == "" {
		return nil
	}
	if err := os.Remove(asset.LocalPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func extension(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	switch strings.TrimSpace(base) {
	case "video/mp4":
		return ".mp4"
	case "audio/webm":
		return ".webm"
	case "audio/mp4":
		return ".m4a"
	}
	if exts, err := mime.ExtensionsByType(base); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
