package digest_test

import (
	"testing"

	"github.com/fwojciec/digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want digest.SourceKind
	}{
		{"https://github.com/owner/repo", digest.KindRepo},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", digest.KindVideoPlatform},
		{"https://youtu.be/dQw4w9WgXcQ", digest.KindVideoPlatform},
		{"https://m.youtube.com/shorts/dQw4w9WgXcQ", digest.KindVideoPlatform},
		{"https://www.instagram.com/reel/DQwOrvZEjip/", digest.KindShortVideo},
		{"https://www.linkedin.com/posts/someone_activity-123", digest.KindProfessionalPost},
		{"https://x.com/user/status/1", digest.KindMicroblog},
		{"https://twitter.com/user/status/1", digest.KindMicroblog},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()

			got, err := digest.DetectKind(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectKind_UnsupportedHost(t *testing.T) {
	t.Parallel()

	_, err := digest.DetectKind("https://example.com/page")

	require.Error(t, err)
	assert.Equal(t, digest.EIDENTIFIER, digest.ErrorCode(err))
}

func TestDetectKind_NotAURL(t *testing.T) {
	t.Parallel()

	_, err := digest.DetectKind("not a url")

	require.Error(t, err)
	assert.Equal(t, digest.EIDENTIFIER, digest.ErrorCode(err))
}

func TestNewExtractionRequest(t *testing.T) {
	t.Parallel()

	t.Run("detects kind when empty", func(t *testing.T) {
		t.Parallel()

		req, err := digest.NewExtractionRequest(" https://github.com/a/b ", "")
		require.NoError(t, err)
		assert.Equal(t, "https://github.com/a/b", req.SourceURL)
		assert.Equal(t, digest.KindRepo, req.Kind)
	})

	t.Run("keeps explicit kind", func(t *testing.T) {
		t.Parallel()

		req, err := digest.NewExtractionRequest("https://example.com/mirror/a/b", digest.KindRepo)
		require.NoError(t, err)
		assert.Equal(t, digest.KindRepo, req.Kind)
	})

	t.Run("rejects empty URL", func(t *testing.T) {
		t.Parallel()

		_, err := digest.NewExtractionRequest("", "")
		assert.Equal(t, digest.EIDENTIFIER, digest.ErrorCode(err))
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		t.Parallel()

		_, err := digest.NewExtractionRequest("https://github.com/a/b", "podcast")
		assert.Equal(t, digest.EIDENTIFIER, digest.ErrorCode(err))
	})
}

func TestSourceKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "owner__repo", digest.SourceKey("owner", "repo"))
	assert.Equal(t, "youtube__dQw4w9WgXcQ", digest.SourceKey("youtube", "dQw4w9WgXcQ"))
	assert.Equal(t, "linkedin__a_b", digest.SourceKey("linkedin", "a/b"))
	assert.Equal(t, "x__1", digest.SourceKey("x", "", "1"))
}
