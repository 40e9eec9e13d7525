package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fwojciec/digest"
	main "github.com/fwojciec/digest/cmd/digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runnerFunc adapts a function to the Runner interface.
type runnerFunc func(ctx context.Context, req *digest.ExtractionRequest) (*digest.NormalizedRecord, error)

func (f runnerFunc) Run(ctx context.Context, req *digest.ExtractionRequest) (*digest.NormalizedRecord, error) {
	return f(ctx, req)
}

func recordFor(req *digest.ExtractionRequest) *digest.NormalizedRecord {
	return &digest.NormalizedRecord{
		Key:       digest.SourceKey(string(req.Kind), "item"),
		SourceURL: req.SourceURL,
		Kind:      req.Kind,
		Title:     "A title",
		Body:      "A body",
		Summary:   "A summary",
	}
}

func TestExtractCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints the summary of each item", func(t *testing.T) {
		t.Parallel()

		var kinds []digest.SourceKind
		runner := runnerFunc(func(_ context.Context, req *digest.ExtractionRequest) (*digest.NormalizedRecord, error) {
			kinds = append(kinds, req.Kind)
			return recordFor(req), nil
		})

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr, Runner: runner}

		cmd := &main.ExtractCmd{URLs: []string{
			"https://github.com/owner/repo",
			"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		}}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []digest.SourceKind{digest.KindRepo, digest.KindVideoPlatform}, kinds)
		assert.Contains(t, stdout.String(), "== repo__item (https://github.com/owner/repo) ==\nA summary\n")
		assert.Contains(t, stdout.String(), "== video_platform__item")
		assert.Empty(t, stderr.String())
	})

	t.Run("falls back to the body without a summary", func(t *testing.T) {
		t.Parallel()

		runner := runnerFunc(func(_ context.Context, req *digest.ExtractionRequest) (*digest.NormalizedRecord, error) {
			rec := recordFor(req)
			rec.Summary = ""
			return rec, nil
		})

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Runner: runner}

		err := (&main.ExtractCmd{URLs: []string{"https://x.com/user/status/1"}}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "A body")
		assert.NotContains(t, stdout.String(), "A summary")
	})

	t.Run("continues after a failed item", func(t *testing.T) {
		t.Parallel()

		runner := runnerFunc(func(_ context.Context, req *digest.ExtractionRequest) (*digest.NormalizedRecord, error) {
			if req.Kind == digest.KindShortVideo {
				return nil, digest.Errorf(digest.EIDENTIFIER, "no post shortcode")
			}
			return recordFor(req), nil
		})

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr, Runner: runner}

		cmd := &main.ExtractCmd{URLs: []string{
			"https://www.instagram.com/",
			"https://github.com/owner/repo",
		}}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, "1 of 2 items failed", err.Error())
		assert.Contains(t, stderr.String(), "error: https://www.instagram.com/: no post shortcode (identifier)")
		assert.Contains(t, stdout.String(), "repo__item")
	})

	t.Run("reports unsupported hosts without calling the runner", func(t *testing.T) {
		t.Parallel()

		called := false
		runner := runnerFunc(func(_ context.Context, req *digest.ExtractionRequest) (*digest.NormalizedRecord, error) {
			called = true
			return recordFor(req), nil
		})

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Runner: runner}

		err := (&main.ExtractCmd{URLs: []string{"https://example.com/post"}}).Run(deps)

		require.Error(t, err)
		assert.False(t, called)
		assert.Contains(t, stderr.String(), "("+digest.EIDENTIFIER+")")
	})

	t.Run("prints internal errors in full", func(t *testing.T) {
		t.Parallel()

		runner := runnerFunc(func(context.Context, *digest.ExtractionRequest) (*digest.NormalizedRecord, error) {
			return nil, errors.New("disk full")
		})

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Runner: runner}

		err := (&main.ExtractCmd{URLs: []string{"https://github.com/owner/repo"}}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: https://github.com/owner/repo: disk full")
	})

	t.Run("uses the kind flag instead of host detection", func(t *testing.T) {
		t.Parallel()

		var got digest.SourceKind
		runner := runnerFunc(func(_ context.Context, req *digest.ExtractionRequest) (*digest.NormalizedRecord, error) {
			got = req.Kind
			return recordFor(req), nil
		})

		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Runner: runner}

		err := (&main.ExtractCmd{URLs: []string{"https://mirror.example.com/post/1"}, Kind: "microblog"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, digest.KindMicroblog, got)
	})

	t.Run("prints JSON records", func(t *testing.T) {
		t.Parallel()

		runner := runnerFunc(func(_ context.Context, req *digest.ExtractionRequest) (*digest.NormalizedRecord, error) {
			return recordFor(req), nil
		})

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Runner: runner}

		err := (&main.ExtractCmd{URLs: []string{"https://github.com/owner/repo"}, JSON: true}).Run(deps)

		require.NoError(t, err)
		var rec digest.NormalizedRecord
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &rec))
		assert.Equal(t, "repo__item", rec.Key)
		assert.Equal(t, digest.KindRepo, rec.Kind)
		assert.Equal(t, "A summary", rec.Summary)
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		runner := runnerFunc(func(ctx context.Context, _ *digest.ExtractionRequest) (*digest.NormalizedRecord, error) {
			calls++
			cancel()
			return nil, ctx.Err()
		})

		deps := &main.Dependencies{Ctx: ctx, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Runner: runner}

		err := (&main.ExtractCmd{URLs: []string{
			"https://github.com/owner/one",
			"https://github.com/owner/two",
		}}).Run(deps)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
