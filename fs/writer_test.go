package fs_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/digest"
	"github.com/fwojciec/digest/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() *digest.NormalizedRecord {
	return &digest.NormalizedRecord{
		Key:         "octo__hello",
		SourceURL:   "https://github.com/octo/hello",
		Kind:        digest.KindRepo,
		Author:      "octo",
		Title:       "octo/hello",
		Body:        "A greeting library.",
		Summary:     "Says hello.",
		ExtractedAt: time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
	}
}

func TestFormatRecord(t *testing.T) {
	t.Parallel()

	got := fs.FormatRecord(testRecord())

	want := `---
source: https://github.com/octo/hello
kind: repo
author: octo
title: octo/hello
extracted: 2025-01-08
---

## Summary

Says hello.

## Body

A greeting library.
`
	assert.Equal(t, want, got)
}

func TestWriter_WriteRecord(t *testing.T) {
	t.Parallel()

	t.Run("writes json and markdown under key", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "summaries")
		w := fs.NewWriter(dir)

		require.NoError(t, w.WriteRecord(context.Background(), testRecord()))

		data, err := os.ReadFile(w.Path("octo__hello"))
		require.NoError(t, err)

		var got digest.NormalizedRecord
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "octo/hello", got.Title)
		assert.Equal(t, "Says hello.", got.Summary)

		_, err = os.Stat(filepath.Join(dir, "octo__hello.md"))
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(dir, "octo__hello.json.tmp"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("overwrites existing record", func(t *testing.T) {
		t.Parallel()

		w := fs.NewWriter(t.TempDir())
		rec := testRecord()
		require.NoError(t, w.WriteRecord(context.Background(), rec))

		rec.Summary = "Updated."
		require.NoError(t, w.WriteRecord(context.Background(), rec))

		data, err := os.ReadFile(w.Path(rec.Key))
		require.NoError(t, err)
		assert.Contains(t, string(data), "Updated.")
	})

	t.Run("rejects invalid record", func(t *testing.T) {
		t.Parallel()

		w := fs.NewWriter(t.TempDir())
		err := w.WriteRecord(context.Background(), &digest.NormalizedRecord{})

		require.Error(t, err)
		assert.Equal(t, digest.EINVALID, digest.ErrorCode(err))
	})
}
