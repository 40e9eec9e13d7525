// Package fs provides file-based output and transient media storage.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/digest"
)

// FormatRecord renders a record as markdown with YAML frontmatter.
func FormatRecord(rec *digest.NormalizedRecord) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(rec.SourceURL)
	b.WriteString("\nkind: ")
	b.WriteString(string(rec.Kind))
	b.WriteString("\nauthor: ")
	b.WriteString(rec.Author)
	b.WriteString("\ntitle: ")
	b.WriteString(rec.Title)
	b.WriteString("\nextracted: ")
	b.WriteString(rec.ExtractedAt.Format("2006-01-02"))
	b.WriteString("\n---\n")

	section := func(name, text string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", name, strings.TrimSpace(text))
	}
	section("Summary", rec.Summary)
	section("Body", rec.Body)
	section("Hashtags", rec.Hashtags)
	section("Captions", rec.Captions)
	section("Transcript", rec.Transcript)
	return b.String()
}

// Ensure Writer implements digest.RecordWriter at compile time.
var _ digest.RecordWriter = (*Writer)(nil)

// Writer writes each record as <key>.json plus a <key>.md report.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteRecord writes rec to disk. Existing files for the same key are
// replaced atomically.
func (w *Writer) WriteRecord(ctx context.Context, rec *digest.NormalizedRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding record %s: %w", rec.Key, err)
	}
	if err := w.replace(rec.Key+".json", data); err != nil {
		return err
	}
	return w.replace(rec.Key+".md", []byte(FormatRecord(rec)))
}

// Path returns the JSON file path for key.
func (w *Writer) Path(key string) string {
	return filepath.Join(w.baseDir, key+".json")
}

// replace writes to a sibling temp file and renames it over name.
func (w *Writer) replace(name string, data []byte) error {
	final := filepath.Join(w.baseDir, name)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
