package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/digest"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ digest.RecordService = (*RecordService)(nil)

// RecordService implements digest.RecordService using SQLite. Records are
// keyed by their source key; writing the same key again replaces the row
// and keeps its ID.
type RecordService struct {
	db *DB

	// Now stamps records that arrive without an extraction time.
	Now func() time.Time
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db, Now: time.Now}
}

// ContentHash computes the xxHash of the record's text fields as hex.
func ContentHash(rec *digest.NormalizedRecord) string {
	h := xxhash.New()
	for _, s := range []string{rec.Body, rec.Captions, rec.Transcript} {
		_, _ = h.WriteString(s)
		_, _ = h.WriteString("\x00")
	}
	for _, s := range rec.Sections {
		_, _ = h.WriteString(s.Name)
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(s.Text)
		_, _ = h.WriteString("\x00")
	}
	return hex.EncodeToString(h.Sum(nil))
}

const recordColumns = `id, key, source_url, kind, author, title, body, hashtags, media_url,
	captions, transcript, metadata, sections, summary, content_hash, extracted_at`

// WriteRecord inserts rec or replaces the record stored under the same key.
// ID and ContentHash are set on rec.
func (s *RecordService) WriteRecord(ctx context.Context, rec *digest.NormalizedRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	if rec.ExtractedAt.IsZero() {
		rec.ExtractedAt = s.Now()
	}
	rec.ExtractedAt = rec.ExtractedAt.UTC().Truncate(time.Second)
	rec.ContentHash = ContentHash(rec)

	metadata, err := encodeList(rec.Metadata, "metadata")
	if err != nil {
		return err
	}
	sections, err := encodeList(rec.Sections, "sections")
	if err != nil {
		return err
	}

	var id string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			source_url = excluded.source_url,
			kind = excluded.kind,
			author = excluded.author,
			title = excluded.title,
			body = excluded.body,
			hashtags = excluded.hashtags,
			media_url = excluded.media_url,
			captions = excluded.captions,
			transcript = excluded.transcript,
			metadata = excluded.metadata,
			sections = excluded.sections,
			summary = excluded.summary,
			content_hash = excluded.content_hash,
			extracted_at = excluded.extracted_at
		RETURNING id
	`, uuid.New().String(), rec.Key, rec.SourceURL, string(rec.Kind), rec.Author, rec.Title, rec.Body,
		rec.Hashtags, rec.MediaURL, rec.Captions, rec.Transcript, metadata, sections, rec.Summary,
		rec.ContentHash, formatTime(rec.ExtractedAt)).Scan(&id)
	if err != nil {
		return err
	}

	rec.ID = id
	return nil
}

// FindRecordByKey retrieves a record by its key.
func (s *RecordService) FindRecordByKey(ctx context.Context, key string) (*digest.NormalizedRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE key = ?`, key)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, digest.Errorf(digest.ENOTFOUND, "record %q not found", key)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// FindRecords retrieves records matching the filter, newest first.
func (s *RecordService) FindRecords(ctx context.Context, filter digest.RecordFilter) ([]*digest.NormalizedRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT ` + recordColumns + ` FROM records WHERE 1=1`)
	if filter.Kind != nil {
		query.WriteString(" AND kind = ?")
		args = append(args, string(*filter.Kind))
	}
	query.WriteString(" ORDER BY extracted_at DESC, key ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*digest.NormalizedRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*digest.NormalizedRecord, error) {
	var rec digest.NormalizedRecord
	var kind, metadata, sections, extractedAt string

	if err := row.Scan(&rec.ID, &rec.Key, &rec.SourceURL, &kind, &rec.Author, &rec.Title, &rec.Body,
		&rec.Hashtags, &rec.MediaURL, &rec.Captions, &rec.Transcript, &metadata, &sections,
		&rec.Summary, &rec.ContentHash, &extractedAt); err != nil {
		return nil, err
	}

	rec.Kind = digest.SourceKind(kind)

	var err error
	if rec.Metadata, err = decodeList[digest.Field](metadata, "metadata"); err != nil {
		return nil, err
	}
	if rec.Sections, err = decodeList[digest.Section](sections, "sections"); err != nil {
		return nil, err
	}
	if rec.ExtractedAt, err = parseTime(extractedAt, "extracted_at"); err != nil {
		return nil, err
	}
	return &rec, nil
}
