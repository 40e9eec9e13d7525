package sqlite

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Timestamps are stored as RFC3339 text in UTC at second precision.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(value, column string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return t, nil
}

// encodeList stores a slice column as a JSON array. Nil becomes "[]".
func encodeList[T any](v []T, column string) (string, error) {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", column, err)
	}
	return string(b), nil
}

// decodeList reads a JSON array column. An empty array decodes to nil.
func decodeList[T any](value, column string) ([]T, error) {
	var v []T
	if err := json.Unmarshal([]byte(value), &v); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", column, err)
	}
	if len(v) == 0 {
		return nil, nil
	}
	return v, nil
}

// appendPagination appends LIMIT and OFFSET clauses for positive values.
// SQLite rejects OFFSET without LIMIT, so an offset alone gets LIMIT -1.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	switch {
	case limit > 0:
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	case offset > 0:
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
