package mock

import (
	"context"

	"github.com/fwojciec/digest"
)

var (
	_ digest.RecordWriter  = (*RecordWriter)(nil)
	_ digest.RecordService = (*RecordService)(nil)
)

// RecordWriter is a mock implementation of digest.RecordWriter.
type RecordWriter struct {
	WriteRecordFn func(ctx context.Context, rec *digest.NormalizedRecord) error
}

func (w *RecordWriter) WriteRecord(ctx context.Context, rec *digest.NormalizedRecord) error {
	return w.WriteRecordFn(ctx, rec)
}

// RecordService is a mock implementation of digest.RecordService.
type RecordService struct {
	WriteRecordFn     func(ctx context.Context, rec *digest.NormalizedRecord) error
	FindRecordByKeyFn func(ctx context.Context, key string) (*digest.NormalizedRecord, error)
	FindRecordsFn     func(ctx context.Context, filter digest.RecordFilter) ([]*digest.NormalizedRecord, error)
}

func (s *RecordService) WriteRecord(ctx context.Context, rec *digest.NormalizedRecord) error {
	return s.WriteRecordFn(ctx, rec)
}

func (s *RecordService) FindRecordByKey(ctx context.Context, key string) (*digest.NormalizedRecord, error) {
	return s.FindRecordByKeyFn(ctx, key)
}

func (s *RecordService) FindRecords(ctx context.Context, filter digest.RecordFilter) ([]*digest.NormalizedRecord, error) {
	return s.FindRecordsFn(ctx, filter)
}
