package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/readerly"
)

// Ensure LoggingRecordService implements readerly.RecordService.
var _ readerly.RecordService = (*LoggingRecordService)(nil)

// LoggingRecordService wraps a RecordService with logging of writes.
type LoggingRecordService struct {
	next   readerly.RecordService
	logger *slog.Logger
}

// NewLoggingRecordService creates a new LoggingRecordService.
func NewLoggingRecordService(next readerly.RecordService, logger *slog.Logger) *LoggingRecordService {
	return &LoggingRecordService{next: next, logger: logger}
}

// CreateRecord delegates to the wrapped service and logs the new record.
func (s *LoggingRecordService) CreateRecord(ctx context.Context, rec *readerly.Record) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("create record",
			"id", rec.ID,
			"source", rec.SourceURL,
			"hash", rec.ContentHash,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateRecord(ctx, rec)
}

// FindRecordByID delegates to the wrapped service.
func (s *LoggingRecordService) FindRecordByID(ctx context.Context, id string) (*readerly.Record, error) {
	return s.next.FindRecordByID(ctx, id)
}

// FindRecords delegates to the wrapped service.
func (s *LoggingRecordService) FindRecords(ctx context.Context, filter readerly.RecordFilter) ([]*readerly.Record, error) {
	return s.next.FindRecords(ctx, filter)
}

// DeleteRecord delegates to the wrapped service and logs the deletion.
func (s *LoggingRecordService) DeleteRecord(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("delete record",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteRecord(ctx, id)
}
