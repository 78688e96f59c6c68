package readerly

import (
	"context"
	"time"
)

// Record is an extracted article archived together with its source.
type Record struct {
	ID          string    `json:"id"`
	SourceURL   string    `json:"sourceUrl"`
	Article     Article   `json:"article"`
	ContentHash string    `json:"contentHash"`
	ExtractedAt time.Time `json:"extractedAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *Record) Validate() error {
	if r.SourceURL == "" {
		return Errorf(EINVALID, "record source URL required")
	}
	if r.Article.Content == "" {
		return Errorf(EINVALID, "record article content required")
	}
	return nil
}

// RecordService represents a service for managing archived articles.
type RecordService interface {
	// CreateRecord archives a record, assigning its ID, hash and timestamp.
	CreateRecord(ctx context.Context, rec *Record) error

	// FindRecordByID retrieves a record by ID.
	// Returns ENOTFOUND if the record does not exist.
	FindRecordByID(ctx context.Context, id string) (*Record, error)

	// FindRecords retrieves records matching the filter, newest first.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*Record, error)

	// DeleteRecord permanently removes a record.
	// Returns ENOTFOUND if the record does not exist.
	DeleteRecord(ctx context.Context, id string) error
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	ID          *string `json:"id"`
	SourceURL   *string `json:"sourceUrl"`
	ContentHash *string `json:"contentHash"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
