package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/readerly"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ readerly.RecordService = (*RecordService)(nil)

// RecordService implements readerly.RecordService using SQLite.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

const recordColumns = `id, source_url, title, content, text_content, length, excerpt, byline,
	dir, site_name, lang, published_time, content_hash, extracted_at`

// CreateRecord archives a record, assigning its ID, content hash and
// extraction time.
func (s *RecordService) CreateRecord(ctx context.Context, rec *readerly.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	rec.ID = uuid.New().String()
	rec.ExtractedAt = time.Now().UTC()
	rec.ContentHash = hashContent(rec.Article.Content)

	a := rec.Article
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.SourceURL, a.Title, a.Content, a.TextContent, a.Length, a.Excerpt, a.Byline,
		a.Dir, a.SiteName, a.Lang, a.PublishedTime, rec.ContentHash, rec.ExtractedAt.Format(timeLayout))

	return err
}

// FindRecordByID retrieves a record by ID.
func (s *RecordService) FindRecordByID(ctx context.Context, id string) (*readerly.Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM articles WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, readerly.Errorf(readerly.ENOTFOUND, "record not found")
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// FindRecords retrieves records matching the filter, newest first.
func (s *RecordService) FindRecords(ctx context.Context, filter readerly.RecordFilter) ([]*readerly.Record, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + recordColumns + " FROM articles WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}
	if filter.ContentHash != nil {
		query.WriteString(" AND content_hash = ?")
		args = append(args, *filter.ContentHash)
	}

	query.WriteString(" ORDER BY extracted_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*readerly.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

// DeleteRecord permanently removes a record.
func (s *RecordService) DeleteRecord(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return readerly.Errorf(readerly.ENOTFOUND, "record not found")
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*readerly.Record, error) {
	var rec readerly.Record
	var extractedAt string
	a := &rec.Article

	if err := row.Scan(&rec.ID, &rec.SourceURL, &a.Title, &a.Content, &a.TextContent, &a.Length,
		&a.Excerpt, &a.Byline, &a.Dir, &a.SiteName, &a.Lang, &a.PublishedTime,
		&rec.ContentHash, &extractedAt); err != nil {
		return nil, err
	}

	t, err := parseTime(extractedAt, "extracted_at")
	if err != nil {
		return nil, err
	}
	rec.ExtractedAt = t

	return &rec, nil
}
