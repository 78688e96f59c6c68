package sqlite_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/fwojciec/readerly"
	"github.com/fwojciec/readerly/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func newRecord(source, content string) *readerly.Record {
	return &readerly.Record{
		SourceURL: source,
		Article: readerly.Article{
			Title:         "How Extraction Works",
			Content:       content,
			TextContent:   "Readers rarely notice",
			Length:        21,
			Excerpt:       "A short summary.",
			Byline:        "Jane Doe",
			Dir:           "ltr",
			SiteName:      "Example Times",
			Lang:          "en",
			PublishedTime: "2024-03-01T10:00:00Z",
		},
	}
}

func TestRecordService_CreateRecord(t *testing.T) {
	t.Parallel()

	t.Run("creates record with generated ID, hash and timestamp", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRecordService(setupTestDB(t))
		rec := newRecord("https://example.com/a", "<p>Readers rarely notice</p>")

		err := svc.CreateRecord(context.Background(), rec)
		require.NoError(t, err)

		assert.NotEmpty(t, rec.ID, "ID should be generated")
		assert.Len(t, rec.ContentHash, 16)
		assert.False(t, rec.ExtractedAt.IsZero(), "ExtractedAt should be set")
	})

	t.Run("returns error for invalid record", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRecordService(setupTestDB(t))

		err := svc.CreateRecord(context.Background(), &readerly.Record{})

		require.Error(t, err)
		assert.Equal(t, readerly.EINVALID, readerly.ErrorCode(err))
	})

	t.Run("hashes identical content identically", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRecordService(setupTestDB(t))
		ctx := context.Background()
		a := newRecord("https://example.com/a", "<p>same</p>")
		b := newRecord("https://example.com/b", "<p>same</p>")

		require.NoError(t, svc.CreateRecord(ctx, a))
		require.NoError(t, svc.CreateRecord(ctx, b))

		assert.NotEqual(t, a.ID, b.ID)
		assert.Equal(t, a.ContentHash, b.ContentHash)
	})
}

func TestRecordService_FindRecordByID(t *testing.T) {
	t.Parallel()

	t.Run("round-trips every article field", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRecordService(setupTestDB(t))
		ctx := context.Background()
		rec := newRecord("https://example.com/a", "<p>Readers rarely notice</p>")
		require.NoError(t, svc.CreateRecord(ctx, rec))

		found, err := svc.FindRecordByID(ctx, rec.ID)

		require.NoError(t, err)
		assert.Equal(t, rec.Article, found.Article)
		assert.Equal(t, rec.SourceURL, found.SourceURL)
		assert.Equal(t, rec.ContentHash, found.ContentHash)
		assert.True(t, rec.ExtractedAt.Equal(found.ExtractedAt))
	})

	t.Run("returns ENOTFOUND for missing record", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRecordService(setupTestDB(t))

		_, err := svc.FindRecordByID(context.Background(), "missing")

		require.Error(t, err)
		assert.Equal(t, readerly.ENOTFOUND, readerly.ErrorCode(err))
	})
}

func TestRecordService_FindRecords(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T, svc *sqlite.RecordService, n int) []*readerly.Record {
		t.Helper()
		recs := make([]*readerly.Record, n)
		for i := range n {
			recs[i] = newRecord(fmt.Sprintf("https://example.com/%d", i), fmt.Sprintf("<p>article %d</p>", i))
			require.NoError(t, svc.CreateRecord(context.Background(), recs[i]))
		}
		return recs
	}

	t.Run("returns newest first", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRecordService(setupTestDB(t))
		recs := seed(t, svc, 3)

		found, err := svc.FindRecords(context.Background(), readerly.RecordFilter{})

		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, recs[2].ID, found[0].ID)
		assert.Equal(t, recs[0].ID, found[2].ID)
	})

	t.Run("filters by source URL", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRecordService(setupTestDB(t))
		recs := seed(t, svc, 3)
		source := recs[1].SourceURL

		found, err := svc.FindRecords(context.Background(), readerly.RecordFilter{SourceURL: &source})

		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, recs[1].ID, found[0].ID)
	})

	t.Run("filters by content hash", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRecordService(setupTestDB(t))
		recs := seed(t, svc, 2)
		hash := recs[0].ContentHash

		found, err := svc.FindRecords(context.Background(), readerly.RecordFilter{ContentHash: &hash})

		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, recs[0].ID, found[0].ID)
	})

	t.Run("paginates with limit and offset", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRecordService(setupTestDB(t))
		recs := seed(t, svc, 5)

		page, err := svc.FindRecords(context.Background(), readerly.RecordFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, recs[3].ID, page[0].ID)
		assert.Equal(t, recs[2].ID, page[1].ID)

		rest, err := svc.FindRecords(context.Background(), readerly.RecordFilter{Offset: 3})
		require.NoError(t, err)
		assert.Len(t, rest, 2)
	})

	t.Run("returns empty result for empty archive", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRecordService(setupTestDB(t))

		found, err := svc.FindRecords(context.Background(), readerly.RecordFilter{})

		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestRecordService_DeleteRecord(t *testing.T) {
	t.Parallel()

	t.Run("deletes existing record", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRecordService(setupTestDB(t))
		ctx := context.Background()
		rec := newRecord("https://example.com/a", "<p>x</p>")
		require.NoError(t, svc.CreateRecord(ctx, rec))

		require.NoError(t, svc.DeleteRecord(ctx, rec.ID))

		_, err := svc.FindRecordByID(ctx, rec.ID)
		assert.Equal(t, readerly.ENOTFOUND, readerly.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for missing record", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRecordService(setupTestDB(t))

		err := svc.DeleteRecord(context.Background(), "missing")

		assert.Equal(t, readerly.ENOTFOUND, readerly.ErrorCode(err))
	})
}
