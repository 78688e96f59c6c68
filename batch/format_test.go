package batch_test

import (
	"testing"

	"github.com/fwojciec/readerly/batch"
	"github.com/stretchr/testify/assert"
)

func TestTruncateSource(t *testing.T) {
	t.Parallel()

	t.Run("returns source unchanged when shorter than max", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "https://x.com", batch.TruncateSource("https://x.com", 50))
	})

	t.Run("truncates with ellipsis when longer than max", func(t *testing.T) {
		t.Parallel()
		url := "https://example.com/very/long/path/to/documentation"
		result := batch.TruncateSource(url, 20)
		assert.Equal(t, ".../to/documentation", result)
		assert.Len(t, result, 20)
	})

	t.Run("keeps the file name of long paths", func(t *testing.T) {
		t.Parallel()
		result := batch.TruncateSource("/home/user/archive/2024/03/how-extraction-works.html", 30)
		assert.Equal(t, "...3/how-extraction-works.html", result)
	})

	t.Run("returns source unchanged when exactly max length", func(t *testing.T) {
		t.Parallel()
		url := "https://example.com"
		assert.Equal(t, url, batch.TruncateSource(url, len(url)))
	})

	t.Run("returns empty string when maxLen is zero", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, batch.TruncateSource("https://example.com", 0))
	})

	t.Run("returns empty string when maxLen is negative", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, batch.TruncateSource("https://example.com", -1))
	})

	t.Run("returns prefix of source when maxLen is very small", func(t *testing.T) {
		t.Parallel()
		// No room for the ellipsis below four characters
		assert.Equal(t, "htt", batch.TruncateSource("https://example.com", 3))
		assert.Equal(t, "ht", batch.TruncateSource("https://example.com", 2))
		assert.Equal(t, "h", batch.TruncateSource("https://example.com", 1))
	})

	t.Run("handles short source with small maxLen", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "ab", batch.TruncateSource("ab", 3))
		assert.Equal(t, "a", batch.TruncateSource("a", 2))
	})
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	t.Run("formats bytes as B", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "512 B", batch.FormatBytes(512))
	})

	t.Run("formats kilobytes as KB", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "1.5 KB", batch.FormatBytes(1536))
	})

	t.Run("formats megabytes as MB", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "2.0 MB", batch.FormatBytes(2*1024*1024))
	})
}

func TestComputeHash(t *testing.T) {
	t.Parallel()

	t.Run("returns consistent hash for same content", func(t *testing.T) {
		t.Parallel()
		content := "test content"
		hash1 := batch.ComputeHash(content)
		hash2 := batch.ComputeHash(content)
		assert.Equal(t, hash1, hash2)
	})

	t.Run("returns different hashes for different content", func(t *testing.T) {
		t.Parallel()
		hash1 := batch.ComputeHash("content a")
		hash2 := batch.ComputeHash("content b")
		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("returns hex string", func(t *testing.T) {
		t.Parallel()
		hash := batch.ComputeHash("test")
		assert.Regexp(t, `^[0-9a-f]+$`, hash)
	})
	t.Run("returns fixed-width hash", func(t *testing.T) {
		t.Parallel()
		assert.Len(t, batch.ComputeHash(""), 16)
		assert.Len(t, batch.ComputeHash("a much longer piece of article text"), 16)
	})
}
