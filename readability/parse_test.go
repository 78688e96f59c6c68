package readability_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/readerly"
	"github.com/fwojciec/readerly/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()
		_, err := readability.ParseDocument(strings.NewReader("  \n"))
		require.Error(t, err)
		assert.Equal(t, readerly.EINVALID, readerly.ErrorCode(err))
	})

	t.Run("rejects invalid bytes in a UTF-8 document", func(t *testing.T) {
		t.Parallel()
		src := "<html><head><meta charset=\"utf-8\"></head><body><p>bad \xff\xfe bytes</p></body></html>"
		_, err := readability.ParseDocument(strings.NewReader(src))
		require.Error(t, err)
		assert.Equal(t, readerly.EENCODING, readerly.ErrorCode(err))
	})

	t.Run("decodes declared legacy charsets", func(t *testing.T) {
		t.Parallel()
		src := "<html><head><meta charset=\"windows-1252\"></head><body><p>caf\xe9</p></body></html>"
		doc, err := readability.ParseDocument(strings.NewReader(src))
		require.NoError(t, err)
		assert.Equal(t, "café", goquery.NewDocumentFromNode(doc).Find("p").Text())
	})

	t.Run("strips a UTF-8 byte order mark", func(t *testing.T) {
		t.Parallel()
		src := "\xef\xbb\xbf<html><body><p>hello</p></body></html>"
		doc, err := readability.ParseDocument(strings.NewReader(src))
		require.NoError(t, err)
		assert.Equal(t, "hello", goquery.NewDocumentFromNode(doc).Find("body").Text())
	})
}
