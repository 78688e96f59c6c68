package shiori_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/readerly"
	"github.com/fwojciec/readerly/shiori"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	ext := shiori.NewExtractor()
	_, err := ext.Extract(strings.NewReader("  "), "")

	require.Error(t, err)
	assert.Equal(t, readerly.EINVALID, readerly.ErrorCode(err))
}

func TestExtractor_RejectsRelativeBaseURI(t *testing.T) {
	t.Parallel()

	ext := shiori.NewExtractor()
	_, err := ext.Extract(strings.NewReader("<p>text</p>"), "/relative/path")

	require.Error(t, err)
	assert.Equal(t, readerly.EINVALID, readerly.ErrorCode(err))
}

func TestExtractor_ExtractsTitle(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Page Title</title></head>
<body><article><p>This is the main article content that should be preserved in the output.</p></article></body>
</html>`

	ext := shiori.NewExtractor()
	article, err := ext.Extract(strings.NewReader(html), "https://example.com/post")

	require.NoError(t, err)
	require.NotNil(t, article)
	assert.Equal(t, "Page Title", article.Title)
}

func TestExtractor_RemovesNavigation(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav><a href="/home">Home Nav Link</a><a href="/about">About Nav Link</a></nav>
<article><p>This is the main article content that should be preserved in the output.</p></article>
</body>
</html>`

	ext := shiori.NewExtractor()
	article, err := ext.Extract(strings.NewReader(html), "")

	require.NoError(t, err)
	require.NotNil(t, article)
	assert.NotContains(t, article.Content, "Home Nav Link")
	assert.Contains(t, article.Content, "main article content")
}

func TestExtractor_ReportsTextLength(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body><article><p>Zażółć gęślą jaźń, a paragraph with some non-ASCII letters in it.</p></article></body>
</html>`

	ext := shiori.NewExtractor()
	article, err := ext.Extract(strings.NewReader(html), "")

	require.NoError(t, err)
	require.NotNil(t, article)
	assert.Equal(t, len([]rune(article.TextContent)), article.Length)
}
