package trafilatura_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/readerly"
	"github.com/fwojciec/readerly/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extract(t *testing.T, html, baseURI string) *readerly.Article {
	t.Helper()
	result, err := trafilatura.NewExtractor().Extract(strings.NewReader(html), baseURI)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("maps the document title", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>City Council Approves Budget - Daily Gazette</title>
<meta property="og:title" content="City Council Approves Budget">
</head>
<body>
<nav>Sections</nav>
<main>
<h1>City Council Approves Budget</h1>
<p>The council voted on Tuesday to approve next year's budget.</p>
</main>
<footer>Footer content</footer>
</body>
</html>`

		result := extract(t, html, "")

		assert.NotEmpty(t, result.Title)
	})

	t.Run("extracts the article body", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav><a href="/">Home</a><a href="/news">News</a></nav>
<article>
<h1>Budget Vote</h1>
<p>The council approved the spending plan after a long debate on transit.</p>
<blockquote>We made hard choices this year, the mayor said.</blockquote>
</article>
<aside>Most read</aside>
<footer>Copyright 2024</footer>
</body>
</html>`

		result := extract(t, html, "")

		assert.Contains(t, result.Content, "approved the spending plan")
		assert.Contains(t, result.TextContent, "approved the spending plan")
	})

	t.Run("drops navigation and footer boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav class="main-nav">
<ul>
<li><a href="/">Home</a></li>
<li><a href="/world">World</a></li>
<li><a href="/sport">Sport</a></li>
</ul>
</nav>
<article>
<h1>Article Title</h1>
<p>Article body with substantive content for readers.</p>
</article>
<footer>
<p>Copyright 2024 Example Corp</p>
<nav>Privacy | Terms | Contact</nav>
</footer>
</body>
</html>`

		result := extract(t, html, "")

		assert.Contains(t, result.Content, "substantive content")
		assert.NotContains(t, result.Content, "main-nav")
		assert.NotContains(t, result.Content, "Copyright 2024 Example Corp")
	})

	t.Run("preserves code blocks", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Code Example</title></head>
<body>
<article>
<h1>Parsing HTML in Go</h1>
<p>Here is a code example:</p>
<pre><code class="language-go">doc, err := html.Parse(r)
if err != nil {
    return err
}
</code></pre>
<p>And here is inline code: <code>go test ./...</code></p>
</article>
</body>
</html>`

		result := extract(t, html, "")

		assert.Contains(t, result.Content, "html.Parse(r)")
	})

	t.Run("handles minimal valid HTML", func(t *testing.T) {
		t.Parallel()

		result := extract(t, `<html><body><p>Simple content</p></body></html>`, "")

		assert.Contains(t, result.Content, "Simple content")
	})

	t.Run("reports the length of the text", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><article><p>This paragraph contains the actual content we want.</p></article></body></html>`

		result := extract(t, html, "https://example.com/post")

		assert.Equal(t, utf8.RuneCountInString(result.TextContent), result.Length)
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract(strings.NewReader(""), "")

		require.Error(t, err)
		assert.Equal(t, readerly.EINVALID, readerly.ErrorCode(err))
	})

	t.Run("rejects a relative base URI", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract(strings.NewReader("<p>Simple content</p>"), "docs/intro")

		require.Error(t, err)
		assert.Equal(t, readerly.EINVALID, readerly.ErrorCode(err))
	})
}
