package main_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/readerly"
	main "github.com/fwojciec/readerly/cmd/readerly"
	"github.com/fwojciec/readerly/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testContext returns a background context for tests.
func testContext() context.Context {
	return context.Background()
}

// writeFile writes content to a file in a temporary directory and returns
// its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testArticle() *readerly.Article {
	return &readerly.Article{
		Title:       "Test Article",
		Content:     "<div><p>Hello <b>world</b></p></div>",
		TextContent: "Hello world",
		Length:      11,
		Byline:      "Jane Doe",
	}
}

func staticExtractor(a *readerly.Article) *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(_ io.Reader, _ string) (*readerly.Article, error) {
			return a, nil
		},
	}
}

func TestExtractCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints article HTML from a file", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "page.html", "<html><body><p>page</p></body></html>")
		var gotDoc, gotBase string
		extractor := &mock.Extractor{
			ExtractFn: func(r io.Reader, baseURI string) (*readerly.Article, error) {
				data, err := io.ReadAll(r)
				require.NoError(t, err)
				gotDoc, gotBase = string(data), baseURI
				return testArticle(), nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       testContext(),
			Stdout:    stdout,
			Stderr:    stderr,
			Extractor: extractor,
		}

		cmd := &main.ExtractCmd{Source: path, Format: "html"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "<html><body><p>page</p></body></html>", gotDoc)
		assert.Empty(t, gotBase)
		assert.Equal(t, "<div><p>Hello <b>world</b></p></div>\n", stdout.String())
		assert.Empty(t, stderr.String())
	})

	t.Run("passes base URL for file sources", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "page.html", "<p>page</p>")
		var gotBase string
		extractor := &mock.Extractor{
			ExtractFn: func(_ io.Reader, baseURI string) (*readerly.Article, error) {
				gotBase = baseURI
				return testArticle(), nil
			},
		}

		deps := &main.Dependencies{
			Ctx:       testContext(),
			Stdout:    &bytes.Buffer{},
			Stderr:    &bytes.Buffer{},
			Extractor: extractor,
		}

		cmd := &main.ExtractCmd{Source: path, Format: "text", BaseURL: "https://example.com/posts/1"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/posts/1", gotBase)
	})

	t.Run("reads stdin for dash source", func(t *testing.T) {
		t.Parallel()

		var gotDoc string
		extractor := &mock.Extractor{
			ExtractFn: func(r io.Reader, _ string) (*readerly.Article, error) {
				data, err := io.ReadAll(r)
				require.NoError(t, err)
				gotDoc = string(data)
				return testArticle(), nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       testContext(),
			Stdin:     strings.NewReader("<p>from stdin</p>"),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Extractor: extractor,
		}

		cmd := &main.ExtractCmd{Source: "-", Format: "text"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "<p>from stdin</p>", gotDoc)
		assert.Equal(t, "Hello world\n", stdout.String())
	})

	t.Run("fetches URL sources and uses them as base", func(t *testing.T) {
		t.Parallel()

		var fetched, gotBase string
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				fetched = url
				return "<p>remote</p>", nil
			},
		}
		extractor := &mock.Extractor{
			ExtractFn: func(_ io.Reader, baseURI string) (*readerly.Article, error) {
				gotBase = baseURI
				return testArticle(), nil
			},
		}

		deps := &main.Dependencies{
			Ctx:       testContext(),
			Stdout:    &bytes.Buffer{},
			Stderr:    &bytes.Buffer{},
			Fetcher:   fetcher,
			Extractor: extractor,
		}

		cmd := &main.ExtractCmd{Source: "https://example.com/post", Format: "html"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/post", fetched)
		assert.Equal(t, "https://example.com/post", gotBase)
	})

	t.Run("prints markdown with header", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "page.html", "<p>page</p>")
		var converted string
		converter := &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				converted = html
				return "Hello **world**", nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       testContext(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Extractor: staticExtractor(testArticle()),
			Converter: converter,
		}

		cmd := &main.ExtractCmd{Source: path, Format: "markdown"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "<div><p>Hello <b>world</b></p></div>", converted)
		assert.Equal(t, "# Test Article\n\n_Jane Doe_\n\nHello **world**\n", stdout.String())
	})

	t.Run("prints JSON without escaping markup", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "page.html", "<p>page</p>")
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       testContext(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Extractor: staticExtractor(testArticle()),
		}

		cmd := &main.ExtractCmd{Source: path, Format: "json"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), `"title": "Test Article"`)
		assert.Contains(t, stdout.String(), `"content": "<div><p>Hello <b>world</b></p></div>"`)
		assert.Contains(t, stdout.String(), `"length": 11`)
	})

	t.Run("reports missing article", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "page.html", "<p>page</p>")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       testContext(),
			Stdout:    stdout,
			Stderr:    stderr,
			Extractor: staticExtractor(nil),
		}

		cmd := &main.ExtractCmd{Source: path, Format: "html"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, readerly.ENOTFOUND, readerly.ErrorCode(err))
		assert.Contains(t, stderr.String(), "no article found")
		assert.Empty(t, stdout.String())
	})

	t.Run("reports missing file", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       testContext(),
			Stdout:    &bytes.Buffer{},
			Stderr:    stderr,
			Extractor: staticExtractor(testArticle()),
		}

		cmd := &main.ExtractCmd{Source: filepath.Join(t.TempDir(), "missing.html"), Format: "html"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, readerly.ENOTFOUND, readerly.ErrorCode(err))
		assert.Contains(t, stderr.String(), "not found")
	})

	t.Run("reports extraction errors", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "page.html", "<p>page</p>")
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    testContext(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Extractor: &mock.Extractor{
				ExtractFn: func(_ io.Reader, _ string) (*readerly.Article, error) {
					return nil, readerly.Errorf(readerly.EENCODING, "document is not valid UTF-8")
				},
			},
		}

		cmd := &main.ExtractCmd{Source: path, Format: "html"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, "error: document is not valid UTF-8\n", stderr.String())
	})

	t.Run("reports fetch errors", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    testContext(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "", errors.New("connection refused")
				},
			},
			Extractor: staticExtractor(testArticle()),
		}

		cmd := &main.ExtractCmd{Source: "http://localhost:1/post", Format: "html"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("archives the article with save", func(t *testing.T) {
		t.Parallel()

		var saved *readerly.Record
		records := &mock.RecordService{
			CreateRecordFn: func(_ context.Context, rec *readerly.Record) error {
				rec.ID = "rec-123"
				saved = rec
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    testContext(),
			Stdout: stdout,
			Stderr: stderr,
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<p>remote</p>", nil
				},
			},
			Extractor: staticExtractor(testArticle()),
			Records:   records,
		}

		cmd := &main.ExtractCmd{Source: "https://example.com/post", Format: "text", Save: true}
		err := cmd.Run(deps)

		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "https://example.com/post", saved.SourceURL)
		assert.Equal(t, "Test Article", saved.Article.Title)
		assert.Contains(t, stderr.String(), "rec-123")
		assert.Equal(t, "Hello world\n", stdout.String())
	})

	t.Run("reports archive errors", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "page.html", "<p>page</p>")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       testContext(),
			Stdout:    stdout,
			Stderr:    stderr,
			Extractor: staticExtractor(testArticle()),
			Records: &mock.RecordService{
				CreateRecordFn: func(_ context.Context, _ *readerly.Record) error {
					return readerly.Errorf(readerly.EINVALID, "record source URL required")
				},
			},
		}

		cmd := &main.ExtractCmd{Source: path, Format: "text", Save: true}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, "error: record source URL required\n", stderr.String())
		assert.Empty(t, stdout.String())
	})
}
