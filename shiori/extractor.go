// Package shiori adapts go-shiori/go-readability to the readerly.Extractor
// interface so its output can be compared with the native engine.
package shiori

import (
	"bytes"
	"io"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/readerly"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements readerly.Extractor at compile time.
var _ readerly.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes the document read from r and returns its article.
func (e *Extractor) Extract(r io.Reader, baseURI string) (*readerly.Article, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, readerly.Errorf(readerly.EINVALID, "read document: %v", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, readerly.Errorf(readerly.EINVALID, "empty HTML input")
	}

	var pageURL *url.URL
	if baseURI != "" {
		pageURL, err = url.Parse(baseURI)
		if err != nil || !pageURL.IsAbs() {
			return nil, readerly.Errorf(readerly.EINVALID, "invalid base URI %q", baseURI)
		}
	}

	article, err := readability.FromReader(bytes.NewReader(raw), pageURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, nil
	}

	text := strings.TrimSpace(article.TextContent)
	a := &readerly.Article{
		Title:       article.Title,
		Content:     article.Content,
		TextContent: text,
		Length:      utf8.RuneCountInString(text),
		Excerpt:     article.Excerpt,
		Byline:      article.Byline,
		SiteName:    article.SiteName,
		Lang:        article.Language,
	}
	if article.PublishedTime != nil {
		a.PublishedTime = article.PublishedTime.Format(time.RFC3339)
	}
	return a, nil
}
