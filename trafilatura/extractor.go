// Package trafilatura adapts go-trafilatura to the readerly.Extractor
// interface.
package trafilatura

import (
	"bytes"
	"io"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/readerly"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements readerly.Extractor at compile time.
var _ readerly.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
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

	opts := trafilatura.Options{
		EnableFallback: true,
		IncludeLinks:   true,
		IncludeImages:  true,
	}
	if baseURI != "" {
		u, err := url.Parse(baseURI)
		if err != nil || !u.IsAbs() {
			return nil, readerly.Errorf(readerly.EINVALID, "invalid base URI %q", baseURI)
		}
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(bytes.NewReader(raw), opts)
	if err != nil {
		return nil, err
	}
	if result == nil || result.ContentNode == nil {
		return nil, nil
	}

	content, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(result.ContentText)
	a := &readerly.Article{
		Title:       result.Metadata.Title,
		Content:     content,
		TextContent: text,
		Length:      utf8.RuneCountInString(text),
		Excerpt:     result.Metadata.Description,
		Byline:      result.Metadata.Author,
		SiteName:    result.Metadata.Sitename,
		Lang:        result.Metadata.Language,
	}
	if !result.Metadata.Date.IsZero() {
		a.PublishedTime = result.Metadata.Date.Format(time.RFC3339)
	}
	return a, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
