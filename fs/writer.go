// Package fs exports extracted articles as Markdown files.
package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/readerly"
	"gopkg.in/yaml.v3"
)

// SourcePath converts a source to a relative Markdown file path.
// URLs keep their host as the top directory:
// https://example.com/blog/post → example.com/blog/post.md.
// Local files keep their base name: /tmp/page.html → page.md.
func SourcePath(source string) (string, error) {
	lower := strings.ToLower(source)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		name := filepath.Base(source)
		name = strings.TrimSuffix(name, filepath.Ext(name))
		if name == "" || name == "." || name == "-" || name == string(filepath.Separator) {
			return "", readerly.Errorf(readerly.EINVALID, "cannot derive a file name from %q", source)
		}
		return name + ".md", nil
	}

	u, err := url.Parse(source)
	if err != nil {
		return "", readerly.Errorf(readerly.EINVALID, "invalid source URL %q", source)
	}

	host := strings.ToLower(u.Hostname())
	clean := strings.TrimPrefix(path.Clean("/"+u.Path), "/")

	if clean == "" {
		return filepath.Join(host, "index.md"), nil
	}

	// Trailing slash becomes index.md in that directory
	if strings.HasSuffix(u.Path, "/") {
		return filepath.Join(host, clean, "index.md"), nil
	}

	for _, ext := range []string{".html", ".htm"} {
		clean = strings.TrimSuffix(clean, ext)
	}
	return filepath.Join(host, clean+".md"), nil
}

type frontmatter struct {
	Source    string `yaml:"source"`
	Title     string `yaml:"title,omitempty"`
	Byline    string `yaml:"byline,omitempty"`
	Site      string `yaml:"site,omitempty"`
	Lang      string `yaml:"lang,omitempty"`
	Published string `yaml:"published,omitempty"`
	Extracted string `yaml:"extracted"`
}

// FormatRecord formats a record's Markdown body with YAML frontmatter.
func FormatRecord(rec *readerly.Record, body string) (string, error) {
	fm := frontmatter{
		Source:    rec.SourceURL,
		Title:     rec.Article.Title,
		Byline:    rec.Article.Byline,
		Site:      rec.Article.SiteName,
		Lang:      rec.Article.Lang,
		Published: rec.Article.PublishedTime,
		Extracted: rec.ExtractedAt.UTC().Format(time.DateOnly),
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n")
	return b.String(), nil
}

// Ensure Writer implements readerly.ArticleWriter at compile time.
var _ readerly.ArticleWriter = (*Writer)(nil)

// Writer writes articles as Markdown files to a directory.
type Writer struct {
	baseDir string
	conv    readerly.Converter
}

// NewWriter creates a new Writer that converts article HTML with conv and
// writes to the given base directory.
func NewWriter(baseDir string, conv readerly.Converter) *Writer {
	return &Writer{baseDir: baseDir, conv: conv}
}

// WriteArticle writes an article to disk as a Markdown file.
func (w *Writer) WriteArticle(ctx context.Context, rec *readerly.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	relPath, err := SourcePath(rec.SourceURL)
	if err != nil {
		return err
	}

	body, err := w.conv.Convert(rec.Article.Content)
	if err != nil {
		return err
	}
	if rec.ExtractedAt.IsZero() {
		rec.ExtractedAt = time.Now()
	}
	content, err := FormatRecord(rec, body)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(w.baseDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(content), 0644)
}
