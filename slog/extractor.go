// Package slog provides log/slog decorators for the readerly interfaces.
package slog

import (
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/readerly"
)

var (
	_ readerly.Extractor         = (*LoggingExtractor)(nil)
	_ readerly.ReaderableChecker = (*LoggingReaderableChecker)(nil)
)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   readerly.Extractor
	name   string
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor. name identifies the
// wrapped engine in log records.
func NewLoggingExtractor(next readerly.Extractor, name string, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, name: name, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(r io.Reader, baseURI string) (article *readerly.Article, err error) {
	cr := &countingReader{r: r}
	defer func(begin time.Time) {
		attrs := []any{
			"engine", e.name,
			"base", baseURI,
			"bytes", cr.n,
			"duration", time.Since(begin),
		}
		switch {
		case err != nil:
			attrs = append(attrs, "err", err)
		case article == nil:
			attrs = append(attrs, "found", false)
		default:
			attrs = append(attrs, "found", true, "title", article.Title, "length", article.Length)
		}
		e.logger.Debug("extract", attrs...)
	}(time.Now())
	return e.next.Extract(cr, baseURI)
}

// LoggingReaderableChecker wraps a ReaderableChecker with logging.
type LoggingReaderableChecker struct {
	next   readerly.ReaderableChecker
	logger *slog.Logger
}

// NewLoggingReaderableChecker creates a new LoggingReaderableChecker.
func NewLoggingReaderableChecker(next readerly.ReaderableChecker, logger *slog.Logger) *LoggingReaderableChecker {
	return &LoggingReaderableChecker{next: next, logger: logger}
}

// IsProbablyReaderable delegates to the wrapped checker and logs the verdict.
func (c *LoggingReaderableChecker) IsProbablyReaderable(r io.Reader) (ok bool, err error) {
	cr := &countingReader{r: r}
	defer func(begin time.Time) {
		c.logger.Debug("readerable check",
			"bytes", cr.n,
			"readerable", ok,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.IsProbablyReaderable(cr)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
