package mock

import (
	"io"

	"github.com/fwojciec/readerly"
)

var (
	_ readerly.Extractor         = (*Extractor)(nil)
	_ readerly.ReaderableChecker = (*ReaderableChecker)(nil)
)

// Extractor is a mock implementation of readerly.Extractor.
type Extractor struct {
	ExtractFn func(r io.Reader, baseURI string) (*readerly.Article, error)
}

func (e *Extractor) Extract(r io.Reader, baseURI string) (*readerly.Article, error) {
	return e.ExtractFn(r, baseURI)
}

// ReaderableChecker is a mock implementation of readerly.ReaderableChecker.
type ReaderableChecker struct {
	IsProbablyReaderableFn func(r io.Reader) (bool, error)
}

func (c *ReaderableChecker) IsProbablyReaderable(r io.Reader) (bool, error) {
	return c.IsProbablyReaderableFn(r)
}
