package readerly

import "io"

// Extractor extracts the main readable content of an HTML document.
type Extractor interface {
	// Extract parses the document read from r and returns its article.
	// baseURI is used to resolve relative links and may be empty.
	// A nil Article with a nil error means the document holds no
	// readable article; errors are reserved for documents that cannot
	// be processed at all.
	Extract(r io.Reader, baseURI string) (*Article, error)
}

// ReaderableChecker cheaply predicts whether extraction is likely to
// succeed, without modifying the document.
type ReaderableChecker interface {
	IsProbablyReaderable(r io.Reader) (bool, error)
}
