package batch

import (
	"bytes"
	"time"

	"github.com/fwojciec/readerly"
	"github.com/fwojciec/readerly/readability"
)

// Engine is a named extractor taking part in a comparison.
type Engine struct {
	Name      string
	Extractor readerly.Extractor
}

// Comparison is one engine's view of a document.
type Comparison struct {
	Engine   string
	Found    bool
	Title    string
	Length   int
	Duration time.Duration
	Err      error

	// Similarity is the word overlap between this engine's text and the
	// first engine's, between 0 and 1. The first engine scores 1 when it
	// found an article.
	Similarity float64
}

// Compare runs every engine over the same document and reports what each
// extracted, in engine order.
func Compare(content []byte, baseURI string, engines []Engine) []Comparison {
	out := make([]Comparison, len(engines))
	var reference string
	for i, e := range engines {
		c := Comparison{Engine: e.Name}
		begin := time.Now()
		article, err := e.Extractor.Extract(bytes.NewReader(content), baseURI)
		c.Duration = time.Since(begin)

		switch {
		case err != nil:
			c.Err = err
		case article != nil:
			c.Found = true
			c.Title = article.Title
			c.Length = article.Length
			if i == 0 {
				reference = article.TextContent
			}
			if reference != "" {
				c.Similarity = readability.TextSimilarity(reference, article.TextContent)
			}
		}
		out[i] = c
	}
	return out
}

// ContentDiffers reports whether two comparisons disagree materially:
// only one found an article, or the longer text is more than half again
// as long as the shorter.
func ContentDiffers(a, b Comparison) bool {
	if a.Found != b.Found {
		return true
	}
	if !a.Found {
		return false
	}
	short, long := min(a.Length, b.Length), max(a.Length, b.Length)
	return float64(long) > float64(short)*1.5
}
