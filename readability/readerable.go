package readability

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/readerly"
	"golang.org/x/net/html"
)

// IsProbablyReaderable reports whether doc likely holds an article,
// without running the full extraction and without modifying doc.
func IsProbablyReaderable(doc *html.Node, opts readerly.Options) bool {
	return isProbablyReaderable(doc, opts.MinContentLength, DefaultClassifier())
}

// readerableMinNodeLength is the shortest node text that contributes to
// the readerable score.
const readerableMinNodeLength = 25

// ReaderableMinScore is the score a document must exceed to count as
// readerable. Smaller minimum node lengths lower the bar.
func ReaderableMinScore(minContentLength int) float64 {
	switch {
	case minContentLength <= 40:
		return 5
	case minContentLength <= 80:
		return 10
	case minContentLength <= 140:
		return 20
	case minContentLength <= 280:
		return 30
	}
	return 40
}

func isProbablyReaderable(doc *html.Node, minContentLength int, cls *Classifier) bool {
	gq := goquery.NewDocumentFromNode(doc)

	seen := make(map[*html.Node]bool)
	var nodes []*html.Node
	gq.Find("p, pre, article").Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		seen[n] = true
		nodes = append(nodes, n)
	})
	gq.Find("div > br").Each(func(_ int, s *goquery.Selection) {
		if p := s.Get(0).Parent; !seen[p] {
			seen[p] = true
			nodes = append(nodes, p)
		}
	})

	minScore := ReaderableMinScore(minContentLength)
	score := 0.0
	for _, n := range nodes {
		if !isProbablyVisible(n) {
			continue
		}
		if cls.Classify(n).Unlikely {
			continue
		}
		if n.Data == "p" && hasAncestorTag(n, "li", 0, nil) {
			continue
		}
		length := utf8.RuneCountInString(strings.TrimSpace(textContent(n)))
		if length < readerableMinNodeLength {
			continue
		}
		score += math.Sqrt(float64(length - readerableMinNodeLength))
		if score > minScore {
			return true
		}
	}
	return false
}
