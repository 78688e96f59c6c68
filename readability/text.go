package readability

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// textCache memoizes text lengths and link densities for the duration
// of one phase in which the tree is not mutated. Mutating phases call
// reset.
type textCache struct {
	cls     *Classifier
	lengths map[*html.Node]int
	density map[*html.Node]float64
}

func newTextCache(cls *Classifier) *textCache {
	return &textCache{
		cls:     cls,
		lengths: make(map[*html.Node]int),
		density: make(map[*html.Node]float64),
	}
}

func (tc *textCache) reset() {
	clear(tc.lengths)
	clear(tc.density)
}

// innerText returns the trimmed, whitespace-normalized text of n.
func (tc *textCache) innerText(n *html.Node) string {
	return tc.cls.NormalizeSpaces(strings.TrimSpace(textContent(n)))
}

// textLength returns the character count of innerText(n).
func (tc *textCache) textLength(n *html.Node) int {
	if l, ok := tc.lengths[n]; ok {
		return l
	}
	l := utf8.RuneCountInString(tc.innerText(n))
	tc.lengths[n] = l
	return l
}

// linkDensity is the share of n's text that sits inside links. In-page
// hash links count for less.
func (tc *textCache) linkDensity(n *html.Node) float64 {
	if d, ok := tc.density[n]; ok {
		return d
	}
	d := 0.0
	if total := tc.textLength(n); total > 0 {
		var linkLength float64
		for _, a := range getElementsByTagName(n, "a") {
			coefficient := 1.0
			if href := attr(a, "href"); href != "" && tc.cls.hashURL.MatchString(href) {
				coefficient = 0.3
			}
			linkLength += float64(tc.textLength(a)) * coefficient
		}
		d = linkLength / float64(total)
	}
	tc.density[n] = d
	return d
}

// textDensity is the share of n's text inside descendants with one of
// the given tags.
func (tc *textCache) textDensity(n *html.Node, tags ...string) float64 {
	total := tc.textLength(n)
	if total == 0 {
		return 0
	}
	children := 0
	for _, c := range getElementsByTagName(n, tags...) {
		children += tc.textLength(c)
	}
	return float64(children) / float64(total)
}

var tokenize = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

func tokens(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range tokenize.Split(strings.ToLower(s), -1) {
		if t != "" {
			set[t] = true
		}
	}
	return set
}

// TextSimilarity returns the Jaccard similarity of the word sets of a
// and b, between 0 and 1.
func TextSimilarity(a, b string) float64 {
	ta, tb := tokens(a), tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	shared := 0
	for t := range ta {
		if tb[t] {
			shared++
		}
	}
	union := len(ta) + len(tb) - shared
	return float64(shared) / float64(union)
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
