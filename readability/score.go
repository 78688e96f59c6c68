package readability

import (
	"math"

	"golang.org/x/net/html"
)

// Propagation decides how much of a scored element's points reach each
// of its ancestors. Level 0 is the parent.
type Propagation struct {
	Levels  int
	Divisor func(level int) float64
}

// DefaultPropagation gives the parent the full score, the grandparent
// half and deeper ancestors a third per level, five levels up.
var DefaultPropagation = Propagation{
	Levels: 5,
	Divisor: func(level int) float64 {
		switch level {
		case 0:
			return 1
		case 1:
			return 2
		}
		return float64(level) * 3
	},
}

// scoreRecord is the side-table entry of a scored node.
type scoreRecord struct {
	score float64
}

// scores maps nodes to their records. A node without a record has never
// been scored.
type scores map[*html.Node]*scoreRecord

func (s scores) get(n *html.Node) (float64, bool) {
	r, ok := s[n]
	if !ok {
		return 0, false
	}
	return r.score, true
}

const (
	minParagraphLength = 25
	lengthBonusUnit    = 100
	maxLengthBonus     = 3
)

// scoreableTags are the elements whose own text feeds the scores.
var scoreableTags = []string{"section", "h2", "h3", "h4", "h5", "h6", "p", "td", "pre"}

// Scorer assigns content scores to the ancestors of text-bearing
// elements.
type Scorer struct {
	cls         *Classifier
	propagation Propagation
}

// NewScorer returns a Scorer.
func NewScorer(cls *Classifier, propagation Propagation) *Scorer {
	return &Scorer{cls: cls, propagation: propagation}
}

// Score scores every scoreable element below root and returns the
// candidates in the order their records were created.
func (s *Scorer) Score(root *html.Node, f flags, sc scores, tc *textCache) []*html.Node {
	var candidates []*html.Node
	for _, el := range getElementsByTagName(root, scoreableTags...) {
		if el.Parent == nil || el.Parent.Type != html.ElementNode {
			continue
		}
		text := tc.innerText(el)
		length := tc.textLength(el)
		if length < minParagraphLength {
			continue
		}
		anc := ancestors(el, s.propagation.Levels)
		if len(anc) == 0 {
			continue
		}

		points := s.ParagraphScore(text, length)
		for level, a := range anc {
			if _, ok := sc[a]; !ok {
				sc[a] = &scoreRecord{score: s.InitialScore(a, f)}
				candidates = append(candidates, a)
			}
			sc[a].score += points / s.propagation.Divisor(level)
		}
	}
	return candidates
}

// ParagraphScore is the base score of an element's own text: one point,
// one per comma and one per hundred characters up to three.
func (s *Scorer) ParagraphScore(text string, length int) float64 {
	score := 1.0
	score += float64(s.cls.CountCommas(text))
	score += math.Min(math.Floor(float64(length)/lengthBonusUnit), maxLengthBonus)
	return score
}

// InitialScore is the score a node starts from when first scored.
func (s *Scorer) InitialScore(n *html.Node, f flags) float64 {
	score := 0.0
	switch n.Data {
	case "div":
		score += 5
	case "pre", "td", "blockquote":
		score += 3
	case "address", "ol", "ul", "dl", "dd", "dt", "li", "form":
		score -= 3
	case "h1", "h2", "h3", "h4", "h5", "h6", "th":
		score -= 5
	}
	return score + s.ClassWeight(n, f)
}

// ClassWeight is the class and id contribution to a node's score.
func (s *Scorer) ClassWeight(n *html.Node, f flags) float64 {
	if !f.has(flagWeightClasses) {
		return 0
	}
	return s.cls.Classify(n).Weight()
}

// ScoreDocument scores root with every heuristic enabled and returns the
// score of each candidate. root is not modified.
func (s *Scorer) ScoreDocument(root *html.Node) map[*html.Node]float64 {
	sc := make(scores)
	s.Score(root, allFlags, sc, newTextCache(s.cls))
	out := make(map[*html.Node]float64, len(sc))
	for n, r := range sc {
		out[n] = r.score
	}
	return out
}
