package readability

import (
	"math"
	"slices"

	"golang.org/x/net/html"
)

const (
	minTopCandidates       = 3
	alternativeScoreRatio  = 0.75
	siblingScoreFraction   = 0.2
	minSiblingScore        = 10
	siblingLinkDensity     = 0.25
	siblingParagraphLength = 80
)

// candidateList keeps the best scoring nodes, highest first, capped at
// a fixed size. Ties keep insertion order.
type candidateList struct {
	nodes  []*html.Node
	scores []float64
	limit  int
}

func newCandidateList(limit int) *candidateList {
	return &candidateList{limit: limit}
}

func (l *candidateList) insert(n *html.Node, score float64) {
	i := 0
	for i < len(l.nodes) && l.scores[i] >= score {
		i++
	}
	if i >= l.limit {
		return
	}
	l.nodes = slices.Insert(l.nodes, i, n)
	l.scores = slices.Insert(l.scores, i, score)
	if len(l.nodes) > l.limit {
		l.nodes = l.nodes[:l.limit]
		l.scores = l.scores[:l.limit]
	}
}

// CandidateSelector picks the best scoring subtree and gathers its
// related siblings into a new article container.
type CandidateSelector struct {
	scorer              *Scorer
	topCandidates       int
	linkDensityModifier float64
}

// NewCandidateSelector returns a CandidateSelector.
func NewCandidateSelector(scorer *Scorer, topCandidates int, linkDensityModifier float64) *CandidateSelector {
	return &CandidateSelector{
		scorer:              scorer,
		topCandidates:       topCandidates,
		linkDensityModifier: linkDensityModifier,
	}
}

// selection is the outcome of Select.
type selection struct {
	// content is the detached article container.
	content *html.Node

	// top is the chosen candidate.
	top *html.Node

	// created is set when no candidate qualified and the whole body was
	// wrapped into a new container.
	created bool
}

// Select adjusts candidate scores by link density, picks the top
// candidate and assembles it with its qualifying siblings.
func (cs *CandidateSelector) Select(body *html.Node, candidates []*html.Node, f flags, sc scores, tc *textCache) selection {
	top := cs.topCandidates
	if top < 1 {
		top = 1
	}
	list := newCandidateList(top)
	for _, c := range candidates {
		adjusted := sc[c].score * (1 - tc.linkDensity(c))
		sc[c].score = adjusted
		list.insert(c, adjusted)
	}

	var best *html.Node
	if len(list.nodes) > 0 {
		best = list.nodes[0]
	}

	created := false
	if best == nil || best.Data == "body" {
		best = newElement("div")
		moveChildren(best, body)
		body.AppendChild(best)
		sc[best] = &scoreRecord{score: cs.scorer.InitialScore(best, f)}
		created = true
	} else {
		best = cs.promote(best, list, body, f, sc)
	}

	return selection{
		content: cs.assemble(best, f, sc, tc),
		top:     best,
		created: created,
	}
}

// promote moves the choice up the tree when several strong candidates
// share an ancestor, when an ancestor scores higher, or when the
// candidate is an only child.
func (cs *CandidateSelector) promote(best *html.Node, list *candidateList, body *html.Node, f flags, sc scores) *html.Node {
	bestScore := list.scores[0]
	var alternatives [][]*html.Node
	for i := 1; i < len(list.nodes); i++ {
		if bestScore > 0 && list.scores[i]/bestScore >= alternativeScoreRatio {
			alternatives = append(alternatives, ancestors(list.nodes[i], 0))
		}
	}
	if len(alternatives) >= minTopCandidates {
		for p := best.Parent; p != nil && p != body && p.Type == html.ElementNode; p = p.Parent {
			containing := 0
			for _, anc := range alternatives {
				if slices.Contains(anc, p) {
					containing++
				}
			}
			if containing >= minTopCandidates {
				best = p
				break
			}
		}
	}
	cs.ensureScored(best, f, sc)

	lastScore := sc[best].score
	threshold := lastScore / 3
	for p := best.Parent; p != nil && p != body && p.Type == html.ElementNode; p = p.Parent {
		parentScore, ok := sc.get(p)
		if !ok {
			continue
		}
		if parentScore < threshold {
			break
		}
		if parentScore > lastScore {
			best = p
			break
		}
		lastScore = parentScore
	}

	for p := best.Parent; p != nil && p != body && p.Type == html.ElementNode && len(elementChildren(p)) == 1; p = best.Parent {
		best = p
	}
	cs.ensureScored(best, f, sc)
	return best
}

func (cs *CandidateSelector) ensureScored(n *html.Node, f flags, sc scores) {
	if _, ok := sc[n]; !ok {
		sc[n] = &scoreRecord{score: cs.scorer.InitialScore(n, f)}
	}
}

var keepTagOnAppend = map[string]bool{"div": true, "article": true, "section": true, "p": true}

// assemble moves best and every qualifying sibling into a new container.
func (cs *CandidateSelector) assemble(best *html.Node, f flags, sc scores, tc *textCache) *html.Node {
	content := newElement("div")
	bestScore := sc[best].score
	threshold := math.Max(minSiblingScore, bestScore*(siblingScoreFraction+cs.linkDensityModifier))
	bestClass := attr(best, "class")

	parent := best.Parent
	if parent == nil {
		appendChild(content, best)
		return content
	}
	for _, sibling := range elementChildren(parent) {
		if !cs.includeSibling(sibling, best, bestScore, bestClass, threshold, sc, tc) {
			continue
		}
		if !keepTagOnAppend[sibling.Data] {
			setTag(sibling, "div")
		}
		appendChild(content, sibling)
	}
	return content
}

func (cs *CandidateSelector) includeSibling(sibling, best *html.Node, bestScore float64, bestClass string, threshold float64, sc scores, tc *textCache) bool {
	if sibling == best {
		return true
	}
	bonus := 0.0
	if bestClass != "" && attr(sibling, "class") == bestClass {
		bonus += bestScore * siblingScoreFraction
	}
	if score, ok := sc.get(sibling); ok && score+bonus >= threshold {
		return true
	}
	if sibling.Data != "p" {
		return false
	}
	density := tc.linkDensity(sibling)
	length := tc.textLength(sibling)
	if length > siblingParagraphLength && density < siblingLinkDensity {
		return true
	}
	return length < siblingParagraphLength && length > 0 && density == 0 &&
		cs.scorer.cls.sentenceEnd.MatchString(tc.innerText(sibling))
}
