package readability

import (
	"strings"

	"golang.org/x/net/html"
)

// flags toggle the aggressive heuristics. Failed attempts drop them one
// at a time.
type flags uint8

const (
	flagStripUnlikelys flags = 1 << iota
	flagWeightClasses
	flagCleanConditionally

	allFlags = flagStripUnlikelys | flagWeightClasses | flagCleanConditionally
)

func (f flags) has(flag flags) bool { return f&flag != 0 }

// Preprocessor removes noise from a document before scoring.
type Preprocessor struct {
	cls *Classifier
}

// NewPreprocessor returns a Preprocessor using cls.
func NewPreprocessor(cls *Classifier) *Preprocessor {
	return &Preprocessor{cls: cls}
}

var noiseTags = map[string]bool{
	"script": true, "noscript": true, "style": true, "template": true, "link": true,
}

// Prepare applies the document-wide cleanup that does not depend on
// heuristic flags: it drops comments and non-content elements, turns
// chains of line breaks into paragraphs and renames font elements.
func (p *Preprocessor) Prepare(doc *html.Node) {
	var noise []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.CommentNode:
				noise = append(noise, c)
			case c.Type == html.ElementNode && noiseTags[c.Data]:
				noise = append(noise, c)
			case c.Type == html.ElementNode:
				if c.Data == "font" {
					setTag(c, "span")
				}
				walk(c)
			}
		}
	}
	walk(doc)
	for _, n := range noise {
		removeNode(n)
	}

	p.replaceBrs(bodyOf(doc))
}

// replaceBrs replaces runs of two or more <br> with a paragraph holding
// the phrasing content that follows.
func (p *Preprocessor) replaceBrs(root *html.Node) {
	for _, br := range getElementsByTagName(root, "br") {
		if br.Parent == nil {
			continue
		}
		next := br.NextSibling
		replaced := false
		for next = skipWhitespace(next); next != nil && tagName(next) == "br"; next = skipWhitespace(next) {
			replaced = true
			sibling := next.NextSibling
			removeNode(next)
			next = sibling
		}
		if !replaced {
			continue
		}

		para := newElement("p")
		replaceNode(br, para)

		next = para.NextSibling
		for next != nil {
			if tagName(next) == "br" {
				if after := skipWhitespace(next.NextSibling); after != nil && tagName(after) == "br" {
					break
				}
			}
			if !isPhrasingContent(next) {
				break
			}
			sibling := next.NextSibling
			appendChild(para, next)
			next = sibling
		}
		for para.LastChild != nil && isWhitespace(para.LastChild) {
			para.RemoveChild(para.LastChild)
		}
		if tagName(para.Parent) == "p" {
			setTag(para.Parent, "div")
		}
	}
}

func skipWhitespace(n *html.Node) *html.Node {
	for n != nil && n.Type != html.ElementNode && strings.TrimSpace(n.Data) == "" {
		n = n.NextSibling
	}
	return n
}

// Strip removes hidden, unlikely and empty elements below root and
// normalizes divs so that their text ends up in paragraphs.
func (p *Preprocessor) Strip(root *html.Node, f flags) {
	for n := root; n != nil; {
		if n != root && !isProbablyVisible(n) {
			n = removeAndGetNext(root, n)
			continue
		}
		if attr(n, "aria-modal") == "true" && attr(n, "role") == "dialog" {
			n = removeAndGetNext(root, n)
			continue
		}

		if f.has(flagStripUnlikelys) && n != root && p.isUnlikely(n) {
			n = removeAndGetNext(root, n)
			continue
		}

		switch n.Data {
		case "div", "section", "header", "h1", "h2", "h3", "h4", "h5", "h6":
			if n != root && isElementWithoutContent(n) {
				n = removeAndGetNext(root, n)
				continue
			}
		}

		if n.Data == "div" {
			n = p.normalizeDiv(n)
		}
		n = nextNode(root, n, false)
	}
}

var (
	contentContainers = map[string]bool{"body": true, "a": true, "article": true, "main": true}
	contentRoles      = map[string]bool{"main": true, "article": true}
)

func (p *Preprocessor) isUnlikely(n *html.Node) bool {
	role := attr(n, "role")
	if unlikelyRoles[role] {
		return true
	}
	if contentContainers[n.Data] || contentRoles[role] {
		return false
	}
	if !p.cls.Classify(n).Unlikely {
		return false
	}
	return !hasAncestorTag(n, "table", 0, nil) && !hasAncestorTag(n, "code", 0, nil)
}

// normalizeDiv wraps loose phrasing content of a div in paragraphs, then
// replaces the div by its only paragraph or renames it when it holds no
// block content. It returns the node that now stands in its place.
func (p *Preprocessor) normalizeDiv(div *html.Node) *html.Node {
	var para *html.Node
	for c := div.FirstChild; c != nil; {
		next := c.NextSibling
		if isPhrasingContent(c) {
			if para != nil {
				appendChild(para, c)
			} else if !isWhitespace(c) {
				para = newElement("p")
				div.InsertBefore(para, c)
				appendChild(para, c)
			}
		} else if para != nil {
			for para.LastChild != nil && isWhitespace(para.LastChild) {
				para.RemoveChild(para.LastChild)
			}
			para = nil
		}
		c = next
	}
	if para != nil {
		for para.LastChild != nil && isWhitespace(para.LastChild) {
			para.RemoveChild(para.LastChild)
		}
	}

	if hasSingleTagInsideElement(div, "p") && newTextCache(p.cls).linkDensity(div) < 0.25 {
		child := firstElementChild(div)
		replaceNode(div, child)
		return child
	}
	if !hasChildBlockElement(div) {
		setTag(div, "p")
	}
	return div
}
