package readability

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var phrasingElems = map[string]bool{
	"abbr": true, "audio": true, "b": true, "bdo": true, "br": true, "button": true,
	"cite": true, "code": true, "data": true, "datalist": true, "dfn": true, "em": true,
	"embed": true, "i": true, "img": true, "input": true, "kbd": true, "label": true,
	"mark": true, "math": true, "meter": true, "noscript": true, "object": true,
	"output": true, "progress": true, "q": true, "ruby": true, "samp": true,
	"script": true, "select": true, "small": true, "span": true, "strong": true,
	"sub": true, "sup": true, "textarea": true, "time": true, "var": true, "wbr": true,
}

var divToPElems = map[string]bool{
	"blockquote": true, "dl": true, "div": true, "img": true, "ol": true,
	"p": true, "pre": true, "table": true, "ul": true,
}

var unlikelyRoles = map[string]bool{
	"menu": true, "menubar": true, "complementary": true, "navigation": true,
	"alert": true, "alertdialog": true, "dialog": true,
}

var presentationalAttributes = []string{
	"align", "background", "bgcolor", "border", "cellpadding", "cellspacing",
	"frame", "hspace", "rules", "style", "valign", "vspace",
}

var deprecatedSizeAttributeElems = map[string]bool{
	"table": true, "th": true, "td": true, "hr": true, "pre": true,
}

func tagName(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	return n.Data
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			attrs = append(attrs, a)
		}
	}
	n.Attr = attrs
}

func newElement(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// setTag renames an element in place, keeping its attributes, children
// and identity.
func setTag(n *html.Node, tag string) {
	n.Data = tag
	n.DataAtom = atom.Lookup([]byte(tag))
}

func removeNode(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// replaceNode puts repl where old was. repl may still be attached
// elsewhere.
func replaceNode(old, repl *html.Node) {
	if old.Parent == nil || old == repl {
		return
	}
	removeNode(repl)
	old.Parent.InsertBefore(repl, old)
	old.Parent.RemoveChild(old)
}

func appendChild(parent, child *html.Node) {
	removeNode(child)
	parent.AppendChild(child)
}

// moveChildren moves every child of src to the end of dst.
func moveChildren(dst, src *html.Node) {
	for c := src.FirstChild; c != nil; {
		next := c.NextSibling
		src.RemoveChild(c)
		dst.AppendChild(c)
		c = next
	}
}

// cloneNode returns a deep copy of n detached from any tree.
func cloneNode(n *html.Node) *html.Node {
	m := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		m.Attr = make([]html.Attribute, len(n.Attr))
		copy(m.Attr, n.Attr)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		m.AppendChild(cloneNode(c))
	}
	return m
}

func elementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func firstElementChild(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

func nextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// nextNode walks the element tree below root depth first. With
// skipChildren set the descendants of n are skipped.
func nextNode(root, n *html.Node, skipChildren bool) *html.Node {
	if !skipChildren {
		if c := firstElementChild(n); c != nil {
			return c
		}
	}
	if n == root {
		return nil
	}
	if s := nextElementSibling(n); s != nil {
		return s
	}
	for p := n.Parent; p != nil && p != root; p = p.Parent {
		if s := nextElementSibling(p); s != nil {
			return s
		}
	}
	return nil
}

// removeAndGetNext removes n and returns the node that follows it in
// document order.
func removeAndGetNext(root, n *html.Node) *html.Node {
	next := nextNode(root, n, true)
	removeNode(n)
	return next
}

// getElementsByTagName returns the descendants of n with one of the
// given tags, in document order. "*" matches every element.
func getElementsByTagName(n *html.Node, tags ...string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			for _, t := range tags {
				if t == "*" || c.Data == t {
					out = append(out, c)
					break
				}
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

func countElements(n *html.Node) int {
	count := 0
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				count++
			}
			walk(c)
		}
	}
	walk(n)
	return count
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := findFirst(c, tag); f != nil {
			return f
		}
	}
	return nil
}

// textContent concatenates every descendant text node.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				sb.WriteString(c.Data)
			case html.ElementNode:
				walk(c)
			}
		}
	}
	walk(n)
	return sb.String()
}

func isWhitespace(n *html.Node) bool {
	switch n.Type {
	case html.TextNode:
		return strings.TrimSpace(n.Data) == ""
	case html.ElementNode:
		return n.Data == "br"
	}
	return false
}

func isPhrasingContent(n *html.Node) bool {
	if n.Type == html.TextNode {
		return true
	}
	if n.Type != html.ElementNode {
		return false
	}
	if phrasingElems[n.Data] {
		return true
	}
	if n.Data == "a" || n.Data == "del" || n.Data == "ins" {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !isPhrasingContent(c) {
				return false
			}
		}
		return true
	}
	return false
}

// isElementWithoutContent reports whether n has no text and holds
// nothing but line breaks and rules.
func isElementWithoutContent(n *html.Node) bool {
	if n.Type != html.ElementNode || strings.TrimSpace(textContent(n)) != "" {
		return false
	}
	children := elementChildren(n)
	if len(children) == 0 {
		return true
	}
	for _, c := range children {
		if c.Data != "br" && c.Data != "hr" {
			return false
		}
	}
	return true
}

// hasSingleTagInsideElement reports whether n holds exactly one element
// child with the given tag and no meaningful text of its own.
func hasSingleTagInsideElement(n *html.Node, tag string) bool {
	children := elementChildren(n)
	if len(children) != 1 || children[0].Data != tag {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			return false
		}
	}
	return true
}

func hasChildBlockElement(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if divToPElems[c.Data] || hasChildBlockElement(c) {
			return true
		}
	}
	return false
}

// hasAncestorTag reports whether an ancestor of n within maxDepth levels
// has the given tag and satisfies filter. A maxDepth of zero or less
// means unlimited.
func hasAncestorTag(n *html.Node, tag string, maxDepth int, filter func(*html.Node) bool) bool {
	depth := 0
	for p := n.Parent; p != nil; p = p.Parent {
		if maxDepth > 0 && depth >= maxDepth {
			return false
		}
		if p.Type == html.ElementNode && p.Data == tag && (filter == nil || filter(p)) {
			return true
		}
		depth++
	}
	return false
}

// ancestors returns up to maxDepth element ancestors of n, nearest first.
// Ancestors without an element parent (the root element) are excluded.
func ancestors(n *html.Node, maxDepth int) []*html.Node {
	var out []*html.Node
	for p := n.Parent; p != nil && p.Type == html.ElementNode; p = p.Parent {
		if p.Parent == nil || p.Parent.Type != html.ElementNode {
			break
		}
		out = append(out, p)
		if maxDepth > 0 && len(out) == maxDepth {
			break
		}
	}
	return out
}

// isProbablyVisible reports whether n is not hidden by style or
// attributes. Hidden fallback images of wikimedia math are kept.
func isProbablyVisible(n *html.Node) bool {
	style := strings.ReplaceAll(strings.ToLower(attr(n, "style")), " ", "")
	if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
		return false
	}
	if hasAttr(n, "hidden") {
		return false
	}
	if attr(n, "aria-hidden") == "true" && !strings.Contains(attr(n, "class"), "fallback-image") {
		return false
	}
	return true
}

func bodyOf(doc *html.Node) *html.Node {
	if b := findFirst(doc, "body"); b != nil {
		return b
	}
	return doc
}
