package readability

import (
	"bytes"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	shareElementThreshold = 500
	minCommasToKeep       = 10
	maxB64ImageLength     = 133
)

// Cleaner removes residual boilerplate from an assembled article and
// finalizes its markup.
type Cleaner struct {
	cls                 *Classifier
	scorer              *Scorer
	videos              *regexp.Regexp
	linkDensityModifier float64
	keepClasses         bool
	preserve            map[string]bool
}

// NewCleaner returns a Cleaner. A nil videos pattern falls back to the
// classifier's video hosts.
func NewCleaner(cls *Classifier, scorer *Scorer, videos *regexp.Regexp, linkDensityModifier float64, keepClasses bool, preserve []string) *Cleaner {
	if videos == nil {
		videos = cls.Videos()
	}
	set := make(map[string]bool, len(preserve))
	for _, c := range preserve {
		set[c] = true
	}
	return &Cleaner{
		cls:                 cls,
		scorer:              scorer,
		videos:              videos,
		linkDensityModifier: linkDensityModifier,
		keepClasses:         keepClasses,
		preserve:            set,
	}
}

// Clean strips presentational markup and conditionally removes
// elements that look like boilerplate.
func (c *Cleaner) Clean(content *html.Node, f flags) {
	c.cleanStyles(content)
	dataTables := markDataTables(content)
	c.fixLazyImages(content)

	c.cleanConditionally(content, "form", f, dataTables)
	c.cleanConditionally(content, "fieldset", f, dataTables)
	c.clean(content, "object", "embed", "footer", "link", "aside")

	for _, child := range elementChildren(content) {
		c.cleanMatchedNodes(child, func(n *html.Node) bool {
			return c.cls.Classify(n).Share && utf8.RuneCountInString(textContent(n)) < shareElementThreshold
		})
	}

	c.clean(content, "iframe", "input", "textarea", "select", "button")
	c.cleanHeaders(content, f)

	c.cleanConditionally(content, "table", f, dataTables)
	c.cleanConditionally(content, "ul", f, dataTables)
	c.cleanConditionally(content, "div", f, dataTables)

	c.removeEmptyParagraphs(content)
	c.removeBrsBeforeParagraphs(content)
	c.unwrapSingleCellTables(content)
}

func (c *Cleaner) cleanStyles(n *html.Node) {
	if n.Type != html.ElementNode || n.Data == "svg" {
		return
	}
	for _, a := range presentationalAttributes {
		removeAttr(n, a)
	}
	if deprecatedSizeAttributeElems[n.Data] {
		removeAttr(n, "width")
		removeAttr(n, "height")
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.cleanStyles(child)
	}
}

// markDataTables returns the set of tables that hold tabular data rather
// than layout.
func markDataTables(root *html.Node) map[*html.Node]bool {
	data := make(map[*html.Node]bool)
	for _, table := range getElementsByTagName(root, "table") {
		data[table] = isDataTable(table)
	}
	return data
}

func isDataTable(table *html.Node) bool {
	if attr(table, "role") == "presentation" {
		return false
	}
	if attr(table, "datatable") == "0" {
		return false
	}
	if hasAttr(table, "summary") {
		return true
	}
	if caption := findFirst(table, "caption"); caption != nil && caption.FirstChild != nil {
		return true
	}
	if len(getElementsByTagName(table, "col", "colgroup", "tfoot", "thead", "th")) > 0 {
		return true
	}
	if len(getElementsByTagName(table, "table")) > 0 {
		return false
	}
	rows, columns := rowAndColumnCount(table)
	if rows == 1 || columns == 1 {
		return false
	}
	if rows >= 10 || columns > 4 {
		return true
	}
	return rows*columns > 10
}

func rowAndColumnCount(table *html.Node) (rows, columns int) {
	for _, tr := range getElementsByTagName(table, "tr") {
		rowSpan, err := strconv.Atoi(attr(tr, "rowspan"))
		if err != nil || rowSpan < 1 {
			rowSpan = 1
		}
		rows += rowSpan

		cols := 0
		for _, cell := range getElementsByTagName(tr, "td") {
			colSpan, err := strconv.Atoi(attr(cell, "colspan"))
			if err != nil || colSpan < 1 {
				colSpan = 1
			}
			cols += colSpan
		}
		columns = max(columns, cols)
	}
	return rows, columns
}

// fixLazyImages copies image URLs from lazy-loading attributes into src
// and srcset, and drops tiny base64 placeholders.
func (c *Cleaner) fixLazyImages(root *html.Node) {
	for _, el := range getElementsByTagName(root, "img", "picture", "figure") {
		src := attr(el, "src")
		if m := c.cls.b64DataURL.FindStringSubmatch(src); m != nil {
			if m[1] == "image/svg+xml" {
				continue
			}
			removable := false
			for _, a := range el.Attr {
				if a.Key != "src" && (c.cls.lazySrc.MatchString(a.Val) || c.cls.lazySrcset.MatchString(a.Val)) {
					removable = true
					break
				}
			}
			if removable {
				start := strings.Index(strings.ToLower(src), "base64") + len("base64,")
				if len(src)-start < maxB64ImageLength {
					removeAttr(el, "src")
					src = ""
				}
			}
		}

		srcset := attr(el, "srcset")
		if (src != "" || (srcset != "" && srcset != "null")) && !strings.Contains(strings.ToLower(attr(el, "class")), "lazy") {
			continue
		}

		for _, a := range el.Attr {
			if a.Key == "src" || a.Key == "srcset" || a.Key == "alt" {
				continue
			}
			copyTo := ""
			switch {
			case c.cls.lazySrcset.MatchString(a.Val):
				copyTo = "srcset"
			case c.cls.lazySrc.MatchString(a.Val):
				copyTo = "src"
			}
			if copyTo == "" {
				continue
			}
			switch el.Data {
			case "img", "picture":
				setAttr(el, copyTo, a.Val)
			case "figure":
				if len(getElementsByTagName(el, "img", "picture")) == 0 {
					img := newElement("img")
					setAttr(img, copyTo, a.Val)
					el.AppendChild(img)
				}
			}
		}
	}
}

func (c *Cleaner) isEmbed(tag string) bool {
	return tag == "object" || tag == "embed" || tag == "iframe"
}

// allowsVideo reports whether an embed points at an allowed video host.
func (c *Cleaner) allowsVideo(n *html.Node) bool {
	for _, a := range n.Attr {
		if c.videos.MatchString(a.Val) {
			return true
		}
	}
	return n.Data == "object" && c.videos.MatchString(innerHTML(n))
}

// clean removes every element with one of the tags, keeping embeds of
// allowed video hosts.
func (c *Cleaner) clean(root *html.Node, tags ...string) {
	for _, n := range getElementsByTagName(root, tags...) {
		if c.isEmbed(n.Data) && c.allowsVideo(n) {
			continue
		}
		removeNode(n)
	}
}

// cleanMatchedNodes removes the descendants of e matched by filter.
func (c *Cleaner) cleanMatchedNodes(e *html.Node, filter func(*html.Node) bool) {
	for n := nextNode(e, e, false); n != nil; {
		if filter(n) {
			n = removeAndGetNext(e, n)
			continue
		}
		n = nextNode(e, n, false)
	}
}

func (c *Cleaner) cleanHeaders(root *html.Node, f flags) {
	for _, h := range getElementsByTagName(root, "h1", "h2") {
		if c.scorer.ClassWeight(h, f) < 0 {
			removeNode(h)
		}
	}
}

// cleanConditionally removes elements with the tag that look fishy:
// negative class weight, too many images or inputs relative to
// paragraphs, too many links, or ad placeholders.
func (c *Cleaner) cleanConditionally(root *html.Node, tag string, f flags, dataTables map[*html.Node]bool) {
	if !f.has(flagCleanConditionally) {
		return
	}
	tc := newTextCache(c.cls)
	nodes := getElementsByTagName(root, tag)
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if n.Parent == nil {
			continue
		}
		if c.shouldRemove(n, f, dataTables, tc) {
			removeNode(n)
			tc.reset()
		}
	}
}

func (c *Cleaner) shouldRemove(n *html.Node, f flags, dataTables map[*html.Node]bool, tc *textCache) bool {
	isDataTable := func(t *html.Node) bool { return dataTables[t] }

	sel := goquery.NewDocumentFromNode(n).Selection

	isList := n.Data == "ul" || n.Data == "ol"
	if !isList {
		listLength := 0
		for _, l := range sel.Find("ul, ol").Nodes {
			listLength += tc.textLength(l)
		}
		if total := tc.textLength(n); total > 0 {
			isList = float64(listLength)/float64(total) > 0.9
		}
	}

	if n.Data == "table" && isDataTable(n) {
		return false
	}
	if hasAncestorTag(n, "table", 0, isDataTable) || hasAncestorTag(n, "code", 0, nil) {
		return false
	}
	for _, t := range sel.Find("table").Nodes {
		if isDataTable(t) {
			return false
		}
	}

	weight := c.scorer.ClassWeight(n, f)
	if weight < 0 {
		return true
	}

	text := tc.innerText(n)
	if c.cls.CountCommas(text) >= minCommasToKeep {
		return false
	}

	paragraphs := sel.Find("p").Length()
	images := sel.Find("img").Length()
	items := sel.Find("li").Length()
	listItems := items - 100
	inputs := sel.Find("input").Length()
	headingDensity := tc.textDensity(n, "h1", "h2", "h3", "h4", "h5", "h6")

	embeds := 0
	for _, e := range sel.Find("object, embed, iframe").Nodes {
		if c.allowsVideo(e) {
			return false
		}
		embeds++
	}

	if c.cls.IsAdOrLoadingText(text) {
		return true
	}

	contentLength := tc.textLength(n)
	linkDensity := tc.linkDensity(n)
	textDensity := tc.textDensity(n, "span", "li", "td", "blockquote", "dl", "div", "img", "ol", "p", "pre", "table", "ul")
	inFigure := hasAncestorTag(n, "figure", 0, nil)

	remove := false
	switch {
	case !inFigure && images > 1 && float64(paragraphs)/float64(images) < 0.5:
		remove = true
	case !isList && listItems > paragraphs:
		remove = true
	case float64(inputs) > math.Floor(float64(paragraphs)/3):
		remove = true
	case !isList && !inFigure && headingDensity < 0.9 && contentLength < 25 && (images == 0 || images > 2) && linkDensity > 0:
		remove = true
	case !isList && weight < 25 && linkDensity > 0.2+c.linkDensityModifier:
		remove = true
	case weight >= 25 && linkDensity > 0.5+c.linkDensityModifier:
		remove = true
	case (embeds == 1 && contentLength < 75) || embeds > 1:
		remove = true
	case images == 0 && textDensity == 0:
		remove = true
	}

	if isList && remove {
		for _, child := range elementChildren(n) {
			if len(elementChildren(child)) > 1 {
				return remove
			}
		}
		if images == items {
			return false
		}
	}
	return remove
}

func (c *Cleaner) removeEmptyParagraphs(root *html.Node) {
	for _, p := range getElementsByTagName(root, "p") {
		if len(getElementsByTagName(p, "img", "embed", "object", "iframe")) == 0 &&
			strings.TrimSpace(textContent(p)) == "" {
			removeNode(p)
		}
	}
}

func (c *Cleaner) removeBrsBeforeParagraphs(root *html.Node) {
	for _, br := range getElementsByTagName(root, "br") {
		if next := skipWhitespace(br.NextSibling); next != nil && tagName(next) == "p" {
			removeNode(br)
		}
	}
}

// unwrapSingleCellTables replaces tables holding a single cell by that
// cell, renamed to a paragraph or a div.
func (c *Cleaner) unwrapSingleCellTables(root *html.Node) {
	for _, table := range getElementsByTagName(root, "table") {
		if table.Parent == nil {
			continue
		}
		tbody := table
		if hasSingleTagInsideElement(table, "tbody") {
			tbody = firstElementChild(table)
		}
		if !hasSingleTagInsideElement(tbody, "tr") {
			continue
		}
		row := firstElementChild(tbody)
		if !hasSingleTagInsideElement(row, "td") {
			continue
		}
		cell := firstElementChild(row)
		tag := "p"
		for child := cell.FirstChild; child != nil; child = child.NextSibling {
			if !isPhrasingContent(child) {
				tag = "div"
				break
			}
		}
		setTag(cell, tag)
		replaceNode(table, cell)
	}
}

// Finish resolves relative URLs against base, collapses redundant
// wrappers and strips class attributes.
func (c *Cleaner) Finish(content *html.Node, base *url.URL) {
	c.fixRelativeURIs(content, base)
	c.simplifyNestedElements(content)
	if !c.keepClasses {
		c.cleanClasses(content)
	}
}

func (c *Cleaner) fixRelativeURIs(root *html.Node, base *url.URL) {
	for _, a := range getElementsByTagName(root, "a") {
		href := attr(a, "href")
		if href == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(href)), "javascript:") {
			if a.FirstChild != nil && a.FirstChild == a.LastChild && a.FirstChild.Type == html.TextNode {
				replaceNode(a, &html.Node{Type: html.TextNode, Data: a.FirstChild.Data})
			} else {
				span := newElement("span")
				moveChildren(span, a)
				replaceNode(a, span)
			}
			continue
		}
		setAttr(a, "href", toAbsoluteURI(href, base))
	}

	for _, m := range getElementsByTagName(root, "img", "picture", "figure", "video", "audio", "source") {
		for _, key := range []string{"src", "poster"} {
			if v := attr(m, key); v != "" {
				setAttr(m, key, toAbsoluteURI(v, base))
			}
		}
		if srcset := attr(m, "srcset"); srcset != "" {
			setAttr(m, "srcset", c.cls.srcsetURL.ReplaceAllStringFunc(srcset, func(s string) string {
				parts := c.cls.srcsetURL.FindStringSubmatch(s)
				return toAbsoluteURI(parts[1], base) + parts[2] + parts[3]
			}))
		}
	}
}

func toAbsoluteURI(uri string, base *url.URL) string {
	if base == nil || strings.HasPrefix(uri, "#") {
		return uri
	}
	ref, err := url.Parse(strings.TrimSpace(uri))
	if err != nil {
		return uri
	}
	return base.ResolveReference(ref).String()
}

func (c *Cleaner) simplifyNestedElements(root *html.Node) {
	for n := root; n != nil; {
		if n != root && (n.Data == "div" || n.Data == "section") && !strings.HasPrefix(attr(n, "id"), "readability") {
			if isElementWithoutContent(n) {
				n = removeAndGetNext(root, n)
				continue
			}
			if hasSingleTagInsideElement(n, "div") || hasSingleTagInsideElement(n, "section") {
				child := firstElementChild(n)
				for _, a := range n.Attr {
					setAttr(child, a.Key, a.Val)
				}
				replaceNode(n, child)
				n = child
				continue
			}
		}
		n = nextNode(root, n, false)
	}
}

func (c *Cleaner) cleanClasses(n *html.Node) {
	if n.Type == html.ElementNode {
		var kept []string
		for _, class := range strings.Fields(attr(n, "class")) {
			if c.preserve[class] {
				kept = append(kept, class)
			}
		}
		if len(kept) > 0 {
			setAttr(n, "class", strings.Join(kept, " "))
		} else {
			removeAttr(n, "class")
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.cleanClasses(child)
	}
}

func innerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		_ = html.Render(&buf, child)
	}
	return buf.String()
}
