package readability

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/fwojciec/readerly"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/bidi"
)

// Title and byline bounds.
const (
	titleMaxWords  = 25
	titleMaxChars  = 200
	bylineMaxChars = 100
	dirSampleRunes = 4096
)

var (
	metaPropertyPattern = regexp.MustCompile(`(?i)\s*(article|dc|dcterm|og|twitter)\s*:\s*(author|creator|description|published_time|title|site_name)\s*`)
	metaNamePattern     = regexp.MustCompile(`(?i)^\s*(?:(dc|dcterm|og|twitter|parsely|weibo:(article|webpage))\s*[-\.:]\s*)?(author|creator|pub-date|description|title|site_name)\s*$`)
	schemaOrgContext    = regexp.MustCompile(`^https?://schema\.org/?$`)
	cdataPattern        = regexp.MustCompile(`^\s*<!\[CDATA\[|\]\]>\s*$`)
)

// jsonLD holds the fields read from a schema.org article object.
type jsonLD struct {
	title         string
	byline        string
	excerpt       string
	siteName      string
	publishedTime string
}

// MetadataExtractor reads document-level metadata. It never modifies the
// document.
type MetadataExtractor struct {
	cls *Classifier
}

// NewMetadataExtractor returns a MetadataExtractor.
func NewMetadataExtractor(cls *Classifier) *MetadataExtractor {
	return &MetadataExtractor{cls: cls}
}

// Extract gathers title, byline, excerpt, site name, publication time,
// language and direction. Each field takes the first valid value from
// its sources in priority order.
func (m *MetadataExtractor) Extract(doc *html.Node, disableJSONLD bool) readerly.Metadata {
	gq := goquery.NewDocumentFromNode(doc)

	var ld jsonLD
	if !disableJSONLD {
		ld = m.jsonLD(gq)
	}
	values := m.metaValues(gq)

	var md readerly.Metadata

	md.Title = firstValid(m.validTitle,
		ld.title,
		values["og:title"],
		values["twitter:title"],
		values["dc:title"],
		values["dcterm:title"],
		values["weibo:article:title"],
		values["weibo:webpage:title"],
		values["parsely-title"],
		values["title"],
	)
	if md.Title == "" {
		md.Title = firstValid(m.validTitle, m.documentTitle(gq), m.firstHeading(gq))
	}

	md.Byline = firstValid(m.validByline,
		values["dc:creator"],
		values["dcterm:creator"],
		values["author"],
		values["parsely-author"],
		values["article:author"],
	)
	if md.Byline == "" {
		md.Byline = firstValid(m.validByline,
			strings.TrimSpace(gq.Find(`a[rel~="author"]`).First().Text()),
			ld.byline,
			m.bylineElement(gq),
			m.bylineParagraph(gq),
		)
	}

	md.Excerpt = firstNonEmpty(
		values["dc:description"],
		values["dcterm:description"],
		values["og:description"],
		values["weibo:article:description"],
		values["weibo:webpage:description"],
		values["description"],
		values["twitter:description"],
		ld.excerpt,
	)

	md.SiteName = firstNonEmpty(values["og:site_name"], ld.siteName)

	publishedTime, _ := gq.Find("time[datetime]").First().Attr("datetime")
	md.PublishedTime = firstValid(validDate,
		values["article:published_time"],
		values["parsely-pub-date"],
		strings.TrimSpace(publishedTime),
		ld.publishedTime,
	)

	root := gq.Find("html").First()
	lang, _ := root.Attr("lang")
	if lang == "" {
		gq.Find("meta[http-equiv]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if !strings.EqualFold(s.AttrOr("http-equiv", ""), "content-language") {
				return true
			}
			lang, _, _ = strings.Cut(s.AttrOr("content", ""), ",")
			return false
		})
	}
	md.Lang = strings.TrimSpace(lang)

	dir, _ := root.Attr("dir")
	dir = strings.ToLower(strings.TrimSpace(dir))
	if dir != "ltr" && dir != "rtl" {
		dir = detectDirection(gq.Find("body").Text())
	}
	md.Dir = dir

	fields := []*string{&md.Byline, &md.Excerpt, &md.SiteName}
	// A structured-data headline is kept as written.
	if md.Title != ld.title {
		fields = append(fields, &md.Title)
	}
	for _, p := range fields {
		*p = m.cls.NormalizeSpaces(strings.TrimSpace(m.cls.Unescape(*p)))
	}
	return md
}

// metaValues collects meta tag contents keyed by normalized property or
// name, e.g. "og:title" or "author".
func (m *MetadataExtractor) metaValues(gq *goquery.Document) map[string]string {
	values := make(map[string]string)
	gq.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content := strings.TrimSpace(s.AttrOr("content", ""))
		if content == "" {
			return
		}
		matched := false
		if property := s.AttrOr("property", ""); property != "" {
			for _, match := range metaPropertyPattern.FindAllString(property, -1) {
				key := strings.ToLower(strings.Join(strings.Fields(match), ""))
				values[key] = content
				matched = true
			}
		}
		if name := s.AttrOr("name", ""); !matched && name != "" && metaNamePattern.MatchString(name) {
			key := strings.ToLower(strings.Join(strings.Fields(name), ""))
			key = strings.ReplaceAll(key, ".", ":")
			values[key] = content
		}
	})
	return values
}

// jsonLD reads the first schema.org article object found in the
// document's JSON-LD scripts.
func (m *MetadataExtractor) jsonLD(gq *goquery.Document) jsonLD {
	var ld jsonLD
	gq.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := cdataPattern.ReplaceAllString(s.Text(), "")
		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return true
		}
		obj := m.findArticleObject(parsed)
		if obj == nil {
			return true
		}

		headline, _ := obj["headline"].(string)
		name, _ := obj["name"].(string)
		if ld.title = strings.TrimSpace(headline); ld.title == "" {
			ld.title = strings.TrimSpace(name)
		}

		ld.byline = authorName(obj["author"])
		if description, ok := obj["description"].(string); ok {
			ld.excerpt = strings.TrimSpace(description)
		}
		if publisher, ok := obj["publisher"].(map[string]any); ok {
			if name, ok := publisher["name"].(string); ok {
				ld.siteName = strings.TrimSpace(name)
			}
		}
		if published, ok := obj["datePublished"].(string); ok {
			ld.publishedTime = strings.TrimSpace(published)
		}
		return false
	})
	return ld
}

// findArticleObject returns the first object with a schema.org context
// and an article type, looking into arrays and @graph.
func (m *MetadataExtractor) findArticleObject(v any) map[string]any {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if obj := m.findArticleObject(item); obj != nil {
				return obj
			}
		}
	case map[string]any:
		if !hasSchemaOrgContext(t["@context"]) {
			return nil
		}
		if m.isArticle(t) {
			return t
		}
		if graph, ok := t["@graph"].([]any); ok {
			for _, item := range graph {
				if obj, ok := item.(map[string]any); ok && m.isArticle(obj) {
					return obj
				}
			}
		}
	}
	return nil
}

func (m *MetadataExtractor) isArticle(obj map[string]any) bool {
	switch t := obj["@type"].(type) {
	case string:
		return m.cls.IsArticleType(t)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && m.cls.IsArticleType(s) {
				return true
			}
		}
	}
	return false
}

func hasSchemaOrgContext(v any) bool {
	switch t := v.(type) {
	case string:
		return schemaOrgContext.MatchString(t)
	case map[string]any:
		vocab, _ := t["@vocab"].(string)
		return schemaOrgContext.MatchString(vocab)
	}
	return false
}

func authorName(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		name, _ := t["name"].(string)
		return strings.TrimSpace(name)
	case []any:
		var names []string
		for _, item := range t {
			if name := authorName(item); name != "" {
				names = append(names, name)
			}
		}
		return strings.Join(names, ", ")
	}
	return ""
}

// documentTitle picks the most meaningful segment of the <title>
// element. A segment repeating a page heading wins, then the longest.
func (m *MetadataExtractor) documentTitle(gq *goquery.Document) string {
	title := m.cls.NormalizeSpaces(strings.TrimSpace(gq.Find("title").First().Text()))
	if title == "" {
		return ""
	}
	segments := m.cls.titleSep.Split(title, -1)
	if len(segments) == 1 {
		return title
	}

	var headings []string
	gq.Find("h1, h2").Each(func(_ int, s *goquery.Selection) {
		headings = append(headings, strings.ToLower(m.cls.NormalizeSpaces(strings.TrimSpace(s.Text()))))
	})
	for _, h := range headings {
		if h == strings.ToLower(title) {
			return title
		}
	}
	best := ""
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		for _, h := range headings {
			if seg != "" && strings.ToLower(seg) == h {
				return seg
			}
		}
		if wordCount(seg) > wordCount(best) {
			best = seg
		}
	}
	return best
}

func (m *MetadataExtractor) firstHeading(gq *goquery.Document) string {
	return m.cls.NormalizeSpaces(strings.TrimSpace(gq.Find("h1").First().Text()))
}

// bylineElement returns the text of the first element whose class, id,
// rel or itemprop marks it as a byline.
func (m *MetadataExtractor) bylineElement(gq *goquery.Document) string {
	var byline string
	gq.Find("body *").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		n := s.Get(0)
		if !m.cls.Classify(n).Byline {
			return true
		}
		text := strings.TrimSpace(m.cls.NormalizeSpaces(s.Text()))
		if text == "" || utf8.RuneCountInString(text) >= bylineMaxChars {
			return true
		}
		byline = text
		return false
	})
	return byline
}

// bylineParagraph returns NAME from the first short paragraph reading
// "By NAME".
func (m *MetadataExtractor) bylineParagraph(gq *goquery.Document) string {
	var byline string
	gq.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(m.cls.NormalizeSpaces(s.Text()))
		if utf8.RuneCountInString(text) >= bylineMaxChars {
			return true
		}
		if match := m.cls.bylinePrefix.FindStringSubmatch(text); match != nil {
			byline = match[1]
			return false
		}
		return true
	})
	return byline
}

func (m *MetadataExtractor) validTitle(s string) bool {
	s = strings.TrimSpace(s)
	words := wordCount(s)
	return words >= 1 && words <= titleMaxWords && utf8.RuneCountInString(s) <= titleMaxChars
}

func (m *MetadataExtractor) validByline(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > bylineMaxChars {
		return false
	}
	if u, err := url.Parse(s); err == nil && u.Scheme != "" && u.Host != "" {
		return false
	}
	return true
}

func validDate(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	_, err := dateparse.ParseAny(s)
	return err == nil
}

func firstValid(valid func(string) bool, candidates ...string) string {
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c != "" && valid(c) {
			return c
		}
	}
	return ""
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return ""
}

// detectDirection guesses the writing direction from the strong
// directional characters in a sample of text.
func detectDirection(text string) string {
	var ltr, rtl, seen int
	for _, r := range text {
		if seen >= dirSampleRunes {
			break
		}
		seen++
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.L:
			ltr++
		case bidi.R, bidi.AL:
			rtl++
		}
	}
	switch {
	case rtl == 0 && ltr == 0:
		return ""
	case rtl > ltr:
		return "rtl"
	}
	return "ltr"
}
