// Package readability implements the content extraction engine: it
// scores the nodes of an HTML document, selects the subtree most likely
// to hold the article, cleans it and gathers document metadata.
package readability

import (
	"io"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/readerly"
	"golang.org/x/net/html"
)

// Ensure Parser implements the readerly interfaces at compile time.
var (
	_ readerly.Extractor         = (*Parser)(nil)
	_ readerly.ReaderableChecker = (*Parser)(nil)
)

const (
	excerptMaxChars       = 200
	charsPerWord          = 20
	maxBoilerplateDensity = 0.5
)

// Parser extracts articles. It is immutable once built and safe for
// concurrent use; every extraction keeps its state in its own run.
type Parser struct {
	opts        readerly.Options
	cls         *Classifier
	logger      *slog.Logger
	propagation Propagation

	pre      *Preprocessor
	scorer   *Scorer
	selector *CandidateSelector
	cleaner  *Cleaner
	metadata *MetadataExtractor
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for debug output. Debug records are
// only emitted when Options.Debug is set.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithClassifier replaces the process-wide classifier.
func WithClassifier(cls *Classifier) Option {
	return func(p *Parser) {
		p.cls = cls
	}
}

// WithPropagation sets how scores spread to ancestors.
// Defaults to DefaultPropagation.
func WithPropagation(propagation Propagation) Option {
	return func(p *Parser) {
		p.propagation = propagation
	}
}

// NewParser returns a Parser for the given options.
func NewParser(opts readerly.Options, options ...Option) (*Parser, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p := &Parser{
		opts:        opts,
		cls:         DefaultClassifier(),
		logger:      slog.New(slog.DiscardHandler),
		propagation: DefaultPropagation,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.propagation.Levels < 1 || p.propagation.Divisor == nil {
		return nil, readerly.Errorf(readerly.EINVALID, "score propagation needs at least one level and a divisor")
	}

	p.pre = NewPreprocessor(p.cls)
	p.scorer = NewScorer(p.cls, p.propagation)
	p.selector = NewCandidateSelector(p.scorer, opts.NbTopCandidates, opts.LinkDensityModifier)
	p.cleaner = NewCleaner(p.cls, p.scorer, opts.AllowedVideoRegex, opts.LinkDensityModifier, opts.KeepClasses, opts.ClassesToPreserve)
	p.metadata = NewMetadataExtractor(p.cls)
	return p, nil
}

// Extract parses the document read from r and extracts its article.
// It returns a nil Article and a nil error when the document holds no
// article.
func (p *Parser) Extract(r io.Reader, baseURI string) (*readerly.Article, error) {
	base, err := parseBaseURI(baseURI)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(r)
	if err != nil {
		return nil, err
	}
	return p.extract(doc, base)
}

// ExtractNode extracts the article of an already parsed document. The
// document is not modified.
func (p *Parser) ExtractNode(doc *html.Node, baseURI string) (*readerly.Article, error) {
	base, err := parseBaseURI(baseURI)
	if err != nil {
		return nil, err
	}
	return p.extract(doc, base)
}

// IsProbablyReaderable parses the document read from r and runs the
// readerable check on it.
func (p *Parser) IsProbablyReaderable(r io.Reader) (bool, error) {
	doc, err := ParseDocument(r)
	if err != nil {
		return false, err
	}
	return isProbablyReaderable(doc, p.opts.MinContentLength, p.cls), nil
}

// attempt is the outcome of one pass over the document with a given set
// of heuristic flags.
type attempt struct {
	content *html.Node
	length  int
}

func (p *Parser) extract(doc *html.Node, base *url.URL) (*readerly.Article, error) {
	if p.opts.MaxElemsToParse > 0 {
		if n := countElements(doc); n > p.opts.MaxElemsToParse {
			return nil, readerly.Errorf(readerly.ETOOLARGE, "document has %d elements, limit is %d", n, p.opts.MaxElemsToParse)
		}
	}

	md := p.metadata.Extract(doc, p.opts.DisableJSONLD)
	base = documentBase(doc, base)

	prepared := cloneNode(doc)
	p.pre.Prepare(prepared)

	var found *attempt
	for f := allFlags; ; {
		a := p.grab(cloneNode(prepared), f)
		p.debug("extraction attempt", "flags", uint8(f), "length", a.length)
		if p.accept(a) {
			found = &a
			break
		}
		next, ok := nextFlags(f)
		if !ok {
			break
		}
		f = next
	}
	if found == nil {
		p.debug("no article found", "threshold", p.opts.CharThreshold)
		return nil, nil
	}

	p.cleaner.Finish(found.content, base)
	text := p.cls.NormalizeSpaces(strings.TrimSpace(textContent(found.content)))

	article := &readerly.Article{
		Title:         md.Title,
		Content:       innerHTML(found.content),
		TextContent:   text,
		Length:        utf8.RuneCountInString(text),
		Excerpt:       md.Excerpt,
		Byline:        md.Byline,
		Dir:           md.Dir,
		SiteName:      md.SiteName,
		Lang:          md.Lang,
		PublishedTime: md.PublishedTime,
	}
	if article.Excerpt == "" {
		article.Excerpt = truncateText(text, excerptMaxChars)
	}
	if article.Dir == "" {
		article.Dir = detectDirection(text)
	}
	return article, nil
}

// nextFlags drops the next heuristic, in order: unlikely stripping,
// class weighting, conditional cleaning.
func nextFlags(f flags) (flags, bool) {
	for _, flag := range []flags{flagStripUnlikelys, flagWeightClasses, flagCleanConditionally} {
		if f.has(flag) {
			return f &^ flag, true
		}
	}
	return f, false
}

// grab runs preprocessing, scoring, selection and cleaning on doc.
func (p *Parser) grab(doc *html.Node, f flags) attempt {
	body := bodyOf(doc)
	p.pre.Strip(body, f)

	sc := make(scores)
	tc := newTextCache(p.cls)
	candidates := p.scorer.Score(body, f, sc, tc)
	p.debug("scored candidates", "count", len(candidates))

	sel := p.selector.Select(body, candidates, f, sc, tc)
	p.debug("selected top candidate", "tag", tagName(sel.top), "score", sc[sel.top].score, "created", sel.created)

	p.cleaner.Clean(sel.content, f)

	if sel.created {
		setAttr(sel.top, "id", "readability-page-1")
		setAttr(sel.top, "class", "page")
	} else {
		page := newElement("div")
		setAttr(page, "id", "readability-page-1")
		setAttr(page, "class", "page")
		moveChildren(page, sel.content)
		sel.content.AppendChild(page)
	}

	return attempt{
		content: sel.content,
		length:  utf8.RuneCountInString(p.cls.NormalizeSpaces(strings.TrimSpace(textContent(sel.content)))),
	}
}

// accept reports whether an attempt is long enough and substantive. Every
// attempt accepted under a threshold is also accepted under any lower one.
func (p *Parser) accept(a attempt) bool {
	if a.length == 0 || a.length < p.opts.CharThreshold {
		return false
	}
	text := p.cls.NormalizeSpaces(strings.TrimSpace(textContent(a.content)))
	if !p.substantive(text) {
		p.debug("attempt is not substantive", "words", wordCount(text))
		return false
	}
	return true
}

// substantive rejects text that is too short or mostly boilerplate
// vocabulary.
func (p *Parser) substantive(text string) bool {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 || len(words) < p.opts.CharThreshold/charsPerWord {
		return false
	}
	boilerplate := 0
	for _, w := range words {
		if p.cls.boilerplate.MatchString(strings.Trim(w, ".,;:!?()[]\"'")) {
			boilerplate++
		}
	}
	return float64(boilerplate)/float64(len(words)) <= maxBoilerplateDensity
}

func (p *Parser) debug(msg string, args ...any) {
	if p.opts.Debug {
		p.logger.Debug(msg, args...)
	}
}

// truncateText returns at most limit characters of s, cut at a word
// boundary when possible.
func truncateText(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}
