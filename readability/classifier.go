package readability

import (
	"regexp"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// Classification describes how an element's class and id attributes
// relate to the known content and boilerplate vocabularies.
type Classification struct {
	// Unlikely is set when the element looks like boilerplate and no
	// content indicator overrides it.
	Unlikely bool

	// Override is set when a content indicator matched.
	Override bool

	// PositiveHits counts the attributes (class, id) matching the
	// positive vocabulary. NegativeHits does the same for negatives.
	PositiveHits int
	NegativeHits int

	Byline bool
	Video  bool
	Share  bool
}

// Weight returns the class weight contributed by the hits.
func (c Classification) Weight() float64 {
	return float64(c.PositiveHits-c.NegativeHits) * classWeightUnit
}

const classWeightUnit = 25

// Classifier holds the compiled pattern set used to categorize elements
// and text. It is immutable and safe for concurrent use.
type Classifier struct {
	unlikely     *regexp.Regexp
	maybe        *regexp.Regexp
	positive     *regexp.Regexp
	negative     *regexp.Regexp
	byline       *regexp.Regexp
	videos       *regexp.Regexp
	share        *regexp.Regexp
	commas       *regexp.Regexp
	articleTypes *regexp.Regexp
	adWords      *regexp.Regexp
	loadingWords *regexp.Regexp
	normalize    *regexp.Regexp
	hashURL      *regexp.Regexp
	srcsetURL    *regexp.Regexp
	b64DataURL   *regexp.Regexp
	sentenceEnd  *regexp.Regexp
	bylinePrefix *regexp.Regexp
	boilerplate  *regexp.Regexp
	lazySrcset   *regexp.Regexp
	lazySrc      *regexp.Regexp
	titleSep     *regexp.Regexp
}

// NewClassifier compiles the pattern set.
func NewClassifier() *Classifier {
	return &Classifier{
		unlikely:     regexp.MustCompile(`(?i)-ad-|ai2html|banner|breadcrumbs|combx|comment|community|cover-wrap|disqus|extra|footer|gdpr|header|legends|menu|related|remark|replies|rss|shoutbox|sidebar|skyscraper|social|sponsor|supplemental|ad-break|agegate|pagination|pager|popup|yom-remote`),
		maybe:        regexp.MustCompile(`(?i)and|article|body|column|content|main|mathjax|shadow`),
		positive:     regexp.MustCompile(`(?i)article|body|content|entry|hentry|h-entry|main|page|pagination|post|text|blog|story`),
		negative:     regexp.MustCompile(`(?i)-ad-|hidden|^hid$| hid$| hid |^hid |banner|combx|comment|com-|contact|footer|gdpr|masthead|media|meta|outbrain|promo|related|scroll|share|shoutbox|sidebar|skyscraper|sponsor|shopping|tags|widget`),
		byline:       regexp.MustCompile(`(?i)byline|author|dateline|written\s*by|p-author`),
		videos:       regexp.MustCompile(`\/\/(www\.)?((dailymotion|youtube|youtube-nocookie|player\.vimeo|v\.qq|bilibili|live.bilibili)\.com|(archive|upload\.wikimedia)\.org|player\.twitch\.tv)`),
		share:        regexp.MustCompile(`(\b|_)(share|sharedaddy)(\b|_)`),
		commas:       regexp.MustCompile(`\x{002C}|\x{060C}|\x{FE50}|\x{FE10}|\x{FE11}|\x{2E41}|\x{2E34}|\x{2E32}|\x{FF0C}`),
		articleTypes: regexp.MustCompile(`^(?:Article|AdvertiserContentArticle|NewsArticle|AnalysisNewsArticle|AskPublicNewsArticle|BackgroundNewsArticle|OpinionNewsArticle|ReportageNewsArticle|ReviewNewsArticle|Report|SatiricalArticle|ScholarlyArticle|MedicalScholarlyArticle|SocialMediaPosting|BlogPosting|LiveBlogPosting|DiscussionForumPosting|TechArticle|APIReference)$`),
		adWords:      regexp.MustCompile(`(?i)^(ad(vertising|vertisement)?|pub(licité)?|werb(ung)?|广告|Реклама|Anuncio)$`),
		loadingWords: regexp.MustCompile(`(?i)^((loading|正在加载|Загрузка|chargement|cargando)(…|\.\.\.)?)$`),
		normalize:    regexp.MustCompile(`\s{2,}`),
		hashURL:      regexp.MustCompile(`^#.+`),
		srcsetURL:    regexp.MustCompile(`(\S+)(\s+[\d.]+[xw])?(\s*(?:,|$))`),
		b64DataURL:   regexp.MustCompile(`(?i)^data:\s*([^\s;,]+)\s*;\s*base64\s*,`),
		sentenceEnd:  regexp.MustCompile(`\.( |$)`),
		bylinePrefix: regexp.MustCompile(`^\s*(?i:by)\s+(\p{Lu}[\p{L}.'\-]*(?:\s+\p{Lu}[\p{L}.'\-]*){0,3})\s*$`),
		boilerplate:  regexp.MustCompile(`(?i)^(cookies?|subscribe|subscription|newsletter|login|log|sign|signup|register|privacy|terms|advertisement|sponsored|javascript|enable|browser|copyright|rights|reserved|menu|share|follow)$`),
		lazySrcset:   regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp)\s+\d`),
		lazySrc:      regexp.MustCompile(`(?i)^\s*\S+\.(jpg|jpeg|png|webp)\S*\s*$`),
		titleSep:     regexp.MustCompile(` [\|\-–—\\/>»:] | :: `),
	}
}

var (
	defaultClassifier     *Classifier
	defaultClassifierOnce sync.Once
)

// DefaultClassifier returns the process-wide classifier, compiling it on
// first use.
func DefaultClassifier() *Classifier {
	defaultClassifierOnce.Do(func() {
		defaultClassifier = NewClassifier()
	})
	return defaultClassifier
}

// Classify categorizes an element by its class, id and rel/itemprop
// attributes. Non-element nodes classify as the zero value.
func (c *Classifier) Classify(n *html.Node) Classification {
	var cl Classification
	if n == nil || n.Type != html.ElementNode {
		return cl
	}
	class := attr(n, "class")
	id := attr(n, "id")
	match := matchString(n)

	cl.Override = c.maybe.MatchString(match)
	cl.Unlikely = c.unlikely.MatchString(match) && !cl.Override

	for _, v := range []string{class, id} {
		if v == "" {
			continue
		}
		if c.negative.MatchString(v) {
			cl.NegativeHits++
		}
		if c.positive.MatchString(v) {
			cl.PositiveHits++
		}
	}

	cl.Byline = attr(n, "rel") == "author" ||
		strings.Contains(attr(n, "itemprop"), "author") ||
		c.byline.MatchString(match)
	cl.Share = c.share.MatchString(match)

	for _, a := range n.Attr {
		if a.Key == "src" || a.Key == "data-src" || a.Key == "href" {
			if c.videos.MatchString(a.Val) {
				cl.Video = true
			}
		}
	}
	return cl
}

// matchString returns the combined class and id used by the vocabularies.
func matchString(n *html.Node) string {
	return attr(n, "class") + " " + attr(n, "id")
}

// CountCommas counts comma-like punctuation across scripts.
func (c *Classifier) CountCommas(s string) int {
	return len(c.commas.FindAllStringIndex(s, -1))
}

// NormalizeSpaces collapses runs of whitespace into a single space.
func (c *Classifier) NormalizeSpaces(s string) string {
	return c.normalize.ReplaceAllString(s, " ")
}

// IsArticleType reports whether a JSON-LD @type names an article.
func (c *Classifier) IsArticleType(t string) bool {
	return c.articleTypes.MatchString(t)
}

// IsAdOrLoadingText reports whether s is an advertisement or loading
// placeholder.
func (c *Classifier) IsAdOrLoadingText(s string) bool {
	s = strings.TrimSpace(s)
	return c.adWords.MatchString(s) || c.loadingWords.MatchString(s)
}

// IsAllowedVideo reports whether s references a known video host.
func (c *Classifier) IsAllowedVideo(s string) bool {
	return c.videos.MatchString(s)
}

// Unescape decodes HTML character references in s.
func (c *Classifier) Unescape(s string) string {
	return html.UnescapeString(s)
}

// Videos returns the allowed video pattern.
func (c *Classifier) Videos() *regexp.Regexp {
	return c.videos
}
