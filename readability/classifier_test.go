package readability_test

import (
	"testing"

	"github.com/fwojciec/readerly/readability"
	"github.com/stretchr/testify/assert"
)

func TestClassifier_Classify(t *testing.T) {
	t.Parallel()

	cls := readability.DefaultClassifier()

	t.Run("marks sidebar as unlikely", func(t *testing.T) {
		t.Parallel()
		n := firstElement(t, `<div class="sidebar">x</div>`, "div")
		c := cls.Classify(n)
		assert.True(t, c.Unlikely)
		assert.False(t, c.Override)
		assert.Equal(t, 1, c.NegativeHits)
	})

	t.Run("content indicator overrides unlikely", func(t *testing.T) {
		t.Parallel()
		n := firstElement(t, `<div class="sidebar-content">x</div>`, "div")
		c := cls.Classify(n)
		assert.False(t, c.Unlikely)
		assert.True(t, c.Override)
		assert.Equal(t, 1, c.PositiveHits)
		assert.Equal(t, 1, c.NegativeHits)
		assert.Equal(t, 0.0, c.Weight())
	})

	t.Run("counts class and id separately", func(t *testing.T) {
		t.Parallel()
		n := firstElement(t, `<div class="post" id="main">x</div>`, "div")
		c := cls.Classify(n)
		assert.Equal(t, 2, c.PositiveHits)
		assert.Equal(t, 50.0, c.Weight())
	})

	t.Run("detects byline markers", func(t *testing.T) {
		t.Parallel()
		assert.True(t, cls.Classify(firstElement(t, `<span class="byline">x</span>`, "span")).Byline)
		assert.True(t, cls.Classify(firstElement(t, `<a rel="author" href="/a">x</a>`, "a")).Byline)
		assert.True(t, cls.Classify(firstElement(t, `<span itemprop="author">x</span>`, "span")).Byline)
	})

	t.Run("detects video embeds", func(t *testing.T) {
		t.Parallel()
		n := firstElement(t, `<iframe src="https://www.youtube.com/embed/abc"></iframe>`, "iframe")
		assert.True(t, cls.Classify(n).Video)
	})

	t.Run("detects share widgets", func(t *testing.T) {
		t.Parallel()
		assert.True(t, cls.Classify(firstElement(t, `<div class="post_share">x</div>`, "div")).Share)
	})
}

func TestClassifier_CountCommas(t *testing.T) {
	t.Parallel()

	cls := readability.DefaultClassifier()

	assert.Equal(t, 2, cls.CountCommas("one, two, three"))
	assert.Equal(t, 3, cls.CountCommas("a, b، c，d"))
	assert.Equal(t, 0, cls.CountCommas("none here"))
}

func TestClassifier_Text(t *testing.T) {
	t.Parallel()

	cls := readability.DefaultClassifier()

	t.Run("normalizes whitespace", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "a b c", cls.NormalizeSpaces("a  b \n\t c"))
	})

	t.Run("recognizes ad and loading placeholders", func(t *testing.T) {
		t.Parallel()
		assert.True(t, cls.IsAdOrLoadingText("Advertisement"))
		assert.True(t, cls.IsAdOrLoadingText(" Loading… "))
		assert.False(t, cls.IsAdOrLoadingText("Advertisements are everywhere"))
	})

	t.Run("recognizes article types", func(t *testing.T) {
		t.Parallel()
		assert.True(t, cls.IsArticleType("NewsArticle"))
		assert.True(t, cls.IsArticleType("BlogPosting"))
		assert.False(t, cls.IsArticleType("WebPage"))
	})

	t.Run("unescapes entities", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Tom & Jerry", cls.Unescape("Tom &amp; Jerry"))
	})

	t.Run("matches allowed video hosts", func(t *testing.T) {
		t.Parallel()
		assert.True(t, cls.IsAllowedVideo("//player.vimeo.com/video/1"))
		assert.False(t, cls.IsAllowedVideo("https://ads.example.com/frame"))
	})
}

func TestDefaultClassifier_IsShared(t *testing.T) {
	t.Parallel()

	assert.Same(t, readability.DefaultClassifier(), readability.DefaultClassifier())
}
