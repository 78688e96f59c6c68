package readerly

import "strings"

// FormatArticle renders an article as a Markdown document. The title
// becomes a level one heading, known byline, site and publication date
// go on a single italic line, and body follows.
// Falls back to sourceURL when the article has no title.
func FormatArticle(a *Article, sourceURL, body string) string {
	var sb strings.Builder

	header := a.Title
	if header == "" {
		header = sourceURL
	}
	if header != "" {
		sb.WriteString("# " + header + "\n\n")
	}

	var meta []string
	for _, v := range []string{a.Byline, a.SiteName, a.PublishedTime} {
		if v != "" {
			meta = append(meta, v)
		}
	}
	if len(meta) > 0 {
		sb.WriteString("_" + strings.Join(meta, " | ") + "_\n\n")
	}

	sb.WriteString(strings.TrimSpace(body))
	return strings.TrimSpace(sb.String())
}
