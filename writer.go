package readerly

import "context"

// ArticleWriter exports extracted articles outside the archive.
type ArticleWriter interface {
	// WriteArticle stores rec.Article under a name derived from
	// rec.SourceURL. Writing the same source twice replaces the output.
	WriteArticle(ctx context.Context, rec *Record) error
}
