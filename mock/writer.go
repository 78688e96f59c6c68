package mock

import (
	"context"

	"github.com/fwojciec/readerly"
)

var _ readerly.ArticleWriter = (*ArticleWriter)(nil)

// ArticleWriter is a mock implementation of readerly.ArticleWriter.
type ArticleWriter struct {
	WriteArticleFn func(ctx context.Context, rec *readerly.Record) error
}

func (w *ArticleWriter) WriteArticle(ctx context.Context, rec *readerly.Record) error {
	return w.WriteArticleFn(ctx, rec)
}
