package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/readerly"
)

// writeArticle prints a in the requested format. sourceURL labels
// Markdown output of untitled articles.
func writeArticle(w io.Writer, conv readerly.Converter, a *readerly.Article, sourceURL, format string) error {
	switch format {
	case "text":
		_, err := fmt.Fprintln(w, a.TextContent)
		return err

	case "markdown":
		md, err := conv.Convert(a.Content)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, readerly.FormatArticle(a, sourceURL, md))
		return err

	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(a)
	}

	_, err := fmt.Fprintln(w, a.Content)
	return err
}
