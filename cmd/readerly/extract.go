package main

import (
	"bytes"
	"fmt"

	"github.com/fwojciec/readerly"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	data, baseURI, err := loadSource(deps, c.Source, c.BaseURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readerly.ErrorMessage(err))
		return err
	}

	article, err := deps.Extractor.Extract(bytes.NewReader(data), baseURI)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readerly.ErrorMessage(err))
		return err
	}
	if article == nil {
		fmt.Fprintf(deps.Stderr, "error: no article found in %s\n", c.Source)
		return readerly.Errorf(readerly.ENOTFOUND, "no article found in %s", c.Source)
	}

	if c.Save {
		source := c.Source
		if baseURI != "" {
			source = baseURI
		}
		rec := &readerly.Record{SourceURL: source, Article: *article}
		if err := deps.Records.CreateRecord(deps.Ctx, rec); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", readerly.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stderr, "Saved article %s\n", rec.ID)
	}

	if err := writeArticle(deps.Stdout, deps.Converter, article, baseURI, c.Format); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readerly.ErrorMessage(err))
		return err
	}
	return nil
}
