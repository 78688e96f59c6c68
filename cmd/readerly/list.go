package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/readerly"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := readerly.RecordFilter{Limit: c.Limit, Offset: c.Offset}
	if c.Source != "" {
		filter.SourceURL = &c.Source
	}

	records, err := deps.Records.FindRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readerly.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles found. Use 'readerly extract --save' to archive one.")
		return nil
	}

	for _, r := range records {
		title := r.Article.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n", r.ID, r.ExtractedAt.Format(time.DateTime), title, r.SourceURL)
	}

	return nil
}
