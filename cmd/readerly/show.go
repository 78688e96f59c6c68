package main

import (
	"fmt"

	"github.com/fwojciec/readerly"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	rec, err := deps.Records.FindRecordByID(deps.Ctx, c.ID)
	if readerly.ErrorCode(err) == readerly.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: article %q not found. Use 'readerly list' to see archived articles.\n", c.ID)
		return err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readerly.ErrorMessage(err))
		return err
	}

	if err := writeArticle(deps.Stdout, deps.Converter, &rec.Article, rec.SourceURL, c.Format); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readerly.ErrorMessage(err))
		return err
	}
	return nil
}
