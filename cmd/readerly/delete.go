package main

import (
	"fmt"

	"github.com/fwojciec/readerly"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return readerly.Errorf(readerly.EINVALID, "use --force to confirm deletion")
	}

	rec, err := deps.Records.FindRecordByID(deps.Ctx, c.ID)
	if readerly.ErrorCode(err) == readerly.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: article %q not found. Use 'readerly list' to see archived articles.\n", c.ID)
		return err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readerly.ErrorMessage(err))
		return err
	}

	if err := deps.Records.DeleteRecord(deps.Ctx, rec.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readerly.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted article %q (%s)\n", rec.Article.Title, rec.ID)
	return nil
}
