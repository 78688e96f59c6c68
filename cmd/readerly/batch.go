package main

import (
	"fmt"

	"github.com/fwojciec/readerly"
	"github.com/fwojciec/readerly/batch"
)

const sourceDisplayWidth = 60

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	if c.Concurrency > 0 {
		deps.Processor.Concurrency = c.Concurrency
	}

	progress := func(event batch.ProgressEvent) {
		switch event.Type {
		case batch.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Processing %d sources\n", event.Total)
		case batch.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.Source, readerly.ErrorMessage(event.Error))
		case batch.ProgressFinished:
			// Summary printed after the batch completes
		}
	}

	result, err := deps.Processor.Process(deps.Ctx, c.Sources, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readerly.ErrorMessage(err))
		return err
	}

	var total int
	for _, item := range result.Items {
		total += item.Bytes
		line := fmt.Sprintf("  %-14s %s", item.Status, batch.TruncateSource(item.Source, sourceDisplayWidth))
		switch {
		case item.Status != batch.StatusExtracted:
		case item.Duplicate:
			line += " (duplicate)"
		case item.RecordID != "":
			line += fmt.Sprintf(" [%s] %s", item.RecordID, item.Article.Title)
		default:
			line += " " + item.Article.Title
		}
		fmt.Fprintln(deps.Stdout, line)
	}

	fmt.Fprintf(deps.Stdout, "Extracted %d, not readerable %d, failed %d, skipped %d, duplicates %d (%s read)\n",
		result.Extracted, result.NotReaderable, result.Failed, result.Skipped, result.Duplicates, batch.FormatBytes(total))

	if result.Failed > 0 && result.Extracted == 0 {
		return readerly.Errorf(readerly.EINTERNAL, "all %d sources failed", result.Failed)
	}
	return nil
}
