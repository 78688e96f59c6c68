package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fwojciec/readerly"
	"github.com/fwojciec/readerly/batch"
)

// Run executes the compare command.
func (c *CompareCmd) Run(deps *Dependencies) error {
	data, baseURI, err := loadSource(deps, c.Source, c.BaseURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readerly.ErrorMessage(err))
		return err
	}

	results := batch.Compare(data, baseURI, deps.Engines)

	tw := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENGINE\tFOUND\tLENGTH\tSIMILARITY\tDURATION\tTITLE")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\terror\t-\t-\t%s\t%s\n", r.Engine, r.Duration.Round(time.Microsecond), readerly.ErrorMessage(r.Err))
			continue
		}
		fmt.Fprintf(tw, "%s\t%t\t%d\t%.2f\t%s\t%s\n",
			r.Engine, r.Found, r.Length, r.Similarity, r.Duration.Round(time.Microsecond), r.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for i := 1; i < len(results); i++ {
		if batch.ContentDiffers(results[0], results[i]) {
			fmt.Fprintf(deps.Stdout, "note: %s and %s disagree on the article content\n", results[0].Engine, results[i].Engine)
		}
	}
	return nil
}
