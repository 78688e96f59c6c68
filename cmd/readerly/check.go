package main

import (
	"bytes"
	"fmt"

	"github.com/fwojciec/readerly"
)

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	data, _, err := loadSource(deps, c.Source, "")
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readerly.ErrorMessage(err))
		return err
	}

	ok, err := deps.Checker.IsProbablyReaderable(bytes.NewReader(data))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readerly.ErrorMessage(err))
		return err
	}

	if ok {
		fmt.Fprintln(deps.Stdout, "readerable")
	} else {
		fmt.Fprintln(deps.Stdout, "not readerable")
	}
	return nil
}
