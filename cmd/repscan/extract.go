package main

import (
	"fmt"

	"github.com/fwojciec/repscan"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	url, err := repscan.NormalizeURL(c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repscan.ErrorMessage(err))
		return err
	}

	extracted, err := deps.Extractor.Extract(deps.Ctx, url)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repscan.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Strategy:   %s\n", extracted.Strategy)
	fmt.Fprintf(deps.Stdout, "Characters: %d\n\n", repscan.TextLength(extracted.Text))
	fmt.Fprintln(deps.Stdout, extracted.Text)
	return nil
}
