package main

import (
	"fmt"

	"github.com/fwojciec/repscan"
)

// Run executes the analyze command.
func (c *AnalyzeCmd) Run(deps *Dependencies) error {
	analysis, err := deps.Analyzer.Analyze(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repscan.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "URL:      %s\n", analysis.URL)
	fmt.Fprintf(deps.Stdout, "Strategy: %s\n", analysis.Strategy)
	if analysis.Path != "" {
		fmt.Fprintf(deps.Stdout, "Saved:    %s\n", analysis.Path)
	}
	fmt.Fprintf(deps.Stdout, "\n%s\n", analysis.Classification)

	if analysis.PersistWarning != nil {
		fmt.Fprintf(deps.Stderr, "warning: result not fully saved: %s\n", analysis.PersistWarning)
	}
	return nil
}
