package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/repscan"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := repscan.AnalysisFilter{Limit: c.Limit}
	if c.Host != "" {
		filter.Host = &c.Host
	}

	analyses, err := deps.History.FindAnalyses(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repscan.ErrorMessage(err))
		return err
	}

	if len(analyses) == 0 {
		fmt.Fprintln(deps.Stdout, "No analyses found. Use 'repscan analyze' to create one.")
		return nil
	}

	for _, a := range analyses {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n",
			a.CreatedAt.Local().Format(time.DateTime), a.URL, a.Strategy, a.Path)
	}
	return nil
}
