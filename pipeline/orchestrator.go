// Package pipeline runs the extraction strategy cascade and the analysis
// built on top of it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/repscan"
)

// Ensure Orchestrator implements repscan.Extractor at compile time.
var _ repscan.Extractor = (*Orchestrator)(nil)

// Attempt reports the outcome of one strategy.
type Attempt struct {
	Strategy string
	Index    int
	Total    int
	Chars    int
	Duration time.Duration

	// Err is nil when the strategy succeeded.
	Err error
}

// AttemptFunc is called after every strategy attempt.
type AttemptFunc func(Attempt)

// Orchestrator tries extraction strategies in order and returns the text of
// the first one that yields at least MinLength characters. Fetch failures
// and short selections are logged and never returned to the caller.
type Orchestrator struct {
	Strategies []repscan.Strategy
	Logger     *slog.Logger

	// MinLength overrides repscan.MinTextLength when positive.
	MinLength int

	// OnAttempt, if set, observes every attempt.
	OnAttempt AttemptFunc
}

// Extract runs the strategy cascade for url.
// Returns EEXHAUSTED when no strategy produces enough text, or the context
// error if ctx is done before a strategy succeeds.
func (o *Orchestrator) Extract(ctx context.Context, url string) (*repscan.ExtractedText, error) {
	total := len(o.Strategies)
	for i, strategy := range o.Strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		begin := time.Now()
		text, err := o.try(ctx, strategy, url)
		attempt := Attempt{
			Strategy: strategy.Name,
			Index:    i + 1,
			Total:    total,
			Chars:    repscan.TextLength(text),
			Duration: time.Since(begin),
			Err:      err,
		}
		if o.OnAttempt != nil {
			o.OnAttempt(attempt)
		}

		if err != nil {
			o.logFailure(url, attempt)
			continue
		}

		o.logger().Info("extracted",
			"url", url,
			"strategy", strategy.Name,
			"chars", attempt.Chars,
			"duration", attempt.Duration,
		)
		return &repscan.ExtractedText{Text: text, Strategy: strategy.Name}, nil
	}

	return nil, repscan.Errorf(repscan.EEXHAUSTED, "no content extractable from %s", url)
}

// try runs one strategy under its timeout. Panics in fetchers or selectors
// are converted to errors so that the next strategy still runs.
func (o *Orchestrator) try(ctx context.Context, s repscan.Strategy, url string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("strategy %s panicked: %v", s.Name, r)
		}
	}()

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	doc, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(s.Selector.Select(doc))
	if n := repscan.TextLength(text); n < o.minLength() {
		return text, fmt.Errorf("%w: %d characters", repscan.ErrSelectionEmpty, n)
	}
	return text, nil
}

func (o *Orchestrator) logFailure(url string, a Attempt) {
	attrs := []any{
		"url", url,
		"strategy", a.Strategy,
		"attempt", a.Index,
		"of", a.Total,
		"duration", a.Duration,
	}

	var fetchErr *repscan.FetchError
	switch {
	case errors.As(a.Err, &fetchErr):
		attrs = append(attrs, "kind", string(fetchErr.Kind), "transient", fetchErr.Transient())
		if fetchErr.StatusCode != 0 {
			attrs = append(attrs, "status", fetchErr.StatusCode)
		}
	case errors.Is(a.Err, repscan.ErrSelectionEmpty):
		attrs = append(attrs, "chars", a.Chars)
	}
	attrs = append(attrs, "err", a.Err)

	o.logger().Warn("strategy failed", attrs...)
}

func (o *Orchestrator) minLength() int {
	if o.MinLength > 0 {
		return o.MinLength
	}
	return repscan.MinTextLength
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}
