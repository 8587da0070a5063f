package repscan

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"
)

// MinTextLength is the minimum number of characters extracted text must have
// for a strategy to count as successful.
const MinTextLength = 100

// ErrSelectionEmpty reports that a strategy fetched a page but selected
// less than the minimum-viable amount of text from it.
var ErrSelectionEmpty = errors.New("selected text below minimum length")

// Strategy pairs a Fetcher with a Selector. Strategies are configured at
// startup and tried in order until one yields enough text.
type Strategy struct {
	Name     string
	Fetcher  Fetcher
	Selector Selector

	// Timeout bounds the fetch and selection of this strategy.
	// Zero means the fetcher's own timeout applies.
	Timeout time.Duration
}

// ExtractedText is the main content of a page together with the strategy
// that produced it. Text always has at least MinTextLength characters.
type ExtractedText struct {
	Text     string
	Strategy string
}

// Extractor runs the extraction strategy cascade for a URL.
type Extractor interface {
	// Extract returns the text of the first strategy that produces enough
	// content. Returns EEXHAUSTED when every strategy fails.
	Extract(ctx context.Context, url string) (*ExtractedText, error)
}

// TextLength returns the length of s in characters.
func TextLength(s string) int {
	return utf8.RuneCountInString(s)
}
