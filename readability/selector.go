// Package readability implements repscan.Selector with go-readability,
// a port of Mozilla's Readability article extraction.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/repscan"
	"github.com/go-shiori/go-readability"
)

// Ensure Selector implements repscan.Selector at compile time.
var _ repscan.Selector = (*Selector)(nil)

// Selector extracts article text by scoring the page's content blocks.
type Selector struct{}

// NewSelector creates a new Selector.
func NewSelector() *Selector {
	return &Selector{}
}

// Select returns the article text of doc with whitespace collapsed.
// Returns "" if readability cannot identify an article.
func (s *Selector) Select(doc *repscan.RawDocument) string {
	if doc == nil || strings.TrimSpace(doc.HTML) == "" {
		return ""
	}

	pageURL, _ := url.Parse(doc.URL)
	article, err := readability.FromReader(strings.NewReader(doc.HTML), pageURL)
	if err != nil {
		return ""
	}

	return strings.Join(strings.Fields(article.TextContent), " ")
}
