// Package trafilatura implements repscan.Selector with go-trafilatura.
package trafilatura

import (
	"net/url"
	"strings"

	"github.com/fwojciec/repscan"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Selector implements repscan.Selector at compile time.
var _ repscan.Selector = (*Selector)(nil)

// Selector extracts main content with trafilatura, falling back to its
// readability and dom-distiller backends when its own heuristics fail.
type Selector struct{}

// NewSelector creates a new Selector.
func NewSelector() *Selector {
	return &Selector{}
}

// Select returns the main content text of doc with whitespace collapsed.
func (s *Selector) Select(doc *repscan.RawDocument) string {
	if doc == nil || strings.TrimSpace(doc.HTML) == "" {
		return ""
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if u, err := url.Parse(doc.URL); err == nil {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(doc.HTML), opts)
	if err != nil || result == nil {
		return ""
	}

	return strings.Join(strings.Fields(result.ContentText), " ")
}
