// Package goquery implements repscan.Selector with CSS-selector heuristics
// built on goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/repscan"
	"golang.org/x/net/html"
)

// BoilerplateSelector matches elements that never hold article text.
const BoilerplateSelector = "script, style, nav, footer, header, iframe, noscript, aside"

// containerClasses are div classes that mark the main content region.
var containerClasses = []string{"article", "post", "content", "main-content"}

// renderedSelectors are tried in order on rendered documents when the
// container and paragraph heuristics come up short.
var renderedSelectors = []string{
	"article",
	"main",
	".article-content",
	".post-content",
	".entry-content",
	"#content",
}

// Ensure Selector implements repscan.Selector at compile time.
var _ repscan.Selector = (*Selector)(nil)

// Selector extracts article text using a fixed priority of heuristics:
//   - an <article> element, or a div classed article/post/content/main-content
//   - all non-empty <p> elements in document order
//   - for rendered documents only, a list of common content selectors and
//     finally the visible text of the whole page
//
// Boilerplate elements are removed before any heuristic runs.
type Selector struct {
	minLength int
}

// Option configures a Selector.
type Option func(*Selector)

// WithMinLength sets the length below which rendered documents fall through
// to the rendered-DOM heuristics. Defaults to repscan.MinTextLength.
func WithMinLength(n int) Option {
	return func(s *Selector) {
		s.minLength = n
	}
}

// NewSelector creates a new Selector.
func NewSelector(opts ...Option) *Selector {
	s := &Selector{minLength: repscan.MinTextLength}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select returns the main content text of doc.
func (s *Selector) Select(doc *repscan.RawDocument) string {
	if doc == nil || strings.TrimSpace(doc.HTML) == "" {
		return ""
	}

	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc.HTML))
	if err != nil {
		return ""
	}
	StripBoilerplate(d.Selection)

	text := ContainerText(d.Selection)
	if text == "" {
		text = ParagraphText(d.Selection)
	}

	if doc.Rendered && repscan.TextLength(text) < s.minLength {
		if fallback := renderedText(d.Selection); repscan.TextLength(fallback) > repscan.TextLength(text) {
			text = fallback
		}
	}

	return text
}

// StripBoilerplate removes script, style, navigation and other non-content
// elements from sel.
func StripBoilerplate(sel *goquery.Selection) {
	sel.Find(BoilerplateSelector).Remove()
}

// ContainerText returns the text of the first <article> element, or failing
// that the first div carrying one of the content class names.
// Returns "" when no container exists.
func ContainerText(sel *goquery.Selection) string {
	article := sel.Find("article").First()
	if article.Length() > 0 {
		if text := VisibleText(article); text != "" {
			return text
		}
	}

	div := sel.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
		for _, class := range containerClasses {
			if s.HasClass(class) {
				return true
			}
		}
		return false
	}).First()
	return VisibleText(div)
}

// ParagraphText joins the trimmed text of every non-empty <p> element with
// single spaces, in document order.
func ParagraphText(sel *goquery.Selection) string {
	var parts []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, " ")
}

// VisibleText returns every text node under sel, trimmed and joined with
// single spaces. Empty text nodes are skipped.
func VisibleText(sel *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

// renderedText tries the rendered-DOM selectors in order and falls back to
// the visible text of the whole page.
func renderedText(sel *goquery.Selection) string {
	for _, selector := range renderedSelectors {
		if text := VisibleText(sel.Find(selector).First()); text != "" {
			return text
		}
	}

	body := sel.Find("body")
	if body.Length() == 0 {
		return VisibleText(sel)
	}
	return VisibleText(body)
}
