// Package ahocorasick finds policy trigger phrases in text using an
// Aho-Corasick automaton.
package ahocorasick

import (
	"strings"
	"sync"
	"unicode"

	"github.com/cloudflare/ahocorasick"
	"github.com/fwojciec/repscan"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Ensure Matcher implements repscan.TriggerMatcher at compile time.
var _ repscan.TriggerMatcher = (*Matcher)(nil)

// Matcher matches trigger phrases case- and accent-insensitively, so
// "Banco Máxima" also matches "BANCO MAXIMA".
type Matcher struct {
	triggers []repscan.Trigger
	phrases  []string
	owners   map[string][]int

	// The automaton keeps per-call state, so Match calls are serialized.
	mu      sync.Mutex
	matcher *ahocorasick.Matcher
}

// NewMatcher builds a Matcher for triggers. Triggers with an empty phrase
// are ignored.
func NewMatcher(triggers []repscan.Trigger) *Matcher {
	m := &Matcher{
		triggers: triggers,
		owners:   make(map[string][]int),
	}
	for i, t := range triggers {
		phrase := Normalize(t.Phrase)
		if phrase == "" {
			continue
		}
		if _, ok := m.owners[phrase]; !ok {
			m.phrases = append(m.phrases, phrase)
		}
		m.owners[phrase] = append(m.owners[phrase], i)
	}
	if len(m.phrases) > 0 {
		m.matcher = ahocorasick.NewStringMatcher(m.phrases)
	}
	return m
}

// Match returns the triggers found in text in policy order. Each trigger
// is returned at most once.
func (m *Matcher) Match(text string) []repscan.Trigger {
	if m.matcher == nil || text == "" {
		return nil
	}

	normalized := []byte(Normalize(text))
	m.mu.Lock()
	hits := m.matcher.Match(normalized)
	m.mu.Unlock()

	hit := make([]bool, len(m.triggers))
	for _, idx := range hits {
		if idx >= len(m.phrases) {
			continue
		}
		for _, owner := range m.owners[m.phrases[idx]] {
			hit[owner] = true
		}
	}

	var matched []repscan.Trigger
	for i, ok := range hit {
		if ok {
			matched = append(matched, m.triggers[i])
		}
	}
	return matched
}

// Normalize lowercases s, strips diacritics and collapses whitespace.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
