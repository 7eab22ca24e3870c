package app

import (
	"strings"

	"github.com/losthumanity/SentimentFinance/internal/domain"
)

// matcherStopwords are corporate suffixes and filler too generic to
// attribute an article to an entity on their own.
var matcherStopwords = map[string]bool{
	"inc":          true,
	"inc.":         true,
	"corp":         true,
	"corp.":        true,
	"corporation":  true,
	"co":           true,
	"co.":          true,
	"ltd":          true,
	"ltd.":         true,
	"plc":          true,
	"llc":          true,
	"group":        true,
	"holdings":     true,
	"company":      true,
	"platforms":    true,
	"technologies": true,
	"the":          true,
	"and":          true,
	"&":            true,
}

// Matcher attributes a normalized article to one of the tracked entities
// by scanning its text for name keywords and ticker symbols.
type Matcher struct {
	entities []domain.TrackedEntity
}

func NewMatcher(entities []domain.TrackedEntity) *Matcher {
	return &Matcher{entities: entities}
}

// Match returns the first tracked entity whose name keywords or symbol
// appear in the article's title or body. Entities are checked in
// configuration order, so more specific entries should come first.
func (m *Matcher) Match(a domain.NormalizedArticle) (domain.TrackedEntity, bool) {
	text := " " + strings.ToLower(a.Title+" "+a.Body) + " "

	for _, e := range m.entities {
		if matchesName(text, e.Name) || matchesSymbol(text, e.Symbol) {
			return e, true
		}
	}

	return domain.TrackedEntity{}, false
}

func matchesName(text, name string) bool {
	for _, keyword := range strings.Fields(strings.ToLower(name)) {
		keyword = strings.Trim(keyword, ".,")
		if keyword == "" || matcherStopwords[keyword] {
			continue
		}
		if containsWord(text, keyword) {
			return true
		}
	}
	return false
}

func matchesSymbol(text, symbol string) bool {
	if symbol == "" {
		return false
	}
	return containsWord(text, strings.ToLower(symbol))
}

// containsWord reports whether needle occurs in text on word boundaries.
// text must be padded with spaces and lowercased by the caller.
func containsWord(text, needle string) bool {
	start := 0
	for {
		idx := strings.Index(text[start:], needle)
		if idx < 0 {
			return false
		}
		idx += start

		before := text[idx-1]
		afterIdx := idx + len(needle)
		after := byte(' ')
		if afterIdx < len(text) {
			after = text[afterIdx]
		}
		if isBoundary(before) && isBoundary(after) {
			return true
		}
		start = idx + 1
	}
}

func isBoundary(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '.', ',', ';', ':', '!', '?', '(', ')', '"', '\'':
		return true
	}
	return false
}
