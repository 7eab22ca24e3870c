package sentiment

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/words"
)

// tokenize lowercases text and splits it into Unicode word tokens,
// dropping pure punctuation and whitespace.
func tokenize(text string) []string {
	var tokens []string
	iter := words.FromString(strings.ToLower(text))
	for iter.Next() {
		tok := iter.Value()
		if isWordToken(tok) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func isWordToken(token string) bool {
	for i := 0; i < len(token); {
		r, size := utf8.DecodeRuneInString(token[i:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
		i += size
	}
	return false
}
