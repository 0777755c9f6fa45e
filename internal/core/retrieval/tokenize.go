package retrieval

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token length thresholds.
const (
	// IndexMinLength keeps short but meaningful terms such as company
	// abbreviations when weighting entity fields.
	IndexMinLength = 2

	// QueryMinLength drops short filler words from queries.
	QueryMinLength = 3

	// MaxQueryTokens bounds the scoring cost of a single query.
	MaxQueryTokens = 20
)

// Tokenize lowercases text, splits it on every run of characters that are
// neither letters nor digits and drops tokens shorter than minLength runes.
func Tokenize(text string, minLength int) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), isSeparator)
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// QueryTokens returns the first MaxQueryTokens distinct query tokens,
// in order of first appearance.
func QueryTokens(query string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, MaxQueryTokens)
	for _, tok := range Tokenize(query, QueryMinLength) {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
		if len(out) == MaxQueryTokens {
			break
		}
	}
	return out
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
