// Package sanitizer normalizes free-text user input before it reaches the
// dialogue and catalog layers. All helpers are pure functions.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims the string and collapses internal whitespace runs
// into single spaces.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeLabel lowercases a label after whitespace normalization, used for
// comparisons like service-name matching.
func NormalizeLabel(label string) string {
	return strings.ToLower(TrimAndNormalize(label))
}

// TitleCase uppercases the first rune of each word and lowercases the rest,
// e.g. "mary jane" -> "Mary Jane".
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// IsAlphabetic reports whether s is non-empty and consists of letters only.
func IsAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
