package engine

import (
	"regexp"
	"strings"

	dialogueerrors "jusbook/internal/dialogue/errors"
	"jusbook/pkg/sanitizer"
)

// namePatterns are tried in order against the lowercased input. Each
// captures one or two alphabetic words ("call me mary jane" yields
// "mary jane").
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`my name is ([a-z]+(?: [a-z]+)?)`),
	regexp.MustCompile(`i'm ([a-z]+(?: [a-z]+)?)`),
	regexp.MustCompile(`i am ([a-z]+(?: [a-z]+)?)`),
	regexp.MustCompile(`call me ([a-z]+(?: [a-z]+)?)`),
}

// ExtractName pulls a caller name out of free text and title-cases it.
// After the patterns, a bare one- or two-word alphabetic input is accepted
// as-is; anything else fails extraction.
func ExtractName(text string) (string, error) {
	text = strings.TrimSpace(text)
	lowered := strings.ToLower(text)

	for _, pattern := range namePatterns {
		if m := pattern.FindStringSubmatch(lowered); m != nil {
			return sanitizer.TitleCase(m[1]), nil
		}
	}

	words := strings.Fields(text)
	switch len(words) {
	case 1:
		if sanitizer.IsAlphabetic(words[0]) {
			return sanitizer.TitleCase(words[0]), nil
		}
	case 2:
		if sanitizer.IsAlphabetic(words[0]) && sanitizer.IsAlphabetic(words[1]) {
			return sanitizer.TitleCase(words[0] + " " + words[1]), nil
		}
	}

	return "", dialogueerrors.ErrNameExtraction
}
