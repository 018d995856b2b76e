package usecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizerVersion identifies the current NormalizeKey rules. Bump it whenever the
// rules change: cached result sets and coverage matching depend on stable keys.
const NormalizerVersion = "v1"

// newDiacriticFolder returns a transformer that strips combining marks ("è" -> "e").
// Transformers carry state, so each call gets its own chain.
func newDiacriticFolder() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// NormalizeKey canonicalizes free text into a coverage key.
// Rules (v1):
//   - diacritics are folded and the text is lowercased
//   - apostrophes are dropped ("nonna's" -> "nonnas")
//   - every other rune that is not a letter or digit becomes a space
//   - runs of whitespace collapse to one space, leading/trailing space is trimmed
func NormalizeKey(text string) string {
	if text == "" {
		return ""
	}

	folded, _, err := transform.String(newDiacriticFolder(), text)
	if err != nil {
		folded = text
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r == '\'' || r == '’':
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
