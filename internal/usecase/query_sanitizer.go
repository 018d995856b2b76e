package usecase

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxQueryLength caps the text sent to the search engine, in bytes
const MaxQueryLength = 100

// Compiled patterns for query sanitizing
var (
	// Runs of whitespace, including non-breaking and ideographic spaces
	multiSpacePattern = regexp.MustCompile(`[\s\p{Zs}]+`)

	// Wildcards and boolean operators users paste from other search boxes
	operatorPattern = regexp.MustCompile(`[*?~^"\\]+`)
)

// SanitizeQuery cleans free text typed by a shopper before it is sent to the
// search engine. Control characters and query operators become spaces, whitespace
// is collapsed, and overly long input is cut at a word boundary.
func SanitizeQuery(text string) string {
	if text == "" {
		return ""
	}

	cleaned := strings.Map(func(r rune) rune {
		if r == utf8.RuneError || unicode.IsControl(r) {
			return ' '
		}
		return r
	}, text)

	cleaned = operatorPattern.ReplaceAllString(cleaned, " ")
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	return truncateAtWord(cleaned, MaxQueryLength)
}

// truncateAtWord shortens s to at most limit bytes without splitting a rune, preferring
// the last space past half the limit
func truncateAtWord(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	truncated := s[:cut]

	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > limit/2 {
		truncated = truncated[:lastSpace]
	}
	return strings.TrimSpace(truncated)
}
