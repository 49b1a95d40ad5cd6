// Package identifier converts human-readable display names into URL- and
// gateway-legal resource identifiers.
package identifier

import "strings"

// maxLength is the gateway's identifier length limit.
const maxLength = 80

// accentFold maps Latin accented characters to their unaccented ASCII
// equivalents. Runes outside the table pass through unchanged.
var accentFold = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a',
	'ç': 'c',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i',
	'ñ': 'n',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o', 'ø': 'o',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u',
	'ý': 'y', 'ÿ': 'y',
}

// Normalize converts an arbitrary display string into an identifier-safe
// token: non-alphanumeric characters become dashes, dash runs collapse to
// one, the result is capped at 80 characters, stripped of a single leading
// and trailing dash, lowercased, and finally accent-folded. Empty input
// yields an empty string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	s := replaceInvalid(strings.TrimSpace(text))
	s = collapseDashes(s)
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimSuffix(s, "-")
	s = strings.ToLower(s)
	return foldAccents(s)
}

func replaceInvalid(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isAlphanumeric(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

func collapseDashes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevDash := false
	for _, r := range s {
		if r == '-' {
			if prevDash {
				continue
			}
			prevDash = true
		} else {
			prevDash = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func foldAccents(s string) string {
	return strings.Map(func(r rune) rune {
		if folded, ok := accentFold[r]; ok {
			return folded
		}
		return r
	}, s)
}

func isAlphanumeric(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
