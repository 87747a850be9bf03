package utils

import (
	"strings"
	"unicode"
)

// Slugify lowercases the name and collapses every run of non-alphanumeric
// characters into a single hyphen: "The Forest Hiker" -> "the-forest-hiker".
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // trims leading separators

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
