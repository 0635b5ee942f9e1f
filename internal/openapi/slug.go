package openapi

import (
	"strings"
	"unicode"
)

// Slugify lowercases s and collapses every run of characters that are not
// letters or digits into a single hyphen, trimming hyphens at both ends.
// "Pet Store!" becomes "pet-store"; input made only of punctuation becomes "".
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
