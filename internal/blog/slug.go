package blog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// slugStripper decomposes accented characters and drops the combining marks,
// so "Café" slugifies to "cafe".
var slugStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify turns a title into a URL-safe slug.
func Slugify(s string) string {
	if stripped, _, err := transform.String(slugStripper, s); err == nil {
		s = stripped
	}
	s = strings.ToLower(s)

	var b strings.Builder
	pendingDash := false
	for _, r := range s {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
