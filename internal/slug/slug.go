// Package slug turns display names into URL-safe usernames.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength bounds the length of a generated slug.
const MaxLength = 40

// Make lowercases s, strips diacritics and joins the remaining ASCII letter and
// digit runs with single hyphens. It returns "" when nothing usable is left.
func Make(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if b.Len() >= MaxLength || (pendingHyphen && b.Len()+1 >= MaxLength) {
				continue
			}
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// WithSuffix appends "-n" to base; n == 0 returns base unchanged.
func WithSuffix(base string, n int) string {
	if n == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
