// Package slug builds URL-safe identifiers from display names.
package slug

import (
	"strings"
	"unicode"

	"github.com/fiam/gounidecode/unidecode"
)

// Make transliterates name to ASCII, lowercases it and joins word runs with '-'.
// "Sân Alpha 1" becomes "san-alpha-1". An empty result means name had no letters or digits.
func Make(name string) string {
	ascii := strings.ToLower(unidecode.Unidecode(strings.TrimSpace(name)))

	var b strings.Builder
	pendingDash := false
	for _, r := range ascii {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
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
