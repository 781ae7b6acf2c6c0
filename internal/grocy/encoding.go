package grocy

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// EnsureUTF8 returns s as valid UTF-8. Text that was UTF-8 decoded as Latin-1
// on the way in ("Ã©") is repaired; invalid bytes become U+FFFD.
func EnsureUTF8(s string) string {
	if !utf8.ValidString(s) {
		return strings.ToValidUTF8(s, "\uFFFD")
	}
	latin1, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil || latin1 == s || !utf8.ValidString(latin1) {
		return s
	}
	return latin1
}
