package normalize

import (
	"strings"
	"unicode/utf8"
)

// Sanitize makes s safe to type into a single chat line:
// - tab, newline and carriage return become a plain space (a typed newline would submit early)
// - other ASCII controls, DEL and C1 controls U+0080..U+009F are dropped
// - invalid UTF-8 bytes are dropped
// Printable text is left byte-for-byte intact and the fast path returns s unchanged
func Sanitize(s string) string {
	if s == "" {
		return s
	}

	n := len(s)
	i := 0

	// fast path: scan until the first byte that needs attention
	for i < n {
		b := s[i]
		if b < 0x20 || b == 0x7F {
			break
		}
		if b < 0x80 {
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if (r == utf8.RuneError && size == 1) || (r >= 0x80 && r <= 0x9F) {
			break
		}
		i += size
	}
	if i == n {
		return s
	}

	var bldr strings.Builder
	bldr.Grow(n)
	bldr.WriteString(s[:i])

	for i < n {
		c := s[i]
		switch {
		case c == '\n' || c == '\r' || c == '\t':
			bldr.WriteByte(' ')
			i++
			continue
		case c < 0x20 || c == 0x7F:
			i++
			continue
		case c < 0x80:
			bldr.WriteByte(c)
			i++
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		if r >= 0x80 && r <= 0x9F {
			i += size
			continue
		}
		bldr.WriteString(s[i : i+size])
		i += size
	}

	return bldr.String()
}
