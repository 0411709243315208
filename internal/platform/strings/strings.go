// Package strings provides string and slice helpers
package strings

import (
	std "strings"
	"unicode/utf8"
)

// FirstNonEmpty returns the first argument with non whitespace content, or ""
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if std.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Truncate shortens s to at most n runes, appending "…" when it had to cut.
// Used to keep log lines readable when they carry chat payloads
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i, count := 0, 0
	for i = range s {
		if count == n {
			break
		}
		count++
	}
	return s[:i] + "…"
}

// LowerAll lowercases every element, returning a new slice
func LowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = std.ToLower(s)
	}
	return out
}
