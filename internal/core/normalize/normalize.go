// Package normalize turns chat payloads into stable comparison keys and cleans text
// before it is typed into a chat box
//
// Key pipeline
// 1 Sanitize: drop invalid UTF-8 and control characters
// 2 Unicode NFKC normalization
// 3 Case folding
// 4 Remove format characters (zero-width joiners, BOM, ...)
// 5 Width fold fullwidth to ASCII
// 6 Collapse whitespace runs to a single space and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// chainPool hands out transformer chains; a chain is stateful so each caller needs its own
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
		)
	},
}

// Key returns the deduplication key for s. Pure and deterministic: equal inputs always
// produce equal keys, and Key(Key(s)) == Key(s)
func Key(s string) string {
	if s == "" {
		return ""
	}
	s = Sanitize(s)

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		// transform only fails on malformed input, which Sanitize already removed
		ns = strings.ToLower(s)
	}

	return collapseSpaces(ns)
}

// collapseSpaces converts every whitespace run to one ASCII space and trims the edges
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
