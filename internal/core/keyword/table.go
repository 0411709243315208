// Package keyword matches chat payloads against an ordered table of canned replies
package keyword

import (
	"strings"

	perr "mbot/internal/platform/errors"
)

// Entry is one row of the table
type Entry struct {
	Keyword string `yaml:"keyword"`
	Reply   string `yaml:"reply"`
}

// Table is an immutable ordered keyword table. Safe for concurrent use
type Table struct {
	entries []Entry
	ac      *acAutomaton
}

// New builds a Table. Keywords are matched case-insensitively, so they are stored lowercased;
// an empty keyword would match every payload and is rejected
func New(entries []Entry) (*Table, error) {
	t := &Table{entries: make([]Entry, len(entries)), ac: newAutomaton()}
	for i, e := range entries {
		kw := strings.ToLower(strings.TrimSpace(e.Keyword))
		if kw == "" {
			return nil, perr.WithField(perr.InvalidArgf("keyword %d is empty", i), "keywords")
		}
		t.entries[i] = Entry{Keyword: kw, Reply: e.Reply}
		t.ac.add([]byte(kw), i)
	}
	t.ac.build()
	return t, nil
}

// Len returns the number of entries
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Lookup returns the entry whose keyword occurs in text. When several keywords occur,
// the one listed first in the table wins regardless of where it appears in text
func (t *Table) Lookup(text string) (Entry, bool) {
	if t == nil || len(t.entries) == 0 || text == "" {
		return Entry{}, false
	}
	best := -1
	t.ac.scan([]byte(strings.ToLower(text)), func(id int) bool {
		if best == -1 || id < best {
			best = id
		}
		return best != 0 // nothing beats the first row
	})
	if best == -1 {
		return Entry{}, false
	}
	return t.entries[best], true
}
