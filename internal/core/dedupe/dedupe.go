// Package dedupe implements last-value suppression: a key is dropped only when it equals
// the most recently accepted key
package dedupe

// Deduplicator remembers exactly one key. Owned by one pipeline; not safe for concurrent use
type Deduplicator struct {
	last string
	set  bool
}

// New returns an empty Deduplicator
func New() *Deduplicator { return &Deduplicator{} }

// Accept reports whether key differs from the last accepted key, remembering it when it does
func (d *Deduplicator) Accept(key string) bool {
	if d.set && key == d.last {
		return false
	}
	d.last, d.set = key, true
	return true
}

// Reset forgets the last accepted key
func (d *Deduplicator) Reset() { d.last, d.set = "", false }
