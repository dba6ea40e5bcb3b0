package catalog

import (
	"time"

	"github.com/catalogmesh/tablequery/domain/search"
)

// Snapshot is one complete, internally consistent unit of catalog entries
// plus the vector index built over them. A snapshot is built once, off to
// the side, and swapped in with a single atomic pointer store; it is never
// mutated afterwards. Index positions are bijective with entries within one
// snapshot and are not stable across rebuilds.
type Snapshot struct {
	entries     []Entry
	byName      map[string]int
	index       search.Index
	fingerprint Fingerprint
	builtAt     time.Time
}

// NewSnapshot creates a Snapshot from a validated store, the index built
// over its canonical texts (in entry order), and the source fingerprint.
func NewSnapshot(store *Store, index search.Index, fingerprint Fingerprint) *Snapshot {
	byName := make(map[string]int, store.Len())
	for name, id := range store.byName {
		byName[name] = id
	}
	return &Snapshot{
		entries:     store.Entries(),
		byName:      byName,
		index:       index,
		fingerprint: fingerprint,
		builtAt:     time.Now().UTC(),
	}
}

// Entry returns the entry at the given index position.
func (s *Snapshot) Entry(id int) (Entry, bool) {
	if id < 0 || id >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[id], true
}

// EntryByName returns the position and entry for a table name.
func (s *Snapshot) EntryByName(name string) (int, Entry, bool) {
	id, ok := s.byName[name]
	if !ok {
		return 0, Entry{}, false
	}
	return id, s.entries[id], true
}

// Entries returns the ordered entries (copy).
func (s *Snapshot) Entries() []Entry {
	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)
	return entries
}

// Index returns the vector index over this snapshot's entries.
func (s *Snapshot) Index() search.Index { return s.index }

// Fingerprint returns the source file fingerprint this snapshot was built
// from.
func (s *Snapshot) Fingerprint() Fingerprint { return s.fingerprint }

// BuiltAt returns when the snapshot was built.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Len returns the number of entries.
func (s *Snapshot) Len() int { return len(s.entries) }
