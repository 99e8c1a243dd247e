package standard

import (
	"fmt"
)

// Registry is the ordered, immutable set of loaded standards. Declaration
// order decides which standard wins when several define the same tag.
// It is safe for concurrent reads and never locks.
type Registry struct {
	entries []Entry
	byID    map[string]int
}

// NewRegistry parses every document in order. Any parse failure, empty id or
// duplicate id aborts the whole load.
func NewRegistry(docs ...Document) (*Registry, error) {
	r := &Registry{
		entries: make([]Entry, 0, len(docs)),
		byID:    make(map[string]int, len(docs)),
	}
	for _, doc := range docs {
		if doc.ID == "" {
			return nil, fmt.Errorf("load standard: empty id")
		}
		if _, dup := r.byID[doc.ID]; dup {
			return nil, fmt.Errorf("load standard %q: duplicate id", doc.ID)
		}
		std, err := Parse(doc.Text)
		if err != nil {
			return nil, fmt.Errorf("load standard %q: %w", doc.ID, err)
		}
		r.byID[doc.ID] = len(r.entries)
		r.entries = append(r.entries, Entry{ID: doc.ID, Standard: std})
	}
	return r, nil
}

// Lookup returns the standard registered under id.
func (r *Registry) Lookup(id string) (*Standard, bool) {
	i, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return r.entries[i].Standard, true
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Entries returns every entry in declaration order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// IDs returns every id in declaration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.entries))
	for i, e := range r.entries {
		ids[i] = e.ID
	}
	return ids
}

// Len returns the number of registered standards.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Filter keeps the ids that are registered, in the order given, without
// duplicates. Returned strings are the registry's own ids.
func (r *Registry) Filter(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		i, ok := r.byID[id]
		if !ok {
			continue
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, r.entries[i].ID)
	}
	return out
}
