package expand

import (
	"sort"

	"github.com/robert-haas/mevis/internal/atom"
)

// Selection is a set of atom IDs.
type Selection map[string]struct{}

// NewSelection returns a selection containing the given IDs.
func NewSelection(ids ...string) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// SelectionOf returns a selection containing the IDs of the given atoms.
func SelectionOf(atoms []*atom.Atom) Selection {
	s := make(Selection, len(atoms))
	for _, a := range atoms {
		s[a.ID] = struct{}{}
	}
	return s
}

// Has reports whether id is a member.
func (s Selection) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id and reports whether it was new.
func (s Selection) Add(id string) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Len returns the number of members.
func (s Selection) Len() int { return len(s) }

// IDs returns the members in sorted order.
func (s Selection) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns an independent copy.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Union returns the members of s or o.
func (s Selection) Union(o Selection) Selection {
	out := s.Clone()
	for id := range o {
		out[id] = struct{}{}
	}
	return out
}

// Intersect returns the members of both s and o.
func (s Selection) Intersect(o Selection) Selection {
	out := make(Selection)
	for id := range s {
		if o.Has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Minus returns the members of s that are not in o.
func (s Selection) Minus(o Selection) Selection {
	out := make(Selection)
	for id := range s {
		if !o.Has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Equal reports whether s and o have the same members.
func (s Selection) Equal(o Selection) bool {
	if len(s) != len(o) {
		return false
	}
	for id := range s {
		if !o.Has(id) {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every member of s is in o.
func (s Selection) SubsetOf(o Selection) bool {
	for id := range s {
		if !o.Has(id) {
			return false
		}
	}
	return true
}
