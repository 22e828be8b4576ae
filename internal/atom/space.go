package atom

import (
	"fmt"
	"sync"

	"github.com/tidwall/btree"
)

// Space is an in-memory atom store. It owns the atoms and maintains the
// incoming index; it is safe for concurrent readers and writers.
type Space struct {
	mu       sync.RWMutex
	types    *TypeHierarchy
	atoms    *btree.Map[string, *Atom]
	incoming map[string][]string
}

// NewSpace creates an empty space using the default type hierarchy.
func NewSpace() *Space {
	return NewSpaceWithTypes(DefaultHierarchy())
}

// NewSpaceWithTypes creates an empty space using the given hierarchy.
func NewSpaceWithTypes(types *TypeHierarchy) *Space {
	return &Space{
		types:    types,
		atoms:    btree.NewMap[string, *Atom](32),
		incoming: make(map[string][]string),
	}
}

// Types returns the type hierarchy of the space.
func (s *Space) Types() *TypeHierarchy {
	return s.types
}

// AddNode adds a node, or returns the existing one with the same type and
// name. A non-nil tv replaces the truth value of an existing node.
func (s *Space) AddNode(t Type, name string, tv *TruthValue) (*Atom, error) {
	if t == "" {
		return nil, ErrEmptyType
	}
	if err := s.types.ensure(t, false); err != nil {
		return nil, err
	}
	return s.insert(&Atom{ID: NodeID(t, name), Type: t, Name: name, TV: tv})
}

// AddLink adds a link over existing atoms, or returns the existing link
// with the same type and outgoing sequence.
func (s *Space) AddLink(t Type, outgoing []string, tv *TruthValue) (*Atom, error) {
	if t == "" {
		return nil, ErrEmptyType
	}
	if err := s.types.ensure(t, true); err != nil {
		return nil, err
	}
	out := append([]string(nil), outgoing...)
	return s.insert(&Atom{ID: LinkID(t, out), Type: t, Link: true, Outgoing: out, TV: tv})
}

// Insert adds a record as-is, keeping its ID. It is used when loading
// persisted atoms whose IDs must be preserved.
func (s *Space) Insert(a Atom) (*Atom, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := s.types.ensure(a.Type, a.Link); err != nil {
		return nil, err
	}
	cp := a
	cp.Outgoing = append([]string(nil), a.Outgoing...)
	return s.insert(&cp)
}

func (s *Space) insert(a *Atom) (*Atom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.atoms.Get(a.ID); ok {
		if a.TV != nil {
			updated := *existing
			updated.TV = a.TV
			s.atoms.Set(a.ID, &updated)
			return &updated, nil
		}
		return existing, nil
	}

	for _, id := range a.Outgoing {
		if _, ok := s.atoms.Get(id); !ok {
			return nil, fmt.Errorf("%w: %s referenced by %s", ErrMissingOutgoing, id, a.Type)
		}
	}

	s.atoms.Set(a.ID, a)
	seen := make(map[string]bool, len(a.Outgoing))
	for _, id := range a.Outgoing {
		if seen[id] {
			continue
		}
		seen[id] = true
		s.incoming[id] = append(s.incoming[id], a.ID)
	}
	return a, nil
}

// Get returns the atom with the given ID.
func (s *Space) Get(id string) (*Atom, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.atoms.Get(id)
}

// Has reports whether an atom with the given ID exists.
func (s *Space) Has(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// Len returns the number of atoms.
func (s *Space) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.atoms.Len()
}

// All returns every atom ordered by ID.
func (s *Space) All() []*Atom {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Atom, 0, s.atoms.Len())
	s.atoms.Scan(func(_ string, a *Atom) bool {
		out = append(out, a)
		return true
	})
	return out
}

// ByType returns atoms of type t, including subtypes when requested.
func (s *Space) ByType(t Type, includeSubtypes bool) []*Atom {
	var out []*Atom
	for _, a := range s.All() {
		if a.Type == t || (includeSubtypes && s.types.IsA(a.Type, t)) {
			out = append(out, a)
		}
	}
	return out
}

// Incoming returns the IDs of links that reference the given atom.
func (s *Space) Incoming(id string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.incoming[id]...)
}

// Outgoing returns the outgoing IDs of the given atom, or nil for nodes
// and unknown IDs.
func (s *Space) Outgoing(id string) []string {
	a, ok := s.Get(id)
	if !ok {
		return nil
	}
	return append([]string(nil), a.Outgoing...)
}

// Lookup returns s.Get as a Lookup function.
func (s *Space) Lookup() Lookup {
	return s.Get
}

// Records returns copies of all atoms in dependency order: every atom
// appears after the atoms it references.
func (s *Space) Records() []Atom {
	all := s.All()
	done := make(map[string]bool, len(all))
	out := make([]Atom, 0, len(all))

	var visit func(a *Atom)
	visit = func(a *Atom) {
		if done[a.ID] {
			return
		}
		done[a.ID] = true
		for _, id := range a.Outgoing {
			if child, ok := s.Get(id); ok {
				visit(child)
			}
		}
		out = append(out, *a)
	}
	for _, a := range all {
		visit(a)
	}
	return out
}
