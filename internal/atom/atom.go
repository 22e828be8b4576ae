// Package atom defines the metagraph data model: typed nodes, links whose
// outgoing sets may reference other links, and an in-memory store.
package atom

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// TruthValue is a simple (strength, confidence) pair attached to an atom.
type TruthValue struct {
	Mean       float64 `json:"mean"`
	Confidence float64 `json:"confidence"`
}

// Atom is a node or a link. Links carry an ordered sequence of outgoing
// atom IDs; nodes carry a name. Atoms are never mutated once added to a Space.
type Atom struct {
	ID       string      `json:"id"`
	Type     Type        `json:"type"`
	Name     string      `json:"name,omitempty"`
	Link     bool        `json:"link,omitempty"`
	Outgoing []string    `json:"outgoing,omitempty"`
	TV       *TruthValue `json:"tv,omitempty"`
}

// Validation errors.
var (
	ErrEmptyType       = errors.New("type is required")
	ErrEmptyID         = errors.New("id is required")
	ErrNodeOutgoing    = errors.New("node atoms cannot have outgoing references")
	ErrMissingOutgoing = errors.New("outgoing atom not found")
	ErrUnknownAtom     = errors.New("atom not found")
)

// IsNode reports whether the atom is a node.
func (a *Atom) IsNode() bool { return !a.Link }

// IsLink reports whether the atom is a link.
func (a *Atom) IsLink() bool { return a.Link }

// Validate checks the structural invariants of a single record.
func (a *Atom) Validate() error {
	if a.ID == "" {
		return ErrEmptyID
	}
	if a.Type == "" {
		return ErrEmptyType
	}
	if !a.Link && len(a.Outgoing) > 0 {
		return ErrNodeOutgoing
	}
	return nil
}

// NodeID returns the content-derived ID of a node.
func NodeID(t Type, name string) string {
	return hashKey("N", string(t), name)
}

// LinkID returns the content-derived ID of a link.
func LinkID(t Type, outgoing []string) string {
	parts := append([]string{string(t)}, outgoing...)
	return hashKey("L", parts...)
}

func hashKey(kind string, parts ...string) string {
	h := fnv.New64a()
	h.Write([]byte(kind))
	for _, p := range parts {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// Lookup resolves an atom by ID.
type Lookup func(id string) (*Atom, bool)

// ShortString renders an atom as an s-expression, expanding outgoing atoms
// one level deep. Deeper links are shown by type only.
func ShortString(a *Atom, lookup Lookup) string {
	return render(a, lookup, 1)
}

// LongString renders an atom as a fully expanded s-expression.
func LongString(a *Atom, lookup Lookup) string {
	return render(a, lookup, -1)
}

func render(a *Atom, lookup Lookup, depth int) string {
	if a.IsNode() {
		return "(" + string(a.Type) + " " + strconv.Quote(a.Name) + ")"
	}
	if depth == 0 {
		return "(" + string(a.Type) + " ...)"
	}

	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(string(a.Type))
	for _, id := range a.Outgoing {
		sb.WriteString(" ")
		child, ok := lookup(id)
		if !ok {
			sb.WriteString("<" + id + ">")
			continue
		}
		sb.WriteString(render(child, lookup, depth-1))
	}
	sb.WriteString(")")
	return sb.String()
}

// OrphanedLinkInfo describes a link whose outgoing set references missing atoms.
type OrphanedLinkInfo struct {
	ID      string   `json:"id"`
	Type    Type     `json:"type"`
	Missing []string `json:"missing"`
}

// DetectOrphanedLinks finds links that reference atoms not present in the
// given records. Records are checked as a set, independent of order.
func DetectOrphanedLinks(atoms []Atom) []OrphanedLinkInfo {
	known := make(map[string]bool, len(atoms))
	for _, a := range atoms {
		known[a.ID] = true
	}

	var orphaned []OrphanedLinkInfo
	for _, a := range atoms {
		var missing []string
		for _, id := range a.Outgoing {
			if !known[id] {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			orphaned = append(orphaned, OrphanedLinkInfo{ID: a.ID, Type: a.Type, Missing: missing})
		}
	}
	return orphaned
}
