package atom

import (
	"fmt"
	"sort"
	"sync"
)

// Type is an atom type tag such as "ConceptNode" or "InheritanceLink".
type Type string

// Root types of every hierarchy.
const (
	TypeAtom Type = "Atom"
	TypeNode Type = "Node"
	TypeLink Type = "Link"
)

// TypeHierarchy records the parent of every known type.
// Each type has exactly one parent except TypeAtom, which has none.
type TypeHierarchy struct {
	mu      sync.RWMutex
	parents map[Type]Type
}

// NewTypeHierarchy returns a hierarchy containing only Atom, Node and Link.
func NewTypeHierarchy() *TypeHierarchy {
	h := &TypeHierarchy{parents: make(map[Type]Type)}
	h.parents[TypeAtom] = ""
	h.parents[TypeNode] = TypeAtom
	h.parents[TypeLink] = TypeAtom
	return h
}

// defaultTypes lists common AtomSpace types with their parents, in
// registration order so parents always precede children.
var defaultTypes = [][2]Type{
	{"OrderedLink", TypeLink},
	{"UnorderedLink", TypeLink},
	{"ListLink", "OrderedLink"},
	{"SetLink", "UnorderedLink"},
	{"MemberLink", "OrderedLink"},
	{"EvaluationLink", "OrderedLink"},
	{"ExecutionLink", "OrderedLink"},
	{"InheritanceLink", "OrderedLink"},
	{"SimilarityLink", "UnorderedLink"},
	{"SubsetLink", "OrderedLink"},
	{"ImplicationLink", "OrderedLink"},
	{"EquivalenceLink", "UnorderedLink"},
	{"ContextLink", "OrderedLink"},
	{"BooleanLink", "UnorderedLink"},
	{"AndLink", "BooleanLink"},
	{"OrLink", "BooleanLink"},
	{"NotLink", "BooleanLink"},
	{"ScopeLink", "OrderedLink"},
	{"LambdaLink", "ScopeLink"},
	{"BindLink", "ScopeLink"},
	{"GetLink", "ScopeLink"},
	{"PresentLink", "UnorderedLink"},
	{"VariableList", "OrderedLink"},
	{"TypedVariableLink", "OrderedLink"},
	{"ConceptNode", TypeNode},
	{"PredicateNode", TypeNode},
	{"SchemaNode", TypeNode},
	{"GroundedSchemaNode", "SchemaNode"},
	{"GroundedPredicateNode", "PredicateNode"},
	{"DefinedSchemaNode", "SchemaNode"},
	{"DefinedPredicateNode", "PredicateNode"},
	{"VariableNode", TypeNode},
	{"GlobNode", "VariableNode"},
	{"NumberNode", TypeNode},
	{"TypeNode", TypeNode},
	{"AnchorNode", TypeNode},
	{"GeneNode", "ConceptNode"},
	{"MoleculeNode", "ConceptNode"},
}

// DefaultHierarchy returns a hierarchy with the common AtomSpace types.
func DefaultHierarchy() *TypeHierarchy {
	h := NewTypeHierarchy()
	for _, tp := range defaultTypes {
		if err := h.Register(tp[0], tp[1]); err != nil {
			panic(err)
		}
	}
	return h
}

// Register adds t as a child of parent. Registering an existing type with
// the same parent is a no-op.
func (h *TypeHierarchy) Register(t, parent Type) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if t == "" {
		return fmt.Errorf("type name is required")
	}
	if _, ok := h.parents[parent]; !ok {
		return fmt.Errorf("unknown parent type %q for %q", parent, t)
	}
	if existing, ok := h.parents[t]; ok {
		if existing != parent {
			return fmt.Errorf("type %q already registered under %q", t, existing)
		}
		return nil
	}
	h.parents[t] = parent
	return nil
}

// Known reports whether t has been registered.
func (h *TypeHierarchy) Known(t Type) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.parents[t]
	return ok
}

// Parent returns the parent of t.
func (h *TypeHierarchy) Parent(t Type) (Type, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, ok := h.parents[t]
	return p, ok && p != ""
}

// IsA reports whether t equals ancestor or descends from it.
func (h *TypeHierarchy) IsA(t, ancestor Type) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for cur := t; cur != ""; {
		if cur == ancestor {
			return true
		}
		p, ok := h.parents[cur]
		if !ok {
			return false
		}
		cur = p
	}
	return false
}

// Subtypes returns t and all of its registered descendants, sorted.
func (h *TypeHierarchy) Subtypes(t Type) []Type {
	h.mu.RLock()
	known := make([]Type, 0, len(h.parents))
	for k := range h.parents {
		known = append(known, k)
	}
	h.mu.RUnlock()

	var out []Type
	for _, k := range known {
		if h.IsA(k, t) {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Names returns every registered type, sorted.
func (h *TypeHierarchy) Names() []Type {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Type, 0, len(h.parents))
	for k := range h.parents {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ensure registers an unknown type under Node or Link depending on whether
// it carries outgoing references.
func (h *TypeHierarchy) ensure(t Type, link bool) error {
	if h.Known(t) {
		if link && !h.IsA(t, TypeLink) {
			return fmt.Errorf("type %q is not a link type", t)
		}
		if !link && !h.IsA(t, TypeNode) {
			return fmt.Errorf("type %q is not a node type", t)
		}
		return nil
	}
	if link {
		return h.Register(t, TypeLink)
	}
	return h.Register(t, TypeNode)
}
