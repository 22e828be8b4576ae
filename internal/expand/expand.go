// Package expand grows a target selection of atoms into a context-bounded
// neighborhood and applies an include or exclude mode against a candidate
// universe.
//
// Expansion is a pure read of the store: it keeps its working sets local and
// returns a fresh Selection, so concurrent calls against a store that
// tolerates concurrent readers are independent.
package expand

import (
	"fmt"
	"sort"

	"github.com/robert-haas/mevis/internal/atom"
)

// Store is the read-only view of a graph store used during expansion.
// *atom.Space satisfies it.
type Store interface {
	Get(id string) (*atom.Atom, bool)
	All() []*atom.Atom
	Incoming(id string) []string
	Outgoing(id string) []string
	Types() *atom.TypeHierarchy
}

type options struct {
	context  Context
	mode     Mode
	universe Selection
}

// Option configures an expansion.
type Option func(*options)

// WithContext sets the context policy. The default is Identity.
func WithContext(c Context) Option {
	return func(o *options) { o.context = c }
}

// WithMode sets the include/exclude mode. The default is Include.
func WithMode(m Mode) Option {
	return func(o *options) { o.mode = m }
}

// WithUniverse scopes the call to a candidate universe, usually the result
// of a previous call. Targets resolve against it and the mode is applied
// within it. The default is every atom in the store. Every ID in u must be
// held by the store.
func WithUniverse(u Selection) Option {
	return func(o *options) { o.universe = u }
}

// Expand resolves target, grows it by the context policy and applies the
// mode within the candidate universe. It fails with *InvalidTargetError or
// *InvalidContextError; an empty result is not an error.
func Expand(store Store, target Target, opts ...Option) (Selection, error) {
	o := options{context: Identity, mode: Include}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.context.Validate(); err != nil {
		return nil, err
	}
	if o.mode != Include && o.mode != Exclude {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, o.mode)
	}

	universe, err := universeAtoms(store, o.universe)
	if err != nil {
		return nil, err
	}
	seeds, err := resolveTarget(&resolver{store: store, universe: universe}, target)
	if err != nil {
		return nil, err
	}

	expanded := Grow(store, seeds, o.context)

	scope := SelectionOf(universe)
	if o.mode == Exclude {
		return scope.Minus(expanded), nil
	}
	return expanded.Intersect(scope), nil
}

// Filter runs Expand and returns the selected atoms ordered by ID.
func Filter(store Store, target Target, opts ...Option) ([]*atom.Atom, error) {
	sel, err := Expand(store, target, opts...)
	if err != nil {
		return nil, err
	}
	return Materialize(store, sel), nil
}

// Materialize returns the atoms of a selection ordered by ID, skipping IDs the
// store does not know.
func Materialize(store Store, sel Selection) []*atom.Atom {
	out := make([]*atom.Atom, 0, len(sel))
	for _, id := range sel.IDs() {
		if a, ok := store.Get(id); ok {
			out = append(out, a)
		}
	}
	return out
}

// Grow expands seeds breadth-first by the context policy, without any
// universe restriction. The context must already be valid.
//
// visited starts as the seeds; each round collects the unseen neighbors of
// the current frontier and makes them the next frontier. Bounded kinds stop
// after Hops rounds, tree kinds when the frontier is empty. Cycles terminate
// because only unseen atoms enter the frontier.
func Grow(store Store, seeds Selection, c Context) Selection {
	visited := seeds.Clone()
	if c.Kind == KindAtom || (c.Kind.bounded() && c.Hops == 0) {
		return visited
	}

	frontier := seeds.IDs()
	for round := 0; len(frontier) > 0; round++ {
		if c.Kind.bounded() && round == c.Hops {
			break
		}
		var next []string
		for _, id := range frontier {
			for _, n := range neighbors(store, id, c.Kind) {
				if visited.Add(n) {
					next = append(next, n)
				}
			}
		}
		frontier = next
	}
	return visited
}

func neighbors(store Store, id string, k Kind) []string {
	switch k {
	case KindIn, KindInTree:
		return store.Incoming(id)
	case KindOut, KindOutTree:
		return store.Outgoing(id)
	case KindBoth:
		in, out := store.Incoming(id), store.Outgoing(id)
		both := make([]string, 0, len(in)+len(out))
		return append(append(both, in...), out...)
	default:
		return nil
	}
}

// universeAtoms returns the atoms of u, or of the whole store when u is nil,
// ordered by ID. An ID in u that store does not hold is an
// *InvalidTargetError wrapping ErrUnknownAtom.
func universeAtoms(store Store, u Selection) ([]*atom.Atom, error) {
	if u == nil {
		all := append([]*atom.Atom(nil), store.All()...)
		sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
		return all, nil
	}
	out := make([]*atom.Atom, 0, len(u))
	for _, id := range u.IDs() {
		a, ok := store.Get(id)
		if !ok {
			return nil, &InvalidTargetError{Target: "universe atom " + id, Err: ErrUnknownAtom}
		}
		out = append(out, a)
	}
	return out, nil
}
