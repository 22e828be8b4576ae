package expand

import (
	"fmt"
	"strings"

	"github.com/robert-haas/mevis/internal/atom"
)

// Target describes the initial selection of an expansion. Targets are
// built with Atoms, AtomIDs, Name, Names, OfType, OfTypes, Where,
// Predicate and Any.
type Target interface {
	resolve(r *resolver) (Selection, error)
	String() string
}

// Selector decides whether an atom belongs to a selection. Implementations
// must be pure: they may be called any number of times, in any order.
type Selector interface {
	Match(a *atom.Atom) bool
}

// PredicateFunc adapts an ordinary function to the Selector interface.
type PredicateFunc func(a *atom.Atom) bool

// Match calls f(a).
func (f PredicateFunc) Match(a *atom.Atom) bool { return f(a) }

// resolver holds what a target needs to turn itself into a Selection.
type resolver struct {
	store    Store
	universe []*atom.Atom
}

// Resolve turns a target into its initial selection within the universe,
// without any context expansion. A nil universe means every atom in store.
func Resolve(store Store, target Target, universe Selection) (Selection, error) {
	atoms, err := universeAtoms(store, universe)
	if err != nil {
		return nil, err
	}
	return resolveTarget(&resolver{store: store, universe: atoms}, target)
}

func resolveTarget(r *resolver, t Target) (Selection, error) {
	if t == nil {
		return nil, &InvalidTargetError{Target: "<nil>", Err: ErrNilTarget}
	}
	return t.resolve(r)
}

// atomsTarget selects atoms by identity.
type atomsTarget struct {
	ids []string
}

// Atoms targets the given atoms as they are. Each must exist in the store.
func Atoms(atoms ...*atom.Atom) Target {
	ids := make([]string, len(atoms))
	for i, a := range atoms {
		if a != nil {
			ids[i] = a.ID
		}
	}
	return atomsTarget{ids: ids}
}

// AtomIDs targets atoms by ID. Each ID must exist in the store.
func AtomIDs(ids ...string) Target {
	return atomsTarget{ids: append([]string(nil), ids...)}
}

func (t atomsTarget) resolve(r *resolver) (Selection, error) {
	sel := make(Selection, len(t.ids))
	for _, id := range t.ids {
		if id == "" {
			return nil, &InvalidTargetError{Target: t.String(), Err: ErrNilTarget}
		}
		if _, ok := r.store.Get(id); !ok {
			return nil, &InvalidTargetError{Target: "atom " + id, Err: ErrUnknownAtom}
		}
		sel.Add(id)
	}
	return sel, nil
}

func (t atomsTarget) String() string {
	return "atoms[" + strings.Join(t.ids, ",") + "]"
}

// namesTarget matches atom names and type names, ignoring case.
type namesTarget struct {
	names []string
}

// Name targets every atom whose name or type name equals s, ignoring case.
// A name that matches nothing contributes nothing and is not an error.
func Name(s string) Target {
	return namesTarget{names: []string{s}}
}

// Names targets atoms matching any of the given names, as Name does.
func Names(names ...string) Target {
	return namesTarget{names: append([]string(nil), names...)}
}

func (t namesTarget) resolve(r *resolver) (Selection, error) {
	want := make(map[string]bool, len(t.names))
	for _, n := range t.names {
		want[strings.ToLower(n)] = true
	}
	sel := make(Selection)
	for _, a := range r.universe {
		if want[strings.ToLower(a.Name)] || want[strings.ToLower(string(a.Type))] {
			sel.Add(a.ID)
		}
	}
	return sel, nil
}

func (t namesTarget) String() string {
	return "names[" + strings.Join(t.names, ",") + "]"
}

// typesTarget matches atom types including subtypes.
type typesTarget struct {
	types []atom.Type
}

// OfType targets every atom of type t or of any subtype of t.
func OfType(t atom.Type) Target {
	return typesTarget{types: []atom.Type{t}}
}

// OfTypes targets atoms of any of the given types or their subtypes.
func OfTypes(types ...atom.Type) Target {
	return typesTarget{types: append([]atom.Type(nil), types...)}
}

func (t typesTarget) resolve(r *resolver) (Selection, error) {
	h := r.store.Types()
	sel := make(Selection)
	for _, a := range r.universe {
		for _, tp := range t.types {
			if a.Type == tp || (h != nil && h.IsA(a.Type, tp)) {
				sel.Add(a.ID)
				break
			}
		}
	}
	return sel, nil
}

func (t typesTarget) String() string {
	parts := make([]string, len(t.types))
	for i, tp := range t.types {
		parts[i] = string(tp)
	}
	return "types[" + strings.Join(parts, ",") + "]"
}

// predicateTarget evaluates a Selector once per atom in the universe.
type predicateTarget struct {
	sel Selector
}

// Predicate targets every atom in the universe for which sel matches.
// A panicking selector fails the whole resolution with InvalidTargetError.
func Predicate(sel Selector) Target {
	return predicateTarget{sel: sel}
}

// Where is Predicate for a plain function.
func Where(fn func(a *atom.Atom) bool) Target {
	if fn == nil {
		return predicateTarget{}
	}
	return predicateTarget{sel: PredicateFunc(fn)}
}

func (t predicateTarget) resolve(r *resolver) (sel Selection, err error) {
	if t.sel == nil {
		return nil, &InvalidTargetError{Target: t.String(), Err: ErrNilTarget}
	}

	var currentID string
	defer func() {
		if rec := recover(); rec != nil {
			sel = nil
			err = &InvalidTargetError{
				Target: t.String(),
				Err:    fmt.Errorf("%w on atom %s: %v", ErrPredicatePanic, currentID, rec),
			}
		}
	}()

	sel = make(Selection)
	for _, a := range r.universe {
		currentID = a.ID
		if t.sel.Match(a) {
			sel.Add(a.ID)
		}
	}
	return sel, nil
}

func (t predicateTarget) String() string { return "predicate" }

// anyTarget is the union of several targets.
type anyTarget struct {
	targets []Target
}

// Any targets the union of the given targets. Targets of different kinds
// can be mixed freely.
func Any(targets ...Target) Target {
	return anyTarget{targets: append([]Target(nil), targets...)}
}

func (t anyTarget) resolve(r *resolver) (Selection, error) {
	sel := make(Selection)
	for _, sub := range t.targets {
		part, err := resolveTarget(r, sub)
		if err != nil {
			return nil, err
		}
		for id := range part {
			sel.Add(id)
		}
	}
	return sel, nil
}

func (t anyTarget) String() string {
	parts := make([]string, len(t.targets))
	for i, sub := range t.targets {
		if sub == nil {
			parts[i] = "<nil>"
			continue
		}
		parts[i] = sub.String()
	}
	return "any[" + strings.Join(parts, ",") + "]"
}
