// Package convert turns a selection of atoms into an annotated property
// graph. Nodes and links both become vertices; an edge joins a link to
// each member of its outgoing set when both ends are selected.
package convert

import (
	"errors"
	"fmt"

	"github.com/robert-haas/mevis/internal/atom"
	"github.com/robert-haas/mevis/internal/expand"
	"github.com/robert-haas/mevis/internal/graph"
)

// ErrUnknownAnnotation is returned for an annotation key that nodes or edges do not carry.
var ErrUnknownAnnotation = errors.New("unknown annotation")

// NodeFunc computes one annotation for the vertex of an atom. A nil
// result leaves the annotation unset so renderers fall back to their defaults.
type NodeFunc func(a *atom.Atom) any

// EdgeFunc computes one annotation for the edge from source to target.
type EdgeFunc func(source, target *atom.Atom) any

// PropertiesFunc returns extra vertex attributes merged after the named annotations.
type PropertiesFunc func(a *atom.Atom) graph.Attrs

// NodeKeys lists the vertex annotations in the order they are computed.
var NodeKeys = []string{
	graph.AttrLabel, graph.AttrColor, graph.AttrOpacity, graph.AttrSize, graph.AttrShape,
	graph.AttrBorderColor, graph.AttrBorderSize, graph.AttrLabelColor, graph.AttrLabelSize,
	graph.AttrHover, graph.AttrClick, graph.AttrImage,
}

// EdgeKeys lists the edge annotations in the order they are computed.
var EdgeKeys = []string{
	graph.AttrLabel, graph.AttrColor, graph.AttrOpacity, graph.AttrSize,
	graph.AttrLabelColor, graph.AttrLabelSize, graph.AttrHover, graph.AttrClick,
}

var numericKeys = map[string]bool{
	graph.AttrOpacity:    true,
	graph.AttrSize:       true,
	graph.AttrBorderSize: true,
	graph.AttrLabelSize:  true,
}

// IsNumeric reports whether an annotation key takes a number.
func IsNumeric(key string) bool {
	return numericKeys[key]
}

// Options configures Build.
type Options struct {
	Annotated  bool
	Directed   bool
	Node       map[string]NodeFunc
	Edge       map[string]EdgeFunc
	Properties PropertiesFunc
}

// Option mutates Options.
type Option func(*Options)

// Unannotated skips every annotation, producing a bare structure graph.
func Unannotated() Option {
	return func(o *Options) { o.Annotated = false }
}

// Undirected produces an undirected graph.
func Undirected() Option {
	return func(o *Options) { o.Directed = false }
}

// WithNode overrides the default function for one vertex annotation.
func WithNode(key string, fn NodeFunc) Option {
	return func(o *Options) { o.Node[key] = fn }
}

// WithEdge overrides the default function for one edge annotation.
func WithEdge(key string, fn EdgeFunc) Option {
	return func(o *Options) { o.Edge[key] = fn }
}

// WithProperties sets the extra vertex properties function.
func WithProperties(fn PropertiesFunc) Option {
	return func(o *Options) { o.Properties = fn }
}

func defaultOptions() Options {
	return Options{
		Annotated: true,
		Directed:  true,
		Node: map[string]NodeFunc{
			graph.AttrLabel: defaultNodeLabel,
			graph.AttrColor: defaultNodeColor,
			graph.AttrShape: defaultNodeShape,
		},
		Edge: map[string]EdgeFunc{
			graph.AttrColor: defaultEdgeColor,
		},
	}
}

func (o Options) validate() error {
	for key := range o.Node {
		if !contains(NodeKeys, key) {
			return fmt.Errorf("%w: node %q", ErrUnknownAnnotation, key)
		}
	}
	for key := range o.Edge {
		if !contains(EdgeKeys, key) {
			return fmt.Errorf("%w: edge %q", ErrUnknownAnnotation, key)
		}
	}
	return nil
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// Build converts the atoms of sel into a graph. Atoms in sel that the store
// does not hold are reported with atom.ErrUnknownAtom.
func Build(store expand.Store, sel expand.Selection, opts ...Option) (*graph.Graph, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	if _, ok := o.Node[graph.AttrHover]; !ok {
		lookup := func(id string) (*atom.Atom, bool) { return store.Get(id) }
		o.Node[graph.AttrHover] = func(a *atom.Atom) any { return atom.ShortString(a, lookup) }
	}

	g := graph.New(o.Directed)
	if o.Annotated {
		// Clicking a vertex shows its hover text unless a click text is set.
		g.Attrs["node_click"] = "$hover"
	}

	ids := sel.IDs()
	atoms := make([]*atom.Atom, 0, len(ids))
	for _, id := range ids {
		a, ok := store.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", atom.ErrUnknownAtom, id)
		}
		atoms = append(atoms, a)

		attrs := graph.Attrs{}
		if o.Annotated {
			for _, key := range NodeKeys {
				fn := o.Node[key]
				if fn == nil {
					continue
				}
				if v := fn(a); v != nil {
					attrs[key] = v
				}
			}
			if o.Properties != nil {
				for k, v := range o.Properties(a) {
					attrs[k] = v
				}
			}
		}
		g.AddNode(id, attrs)
	}

	edge := func(source, target *atom.Atom) {
		if !sel.Has(source.ID) || !sel.Has(target.ID) || g.HasEdge(source.ID, target.ID) {
			return
		}
		attrs := graph.Attrs{}
		if o.Annotated {
			for _, key := range EdgeKeys {
				fn := o.Edge[key]
				if fn == nil {
					continue
				}
				if v := fn(source, target); v != nil {
					attrs[key] = v
				}
			}
		}
		g.AddEdge(source.ID, target.ID, attrs)
	}

	for _, a := range atoms {
		if !a.IsLink() {
			continue
		}
		for _, id := range store.Incoming(a.ID) {
			if in, ok := store.Get(id); ok {
				edge(in, a)
			}
		}
		for _, id := range store.Outgoing(a.ID) {
			if out, ok := store.Get(id); ok {
				edge(a, out)
			}
		}
	}
	return g, nil
}

func defaultNodeLabel(a *atom.Atom) any {
	if a.IsNode() {
		return fmt.Sprintf("%s \"%s\"", a.Type, a.Name)
	}
	return string(a.Type)
}

func defaultNodeColor(a *atom.Atom) any {
	if a.IsNode() {
		return "red"
	}
	return nil
}

func defaultNodeShape(a *atom.Atom) any {
	if a.IsNode() {
		return "rectangle"
	}
	return nil
}

func defaultEdgeColor(source, target *atom.Atom) any {
	if source.IsLink() && target.IsLink() {
		return nil
	}
	return "red"
}
