// Package graph holds the annotated property graph produced from a
// selection of atoms and consumed by layout, rendering and export.
package graph

import "sort"

// Attribute keys shared by converters, renderers and exporters.
const (
	AttrLabel       = "label"
	AttrColor       = "color"
	AttrOpacity     = "opacity"
	AttrSize        = "size"
	AttrShape       = "shape"
	AttrBorderColor = "border_color"
	AttrBorderSize  = "border_size"
	AttrLabelColor  = "label_color"
	AttrLabelSize   = "label_size"
	AttrHover       = "hover"
	AttrClick       = "click"
	AttrImage       = "image"
	AttrX           = "x"
	AttrY           = "y"
)

// Attrs maps annotation keys to string or float64 values.
type Attrs map[string]any

// String returns the value at key if it is a string.
func (a Attrs) String(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

// Number returns the value at key as float64 when it is numeric.
func (a Attrs) Number(key string) (float64, bool) {
	switch v := a[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Keys returns the attribute keys in sorted order.
func (a Attrs) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Node is a graph vertex. X and Y are set once a layout has been applied.
type Node struct {
	ID    string
	Attrs Attrs
	X, Y  *float64
}

// Edge connects two node IDs.
type Edge struct {
	Source string
	Target string
	Attrs  Attrs
}

// Graph is a simple graph: at most one edge per ordered pair when
// directed, per unordered pair otherwise.
type Graph struct {
	Directed bool
	Attrs    Attrs
	Nodes    []Node
	Edges    []Edge

	index map[string]int
	pairs map[[2]string]bool
}

// New returns an empty graph.
func New(directed bool) *Graph {
	return &Graph{
		Directed: directed,
		Attrs:    Attrs{},
		index:    make(map[string]int),
		pairs:    make(map[[2]string]bool),
	}
}

// AddNode adds a vertex. Adding an existing ID merges attrs into it.
func (g *Graph) AddNode(id string, attrs Attrs) {
	g.ensureIndex()
	if i, ok := g.index[id]; ok {
		for k, v := range attrs {
			g.Nodes[i].Attrs[k] = v
		}
		return
	}
	if attrs == nil {
		attrs = Attrs{}
	}
	g.index[id] = len(g.Nodes)
	g.Nodes = append(g.Nodes, Node{ID: id, Attrs: attrs})
}

// AddEdge adds an edge between two existing nodes. It reports false when
// an endpoint is missing or the edge already exists.
func (g *Graph) AddEdge(source, target string, attrs Attrs) bool {
	g.ensureIndex()
	if _, ok := g.index[source]; !ok {
		return false
	}
	if _, ok := g.index[target]; !ok {
		return false
	}
	key := g.pairKey(source, target)
	if g.pairs[key] {
		return false
	}
	g.pairs[key] = true
	if attrs == nil {
		attrs = Attrs{}
	}
	g.Edges = append(g.Edges, Edge{Source: source, Target: target, Attrs: attrs})
	return true
}

func (g *Graph) pairKey(source, target string) [2]string {
	if !g.Directed && target < source {
		return [2]string{target, source}
	}
	return [2]string{source, target}
}

// ensureIndex rebuilds lookup tables for graphs assembled by hand.
func (g *Graph) ensureIndex() {
	if g.index != nil && len(g.index) == len(g.Nodes) {
		return
	}
	g.index = make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		g.index[n.ID] = i
	}
	g.pairs = make(map[[2]string]bool, len(g.Edges))
	for _, e := range g.Edges {
		g.pairs[g.pairKey(e.Source, e.Target)] = true
	}
}

// Node returns the vertex with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	g.ensureIndex()
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return &g.Nodes[i], true
}

// NodeIndex returns the position of a node ID in Nodes.
func (g *Graph) NodeIndex(id string) (int, bool) {
	g.ensureIndex()
	i, ok := g.index[id]
	return i, ok
}

// HasEdge reports whether an edge joins source and target.
func (g *Graph) HasEdge(source, target string) bool {
	g.ensureIndex()
	return g.pairs[g.pairKey(source, target)]
}

// SetPosition stores layout coordinates for a node.
func (g *Graph) SetPosition(id string, x, y float64) bool {
	n, ok := g.Node(id)
	if !ok {
		return false
	}
	n.X, n.Y = &x, &y
	return true
}

// HasPositions reports whether every node has coordinates.
func (g *Graph) HasPositions() bool {
	if len(g.Nodes) == 0 {
		return false
	}
	for _, n := range g.Nodes {
		if n.X == nil || n.Y == nil {
			return false
		}
	}
	return true
}

// IsEmpty returns true if the graph has no nodes.
func (g *Graph) IsEmpty() bool {
	return len(g.Nodes) == 0
}
