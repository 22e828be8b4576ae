package export

import (
	"fmt"
	"io"

	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/robert-haas/mevis/internal/graph"
)

// dotNode is a vertex with a DOT name and attributes.
type dotNode struct {
	id    int64
	name  string
	attrs []encoding.Attribute
}

func (n dotNode) ID() int64 { return n.id }
func (n dotNode) DOTID() string { return n.name }
func (n dotNode) Attributes() []encoding.Attribute { return n.attrs }

// dotEdge is an edge carrying DOT attributes.
type dotEdge struct {
	from, to dotNode
	attrs    []encoding.Attribute
}

func (e dotEdge) From() gonumgraph.Node { return e.from }
func (e dotEdge) To() gonumgraph.Node { return e.to }
func (e dotEdge) ReversedEdge() gonumgraph.Edge { return dotEdge{from: e.to, to: e.from, attrs: e.attrs} }
func (e dotEdge) Attributes() []encoding.Attribute {
	return e.attrs
}

var dotShapes = map[string]string{
	"rectangle": "box",
	"circle":    "circle",
	"hexagon":   "hexagon",
}

// WriteDOT writes g in Graphviz DOT syntax using the atom IDs as node names.
func WriteDOT(w io.Writer, g *graph.Graph) error {
	type builder interface {
		gonumgraph.Graph
		AddNode(gonumgraph.Node)
		SetEdge(gonumgraph.Edge)
	}
	var dg builder
	if g.Directed {
		dg = simple.NewDirectedGraph()
	} else {
		dg = simple.NewUndirectedGraph()
	}

	nodes := make(map[string]dotNode, len(g.Nodes))
	for i, n := range g.Nodes {
		dn := dotNode{id: int64(i), name: n.ID, attrs: dotNodeAttrs(n)}
		nodes[n.ID] = dn
		dg.AddNode(dn)
	}
	for _, e := range g.Edges {
		from, ok1 := nodes[e.Source]
		to, ok2 := nodes[e.Target]
		if !ok1 || !ok2 || e.Source == e.Target {
			continue
		}
		dg.SetEdge(dotEdge{from: from, to: to, attrs: dotEdgeAttrs(e.Attrs)})
	}

	b, err := dot.Marshal(dg, "mevis", "", "  ")
	if err != nil {
		return fmt.Errorf("encoding DOT: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n"))
	return err
}

func dotNodeAttrs(n graph.Node) []encoding.Attribute {
	a := n.Attrs
	var attrs []encoding.Attribute
	add := func(k, v string) { attrs = append(attrs, encoding.Attribute{Key: k, Value: v}) }

	if v, ok := a.String(graph.AttrLabel); ok {
		add("label", v)
	}
	if v, ok := a.String(graph.AttrColor); ok {
		add("style", "filled")
		add("fillcolor", v)
	}
	if v, ok := a.String(graph.AttrBorderColor); ok {
		add("color", v)
	}
	if v, ok := a.Number(graph.AttrBorderSize); ok {
		add("penwidth", formatNumber(v))
	}
	if v, ok := a.String(graph.AttrShape); ok {
		if shape, known := dotShapes[v]; known {
			add("shape", shape)
		}
	}
	if v, ok := a.String(graph.AttrLabelColor); ok {
		add("fontcolor", v)
	}
	if v, ok := a.Number(graph.AttrLabelSize); ok {
		add("fontsize", formatNumber(v))
	}
	if v, ok := a.String(graph.AttrHover); ok {
		add("tooltip", v)
	}
	if v, ok := a.String(graph.AttrImage); ok {
		add("image", v)
	}
	if n.X != nil && n.Y != nil {
		add("pos", fmt.Sprintf("%s,%s!", formatNumber(*n.X), formatNumber(*n.Y)))
	}
	return attrs
}

func dotEdgeAttrs(a graph.Attrs) []encoding.Attribute {
	var attrs []encoding.Attribute
	add := func(k, v string) { attrs = append(attrs, encoding.Attribute{Key: k, Value: v}) }

	if v, ok := a.String(graph.AttrLabel); ok {
		add("label", v)
	}
	if v, ok := a.String(graph.AttrColor); ok {
		add("color", v)
	}
	if v, ok := a.Number(graph.AttrSize); ok {
		add("penwidth", formatNumber(v))
	}
	if v, ok := a.String(graph.AttrLabelColor); ok {
		add("fontcolor", v)
	}
	if v, ok := a.Number(graph.AttrLabelSize); ok {
		add("fontsize", formatNumber(v))
	}
	if v, ok := a.String(graph.AttrHover); ok {
		add("tooltip", v)
	}
	return attrs
}

func formatNumber(f float64) string {
	return fmt.Sprintf("%g", f)
}
