package layout

import (
	"fmt"
	"math"
	"math/rand/v2"

	gonumlayout "gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/robert-haas/mevis/internal/graph"
)

// eadesUpdates is the number of force-directed iterations.
const eadesUpdates = 100

// undirected mirrors g as a gonum graph whose node IDs are indices into g.Nodes.
func undirected(g *graph.Graph) *simple.UndirectedGraph {
	ug := simple.NewUndirectedGraph()
	for i := range g.Nodes {
		ug.AddNode(simple.Node(int64(i)))
	}
	for _, e := range g.Edges {
		s, ok1 := g.NodeIndex(e.Source)
		t, ok2 := g.NodeIndex(e.Target)
		if !ok1 || !ok2 || s == t {
			continue
		}
		ug.SetEdge(ug.NewEdge(simple.Node(int64(s)), simple.Node(int64(t))))
	}
	return ug
}

// eades runs the Eades spring embedder. Starting positions are drawn
// from a PCG source keyed by seed.
func eades(g *graph.Graph, seed uint64) []r2.Vec {
	n := len(g.Nodes)
	if n < 2 {
		return make([]r2.Vec, n)
	}

	embedder := gonumlayout.EadesR2{
		Repulsion: 1,
		Rate:      0.05,
		Updates:   eadesUpdates,
		Theta:     0.2,
		Src:       rand.NewPCG(seed, seed),
	}

	opt := gonumlayout.NewOptimizerR2(undirected(g), embedder.Update)
	for opt.Update() {
	}
	return coords(opt, n)
}

// isomap embeds graph distances with classical multidimensional scaling.
func isomap(g *graph.Graph) ([]r2.Vec, error) {
	n := len(g.Nodes)
	if n < 3 {
		return circular(n), nil
	}

	ug := undirected(g)
	if parts := topo.ConnectedComponents(ug); len(parts) > 1 {
		return nil, fmt.Errorf("isomap: %w (%d components)", ErrDisconnected, len(parts))
	}

	opt := gonumlayout.NewOptimizerR2(ug, gonumlayout.IsomapR2{}.Update)
	for opt.Update() {
	}
	pos := coords(opt, n)
	for _, p := range pos {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return nil, fmt.Errorf("isomap: embedding produced non-finite coordinates")
		}
	}
	return pos, nil
}

func coords(opt gonumlayout.OptimizerR2, n int) []r2.Vec {
	pos := make([]r2.Vec, n)
	for i := range pos {
		pos[i] = opt.Coord2(int64(i))
	}
	return pos
}
