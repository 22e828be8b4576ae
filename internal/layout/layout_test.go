package layout

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/robert-haas/mevis/internal/graph"
)

// pathGraph builds n0 - n1 - ... - n(k-1) with the first half colored red.
func pathGraph(k int) *graph.Graph {
	g := graph.New(false)
	for i := 0; i < k; i++ {
		attrs := graph.Attrs{}
		if i < k/2 {
			attrs[graph.AttrColor] = "red"
		}
		g.AddNode(fmt.Sprintf("n%d", i), attrs)
	}
	for i := 1; i < k; i++ {
		g.AddEdge(fmt.Sprintf("n%d", i-1), fmt.Sprintf("n%d", i), nil)
	}
	return g
}

func position(t *testing.T, g *graph.Graph, id string) (float64, float64) {
	t.Helper()
	n, ok := g.Node(id)
	if !ok || n.X == nil || n.Y == nil {
		t.Fatalf("node %s has no position", id)
	}
	return *n.X, *n.Y
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"eades", Eades, false},
		{"Isomap", Isomap, false},
		{" grid ", Grid, false},
		{"force", Eades, false},
		{"spring", Eades, false},
		{"circle", Circular, false},
		{"dot", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMethod(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownMethod) {
					t.Errorf("ParseMethod(%q) error = %v, want ErrUnknownMethod", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMethod(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMethod(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestApplyAllMethods(t *testing.T) {
	for _, m := range Methods {
		t.Run(string(m), func(t *testing.T) {
			g := pathGraph(6)
			if err := Apply(g, m, DefaultOptions()); err != nil {
				t.Fatalf("Apply(%s) error = %v", m, err)
			}
			if !g.HasPositions() {
				t.Fatalf("Apply(%s) left nodes without positions", m)
			}

			minX, maxX := math.Inf(1), math.Inf(-1)
			minY, maxY := math.Inf(1), math.Inf(-1)
			for _, n := range g.Nodes {
				x, y := *n.X, *n.Y
				if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
					t.Fatalf("node %s has non-finite position (%v, %v)", n.ID, x, y)
				}
				minX, maxX = math.Min(minX, x), math.Max(maxX, x)
				minY, maxY = math.Min(minY, y), math.Max(maxY, y)
			}
			if math.Abs(minX+maxX) > 1e-6 || math.Abs(minY+maxY) > 1e-6 {
				t.Errorf("layout not centered: x [%v, %v], y [%v, %v]", minX, maxX, minY, maxY)
			}
		})
	}
}

func TestApplySingleNodeAndEmpty(t *testing.T) {
	empty := graph.New(true)
	if err := Apply(empty, Eades, DefaultOptions()); err != nil {
		t.Fatalf("Apply(empty) error = %v", err)
	}

	for _, m := range Methods {
		g := graph.New(true)
		g.AddNode("only", nil)
		if err := Apply(g, m, DefaultOptions()); err != nil {
			t.Fatalf("Apply(%s) on one node error = %v", m, err)
		}
		x, y := position(t, g, "only")
		if x != 0 || y != 0 {
			t.Errorf("Apply(%s) single node at (%v, %v), want origin", m, x, y)
		}
	}
}

func TestPostProcessing(t *testing.T) {
	// circular on four nodes: (1,0) (0,1) (-1,0) (0,-1) before scaling
	tests := []struct {
		name  string
		opts  Options
		id    string
		wantX float64
		wantY float64
	}{
		{"defaults mirror y", DefaultOptions(), "n1", 0, -300},
		{"no mirror", Options{ScaleX: 1, ScaleY: 1, CenterX: true, CenterY: true}, "n1", 0, 300},
		{"mirror x", Options{ScaleX: 1, ScaleY: 1, MirrorX: true}, "n0", -300, 0},
		{"scale", Options{ScaleX: 2, ScaleY: 0.5}, "n1", 0, 150},
		{"scale x", Options{ScaleX: 2, ScaleY: 1}, "n0", 600, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := pathGraph(4)
			if err := Apply(g, Circular, tt.opts); err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			x, y := position(t, g, tt.id)
			if math.Abs(x-tt.wantX) > 1e-9 || math.Abs(y-tt.wantY) > 1e-9 {
				t.Errorf("%s at (%v, %v), want (%v, %v)", tt.id, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestShellGroupsByColor(t *testing.T) {
	g := pathGraph(6) // n0..n2 red, n3..n5 uncolored
	opts := Options{ScaleX: 1, ScaleY: 1}
	if err := Apply(g, Shell, opts); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	for _, n := range g.Nodes {
		r := math.Hypot(*n.X, *n.Y)
		want := 300.0
		if _, red := n.Attrs[graph.AttrColor]; red {
			want = 150
		}
		if math.Abs(r-want) > 1e-6 {
			t.Errorf("node %s radius = %v, want %v", n.ID, r, want)
		}
	}
}

func TestBipartiteGroupsByColor(t *testing.T) {
	g := pathGraph(6)
	if err := Apply(g, Bipartite, DefaultOptions()); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	redX, _ := position(t, g, "n0")
	otherX, _ := position(t, g, "n5")
	if redX == otherX {
		t.Fatal("groups share a column")
	}
	for _, n := range g.Nodes {
		want := otherX
		if _, red := n.Attrs[graph.AttrColor]; red {
			want = redX
		}
		if math.Abs(*n.X-want) > 1e-9 {
			t.Errorf("node %s x = %v, want %v", n.ID, *n.X, want)
		}
	}
}

func TestRandomIsSeeded(t *testing.T) {
	a, b := pathGraph(5), pathGraph(5)
	if err := Apply(a, Random, DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	if err := Apply(b, Random, DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	for i := range a.Nodes {
		if *a.Nodes[i].X != *b.Nodes[i].X || *a.Nodes[i].Y != *b.Nodes[i].Y {
			t.Errorf("node %s differs between runs", a.Nodes[i].ID)
		}
	}

	opts := DefaultOptions()
	opts.Seed = 7
	c := pathGraph(5)
	if err := Apply(c, Random, opts); err != nil {
		t.Fatal(err)
	}
	if *a.Nodes[0].X == *c.Nodes[0].X && *a.Nodes[1].X == *c.Nodes[1].X {
		t.Error("different seeds gave the same layout")
	}
}

func TestEadesSmallGraphs(t *testing.T) {
	for _, k := range []int{2, 3} {
		t.Run(fmt.Sprintf("path%d", k), func(t *testing.T) {
			g := pathGraph(k)
			pos := eades(g, 42)
			if len(pos) != k {
				t.Fatalf("eades returned %d positions, want %d", len(pos), k)
			}
			for i, p := range pos {
				if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
					t.Fatalf("node %d has non-finite position %v", i, p)
				}
			}
			if pos[0] == pos[1] {
				t.Errorf("adjacent nodes share position %v", pos[0])
			}
		})
	}
}

func TestIsomapDisconnected(t *testing.T) {
	g := pathGraph(4)
	g.AddNode("island", nil)
	err := Apply(g, Isomap, DefaultOptions())
	if !errors.Is(err, ErrDisconnected) {
		t.Errorf("Apply(isomap) error = %v, want ErrDisconnected", err)
	}
}
