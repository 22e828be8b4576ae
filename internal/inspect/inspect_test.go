package inspect

import (
	"testing"

	"github.com/robert-haas/mevis/internal/atom"
	"github.com/robert-haas/mevis/internal/graph"
)

func testAtoms(t *testing.T) []*atom.Atom {
	t.Helper()

	space := atom.NewSpace()
	a, _ := space.AddNode("ConceptNode", "a", nil)
	b, _ := space.AddNode("ConceptNode", "b", nil)
	p, _ := space.AddNode("PredicateNode", "p", nil)
	list, err := space.AddLink("ListLink", []string{a.ID, b.ID}, nil)
	if err != nil {
		t.Fatalf("AddLink() error = %v", err)
	}
	if _, err := space.AddLink("EvaluationLink", []string{p.ID, list.ID}, nil); err != nil {
		t.Fatalf("AddLink() error = %v", err)
	}
	return space.All()
}

func TestAtoms(t *testing.T) {
	atoms := testAtoms(t)

	s := Atoms(atoms, false)
	if s.Atoms != 5 || s.Nodes != 3 || s.Links != 2 {
		t.Errorf("Atoms() = %+v, want 5 atoms, 3 nodes, 2 links", s)
	}
	if s.NodeTypes != nil || s.LinkTypes != nil {
		t.Errorf("Atoms() without details has type maps: %+v", s)
	}

	s = Atoms(atoms, true)
	if s.NodeTypes["ConceptNode"] != 2 || s.NodeTypes["PredicateNode"] != 1 {
		t.Errorf("NodeTypes = %v", s.NodeTypes)
	}
	if s.LinkTypes["ListLink"] != 1 || s.LinkTypes["EvaluationLink"] != 1 {
		t.Errorf("LinkTypes = %v", s.LinkTypes)
	}
}

func TestAtoms_Empty(t *testing.T) {
	s := Atoms(nil, true)
	if s.Atoms != 0 || len(s.NodeTypes) != 0 {
		t.Errorf("Atoms(nil) = %+v", s)
	}
}

func TestGraph(t *testing.T) {
	g := graph.New(true)
	g.AddNode("a", graph.Attrs{graph.AttrColor: "red", graph.AttrSize: 10.0})
	g.AddNode("b", graph.Attrs{graph.AttrColor: "red", graph.AttrSize: 20.0})
	g.AddNode("c", graph.Attrs{graph.AttrColor: "blue"})
	g.AddEdge("a", "b", graph.Attrs{graph.AttrColor: "red"})
	g.AddEdge("b", "c", nil)

	s := Graph(g, false)
	if s.Nodes != 3 || s.Edges != 2 || !s.Directed || s.Positioned {
		t.Errorf("Graph() = %+v", s)
	}
	if s.NodeProperties != nil {
		t.Errorf("Graph() without details has properties: %v", s.NodeProperties)
	}

	s = Graph(g, true)
	if s.NodeProperties[graph.AttrColor] != 2 || s.NodeProperties[graph.AttrSize] != 2 {
		t.Errorf("NodeProperties = %v, want color 2, size 2", s.NodeProperties)
	}
	if s.EdgeProperties[graph.AttrColor] != 1 || len(s.EdgeProperties) != 1 {
		t.Errorf("EdgeProperties = %v, want color 1", s.EdgeProperties)
	}
}

func TestSortedCounts(t *testing.T) {
	rows := SortedCounts(map[string]int{"b": 2, "a": 2, "c": 5})
	want := []string{"c", "a", "b"}
	if len(rows) != len(want) {
		t.Fatalf("SortedCounts() = %v", rows)
	}
	for i, w := range want {
		if rows[i].Type != w {
			t.Errorf("rows[%d] = %s, want %s", i, rows[i].Type, w)
		}
	}
}
