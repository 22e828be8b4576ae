package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNodeMergesAttrs(t *testing.T) {
	g := New(true)
	g.AddNode("a", Attrs{AttrLabel: "A"})
	g.AddNode("a", Attrs{AttrColor: "red"})
	g.AddNode("b", nil)

	require.Len(t, g.Nodes, 2)
	n, ok := g.Node("a")
	require.True(t, ok)
	assert.Equal(t, Attrs{AttrLabel: "A", AttrColor: "red"}, n.Attrs)

	b, _ := g.Node("b")
	assert.NotNil(t, b.Attrs)
}

func TestAddEdge(t *testing.T) {
	tests := []struct {
		name     string
		directed bool
		reverse  bool
	}{
		{"directed keeps both directions", true, true},
		{"undirected collapses reverse", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.directed)
			g.AddNode("a", nil)
			g.AddNode("b", nil)

			assert.True(t, g.AddEdge("a", "b", nil))
			assert.False(t, g.AddEdge("a", "b", nil), "duplicate edge")
			assert.Equal(t, tt.reverse, g.AddEdge("b", "a", nil))
			assert.False(t, g.AddEdge("a", "missing", nil))
			assert.True(t, g.HasEdge("a", "b"))
		})
	}
}

func TestPositions(t *testing.T) {
	g := New(false)
	assert.False(t, g.HasPositions(), "empty graph has no layout")

	g.AddNode("a", nil)
	g.AddNode("b", nil)
	assert.True(t, g.SetPosition("a", 1, 2))
	assert.False(t, g.HasPositions())
	assert.True(t, g.SetPosition("b", -1, 0))
	assert.True(t, g.HasPositions())
	assert.False(t, g.SetPosition("c", 0, 0))

	a, _ := g.Node("a")
	assert.Equal(t, 1.0, *a.X)
	assert.Equal(t, 2.0, *a.Y)
}

func TestHandBuiltGraph(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "x"}, {ID: "y"}},
		Edges: []Edge{{Source: "x", Target: "y"}},
	}

	i, ok := g.NodeIndex("y")
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.True(t, g.HasEdge("x", "y"))
	assert.False(t, g.AddEdge("x", "y", nil))
}

func TestAttrs(t *testing.T) {
	a := Attrs{"s": "text", "f": 1.5, "i": 3, "b": true}

	s, ok := a.String("s")
	assert.True(t, ok)
	assert.Equal(t, "text", s)
	_, ok = a.String("f")
	assert.False(t, ok)

	f, ok := a.Number("i")
	assert.True(t, ok)
	assert.Equal(t, 3.0, f)
	_, ok = a.Number("b")
	assert.False(t, ok)

	assert.Equal(t, []string{"b", "f", "i", "s"}, a.Keys())
}
