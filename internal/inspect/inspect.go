// Package inspect summarizes atom collections and property graphs.
package inspect

import (
	"fmt"
	"sort"

	"github.com/robert-haas/mevis/internal/atom"
	"github.com/robert-haas/mevis/internal/graph"
)

// AtomStats counts the atoms of a collection.
type AtomStats struct {
	Atoms     int            `json:"atoms"`
	Nodes     int            `json:"nodes"`
	Links     int            `json:"links"`
	NodeTypes map[string]int `json:"node_types,omitempty"`
	LinkTypes map[string]int `json:"link_types,omitempty"`
}

// Atoms counts atoms, nodes and links. With details the counts are also
// broken down per type.
func Atoms(atoms []*atom.Atom, details bool) AtomStats {
	var s AtomStats
	if details {
		s.NodeTypes = make(map[string]int)
		s.LinkTypes = make(map[string]int)
	}
	for _, a := range atoms {
		s.Atoms++
		if a.IsLink() {
			s.Links++
			if details {
				s.LinkTypes[string(a.Type)]++
			}
			continue
		}
		s.Nodes++
		if details {
			s.NodeTypes[string(a.Type)]++
		}
	}
	return s
}

// GraphStats counts the elements of a graph. With details, every
// annotation key maps to the number of distinct values it takes.
type GraphStats struct {
	Nodes          int            `json:"nodes"`
	Edges          int            `json:"edges"`
	Directed       bool           `json:"directed"`
	Positioned     bool           `json:"positioned"`
	NodeProperties map[string]int `json:"node_properties,omitempty"`
	EdgeProperties map[string]int `json:"edge_properties,omitempty"`
}

// Graph summarizes g.
func Graph(g *graph.Graph, details bool) GraphStats {
	s := GraphStats{
		Nodes:      len(g.Nodes),
		Edges:      len(g.Edges),
		Directed:   g.Directed,
		Positioned: g.HasPositions(),
	}
	if !details {
		return s
	}

	nodeAttrs := make([]graph.Attrs, len(g.Nodes))
	for i, n := range g.Nodes {
		nodeAttrs[i] = n.Attrs
	}
	edgeAttrs := make([]graph.Attrs, len(g.Edges))
	for i, e := range g.Edges {
		edgeAttrs[i] = e.Attrs
	}
	s.NodeProperties = distinctValues(nodeAttrs)
	s.EdgeProperties = distinctValues(edgeAttrs)
	return s
}

func distinctValues(attrs []graph.Attrs) map[string]int {
	seen := make(map[string]map[string]struct{})
	for _, a := range attrs {
		for k, v := range a {
			if seen[k] == nil {
				seen[k] = make(map[string]struct{})
			}
			seen[k][fmt.Sprint(v)] = struct{}{}
		}
	}
	counts := make(map[string]int, len(seen))
	for k, values := range seen {
		counts[k] = len(values)
	}
	return counts
}

// TypeCount is one row of a per-type breakdown.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// SortedCounts orders a count map by descending count, then by name.
func SortedCounts(counts map[string]int) []TypeCount {
	rows := make([]TypeCount, 0, len(counts))
	for t, n := range counts {
		rows = append(rows, TypeCount{Type: t, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Type < rows[j].Type
	})
	return rows
}
