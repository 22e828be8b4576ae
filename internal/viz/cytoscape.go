package viz

import (
	"encoding/json"
	"fmt"

	"github.com/robert-haas/mevis/internal/graph"
)

// CytoscapeElements represents the Cytoscape.js data format.
type CytoscapeElements struct {
	Nodes []CytoscapeNode `json:"nodes"`
	Edges []CytoscapeEdge `json:"edges"`
}

// CytoscapeNode represents a node in Cytoscape.js format.
type CytoscapeNode struct {
	Data     map[string]any     `json:"data"`
	Position *CytoscapePosition `json:"position,omitempty"`
}

// CytoscapePosition is a preset node position.
type CytoscapePosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CytoscapeEdge represents an edge in Cytoscape.js format.
type CytoscapeEdge struct {
	Data map[string]any `json:"data"`
}

// cytoscapeShapes maps annotation shapes to Cytoscape.js shape names.
var cytoscapeShapes = map[string]string{
	"circle":    "ellipse",
	"rectangle": "rectangle",
	"hexagon":   "hexagon",
}

// ToCytoscapeElements converts a graph to Cytoscape.js elements. Annotation
// keys are copied into each element's data; "shape" is translated to the
// Cytoscape name and "id", "source", "target" are reserved.
func ToCytoscapeElements(g *graph.Graph) CytoscapeElements {
	elements := CytoscapeElements{
		Nodes: make([]CytoscapeNode, 0, len(g.Nodes)),
		Edges: make([]CytoscapeEdge, 0, len(g.Edges)),
	}

	for _, n := range g.Nodes {
		data := copyAttrs(n.Attrs)
		data["id"] = n.ID
		if shape, ok := n.Attrs.String(graph.AttrShape); ok {
			if cy, known := cytoscapeShapes[shape]; known {
				data[graph.AttrShape] = cy
			}
		}
		node := CytoscapeNode{Data: data}
		if x, y, ok := nodePosition(n); ok {
			node.Position = &CytoscapePosition{X: x, Y: y}
		}
		elements.Nodes = append(elements.Nodes, node)
	}

	for i, e := range g.Edges {
		data := copyAttrs(e.Attrs)
		data["id"] = edgeID(e.Source, e.Target, i)
		data["source"] = e.Source
		data["target"] = e.Target
		elements.Edges = append(elements.Edges, CytoscapeEdge{Data: data})
	}

	return elements
}

// ToCytoscapeJSON converts a graph to Cytoscape.js JSON format.
func ToCytoscapeJSON(g *graph.Graph) (string, error) {
	jsonBytes, err := json.Marshal(ToCytoscapeElements(g))
	if err != nil {
		return "", fmt.Errorf("marshaling Cytoscape elements to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// nodePosition returns layout coordinates, falling back to numeric "x"
// and "y" properties set during conversion.
func nodePosition(n graph.Node) (float64, float64, bool) {
	if n.X != nil && n.Y != nil {
		return *n.X, *n.Y, true
	}
	x, okX := n.Attrs.Number(graph.AttrX)
	y, okY := n.Attrs.Number(graph.AttrY)
	return x, y, okX && okY
}

func copyAttrs(attrs graph.Attrs) map[string]any {
	data := make(map[string]any, len(attrs)+3)
	for k, v := range attrs {
		data[k] = v
	}
	return data
}

// edgeID generates a unique edge ID for the current visualization session.
// IDs are based on slice position and are not stable across different graph builds.
func edgeID(source, target string, index int) string {
	return fmt.Sprintf("%s-%s-%d", source, target, index)
}
