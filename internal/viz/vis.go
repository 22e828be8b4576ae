package viz

import (
	"encoding/json"
	"fmt"

	"github.com/robert-haas/mevis/internal/graph"
)

// VisData represents the vis-network DataSet input.
type VisData struct {
	Nodes []map[string]any `json:"nodes"`
	Edges []map[string]any `json:"edges"`
}

var visShapes = map[string]string{
	"circle":    "dot",
	"rectangle": "square",
	"hexagon":   "hexagon",
}

// ToVisData converts a graph to vis-network nodes and edges.
func ToVisData(g *graph.Graph) VisData {
	data := VisData{
		Nodes: make([]map[string]any, 0, len(g.Nodes)),
		Edges: make([]map[string]any, 0, len(g.Edges)),
	}

	for _, n := range g.Nodes {
		node := map[string]any{"id": n.ID, "shape": "dot"}
		a := n.Attrs
		if v, ok := a.String(graph.AttrLabel); ok {
			node["label"] = v
		}
		if v, ok := a.String(graph.AttrShape); ok {
			if shape, known := visShapes[v]; known {
				node["shape"] = shape
			}
		}
		if v, ok := a.String(graph.AttrImage); ok {
			node["shape"] = "circularImage"
			node["image"] = v
		}
		if v, ok := a.Number(graph.AttrSize); ok {
			node["size"] = v
		}
		if v, ok := a.Number(graph.AttrOpacity); ok {
			node["opacity"] = v
		}
		if v, ok := a.Number(graph.AttrBorderSize); ok {
			node["borderWidth"] = v
		}
		color := map[string]any{}
		if v, ok := a.String(graph.AttrColor); ok {
			color["background"] = v
			color["border"] = v
		}
		if v, ok := a.String(graph.AttrBorderColor); ok {
			color["border"] = v
		}
		if len(color) > 0 {
			node["color"] = color
		}
		if f := visFont(a); f != nil {
			node["font"] = f
		}
		if v, ok := a.String(graph.AttrHover); ok {
			node["title"] = v
		}
		if v, ok := a.String(graph.AttrClick); ok {
			node["click"] = v
		}
		if x, y, ok := nodePosition(n); ok {
			node["x"], node["y"] = x, y
		}
		data.Nodes = append(data.Nodes, node)
	}

	for i, e := range g.Edges {
		edge := map[string]any{
			"id":   edgeID(e.Source, e.Target, i),
			"from": e.Source,
			"to":   e.Target,
		}
		a := e.Attrs
		if g.Directed {
			edge["arrows"] = "to"
		}
		if v, ok := a.String(graph.AttrLabel); ok {
			edge["label"] = v
		}
		if v, ok := a.String(graph.AttrColor); ok {
			edge["color"] = map[string]any{"color": v}
		}
		if v, ok := a.Number(graph.AttrOpacity); ok {
			c, _ := edge["color"].(map[string]any)
			if c == nil {
				c = map[string]any{}
			}
			c["opacity"] = v
			edge["color"] = c
		}
		if v, ok := a.Number(graph.AttrSize); ok {
			edge["width"] = v
		}
		if f := visFont(a); f != nil {
			edge["font"] = f
		}
		if v, ok := a.String(graph.AttrHover); ok {
			edge["title"] = v
		}
		if v, ok := a.String(graph.AttrClick); ok {
			edge["click"] = v
		}
		data.Edges = append(data.Edges, edge)
	}

	return data
}

func visFont(a graph.Attrs) map[string]any {
	font := map[string]any{}
	if v, ok := a.String(graph.AttrLabelColor); ok {
		font["color"] = v
	}
	if v, ok := a.Number(graph.AttrLabelSize); ok {
		font["size"] = v
	}
	if len(font) == 0 {
		return nil
	}
	return font
}

// ToVisJSON converts a graph to vis-network JSON.
func ToVisJSON(g *graph.Graph) (string, error) {
	jsonBytes, err := json.Marshal(ToVisData(g))
	if err != nil {
		return "", fmt.Errorf("marshaling vis data to JSON: %w", err)
	}
	return string(jsonBytes), nil
}
