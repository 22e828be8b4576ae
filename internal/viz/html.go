package viz

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/robert-haas/mevis/internal/graph"
)

// compiled templates are parsed at init time to fail fast on template errors.
var (
	cytoscapeTemplate *template.Template
	visTemplate       *template.Template
)

func init() {
	cytoscapeTemplate = template.Must(template.New("cytoscape").Parse(pageHead + cytoscapeBody))
	visTemplate = template.Must(template.New("vis").Parse(pageHead + visBody))
}

// GenerateHTML generates a self-contained HTML file for the graph visualization.
func GenerateHTML(g *graph.Graph, opts HTMLOptions) (string, error) {
	if g == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}
	if _, err := ParseBackend(string(opts.Backend)); err != nil {
		return "", err
	}
	if err := validateLayout(opts.Layout); err != nil {
		return "", err
	}

	if g.IsEmpty() {
		return generateEmptyHTML(opts.Title), nil
	}

	var (
		graphJSON string
		err       error
		tmpl      *template.Template
	)
	if opts.Backend == Vis {
		graphJSON, err = ToVisJSON(g)
		tmpl = visTemplate
	} else {
		graphJSON, err = ToCytoscapeJSON(g)
		tmpl = cytoscapeTemplate
	}
	if err != nil {
		return "", err
	}

	clickSource, _ := g.Attrs.String("node_click")
	data := templateData{
		Title:          titleOrDefault(opts.Title),
		ScriptURL:      opts.scriptURL(),
		GraphJSON:      template.JS(graphJSON),
		Layout:         layoutFor(opts.Backend, opts.Layout, g.HasPositions()),
		Directed:       g.Directed,
		ClickFromHover: clickSource == "$hover",
		ShowEdgeLabels: opts.ShowEdgeLabels,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// validateLayout checks if the layout option is valid.
func validateLayout(layout string) error {
	switch layout {
	case "", "force", "circle", "grid":
		return nil
	default:
		return fmt.Errorf("invalid layout %q: must be force, circle, or grid", layout)
	}
}

type templateData struct {
	Title          string
	ScriptURL      string
	GraphJSON      template.JS
	Layout         string
	Directed       bool
	ClickFromHover bool
	ShowEdgeLabels bool
}

func titleOrDefault(title string) string {
	if title == "" {
		return "mevis"
	}
	return title
}

// layoutFor converts user-friendly layout names to backend layout names.
// A graph that already has coordinates is drawn as placed.
func layoutFor(backend Backend, layout string, positioned bool) string {
	if backend == Vis {
		if positioned {
			return "preset"
		}
		return "physics"
	}
	if positioned {
		return "preset"
	}
	switch layout {
	case "circle":
		return "circle"
	case "grid":
		return "grid"
	default:
		return "cose"
	}
}

// generateEmptyHTML returns HTML for an empty graph state.
func generateEmptyHTML(title string) string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>` + template.HTMLEscapeString(titleOrDefault(title)) + ` - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state h2 {
      margin-bottom: 0.5em;
      color: #333;
    }
    .empty-state code {
      background: #e0e0e0;
      padding: 2px 6px;
      border-radius: 3px;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No graph data</h2>
    <p>The selection contains no atoms.</p>
    <p>Check the filter with <code>mevis filter</code></p>
  </div>
</body>
</html>`
}

const pageHead = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="{{.ScriptURL}}"></script>
  <style>
    * {
      box-sizing: border-box;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: #f5f5f5;
    }
    #graph {
      width: 100%;
      height: calc(100vh - 80px);
      background: white;
    }
    #details {
      height: 80px;
      overflow: auto;
      padding: 8px 12px;
      font-family: monospace;
      font-size: 12px;
      white-space: pre-wrap;
      border-top: 1px solid #ddd;
    }
    #tooltip {
      position: absolute;
      display: none;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 8px 12px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
      max-width: 400px;
      font-family: monospace;
      font-size: 12px;
      white-space: pre-wrap;
      z-index: 1000;
      pointer-events: none;
    }
  </style>
</head>
`

const cytoscapeBody = `<body>
  <div id="graph"></div>
  <div id="details"></div>
  <div id="tooltip"></div>
  <script>
    (function() {
      const graphData = {{.GraphJSON}};
      const layout = {{.Layout}};
      const clickFromHover = {{.ClickFromHover}};

      const cy = cytoscape({
        container: document.getElementById('graph'),
        elements: graphData,
        style: [
          {
            selector: 'node',
            style: {
              'background-color': 'black',
              'color': 'black',
              'font-size': '12px',
              'text-valign': 'bottom',
              'text-margin-y': '4px',
              'width': 10,
              'height': 10
            }
          },
          { selector: 'node[label]', style: { 'label': 'data(label)' } },
          { selector: 'node[color]', style: { 'background-color': 'data(color)' } },
          { selector: 'node[opacity]', style: { 'opacity': 'data(opacity)' } },
          { selector: 'node[size]', style: { 'width': 'data(size)', 'height': 'data(size)' } },
          { selector: 'node[shape]', style: { 'shape': 'data(shape)' } },
          { selector: 'node[border_color]', style: { 'border-color': 'data(border_color)' } },
          { selector: 'node[border_size]', style: { 'border-width': 'data(border_size)' } },
          { selector: 'node[label_color]', style: { 'color': 'data(label_color)' } },
          { selector: 'node[label_size]', style: { 'font-size': 'data(label_size)' } },
          { selector: 'node[image]', style: { 'background-image': 'data(image)', 'background-fit': 'cover' } },
          {
            selector: 'edge',
            style: {
              'line-color': 'black',
              'target-arrow-color': 'black',
              'target-arrow-shape': {{if .Directed}}'triangle'{{else}}'none'{{end}},
              'curve-style': 'bezier',
              'font-size': '8px',
              'width': 1
            }
          },
          { selector: 'edge[color]', style: { 'line-color': 'data(color)', 'target-arrow-color': 'data(color)' } },
          { selector: 'edge[opacity]', style: { 'opacity': 'data(opacity)' } },
          { selector: 'edge[size]', style: { 'width': 'data(size)' } },
          { selector: 'edge[label_color]', style: { 'color': 'data(label_color)' } },
          { selector: 'edge[label_size]', style: { 'font-size': 'data(label_size)' } },
          {{if .ShowEdgeLabels}}{ selector: 'edge[label]', style: { 'label': 'data(label)' } },{{end}}
          { selector: 'node.highlighted', style: { 'border-width': 3, 'border-color': '#ff6b6b' } },
          { selector: '.dimmed', style: { 'opacity': 0.25 } }
        ],
        layout: {
          name: layout,
          animate: false,
          nodeRepulsion: 8000,
          idealEdgeLength: 100,
          edgeElasticity: 100
        }
      });

      const tooltip = document.getElementById('tooltip');
      const details = document.getElementById('details');

      function showTooltip(evt, text) {
        if (!text) return;
        tooltip.textContent = text;
        tooltip.style.display = 'block';
        const pos = evt.renderedPosition || evt.position;
        tooltip.style.left = (pos.x + 15) + 'px';
        tooltip.style.top = (pos.y + 15) + 'px';
      }

      function hideTooltip() {
        tooltip.style.display = 'none';
      }

      function clickText(el, kind) {
        const data = el.data();
        let text = kind + ': ' + data.id;
        const body = data.click || (clickFromHover && kind === 'Node' ? data.hover : '');
        if (body) text += '\n\n' + body;
        return text;
      }

      cy.on('mouseover', 'node, edge', function(evt) {
        showTooltip(evt, evt.target.data('hover'));
      });
      cy.on('mouseout', 'node, edge', hideTooltip);

      cy.on('tap', 'node', function(evt) {
        const node = evt.target;
        cy.elements().removeClass('highlighted dimmed');
        const neighborhood = node.neighborhood().add(node);
        neighborhood.addClass('highlighted');
        cy.elements().not(neighborhood).addClass('dimmed');
        details.textContent = clickText(node, 'Node');
      });

      cy.on('tap', 'edge', function(evt) {
        details.textContent = clickText(evt.target, 'Edge');
      });

      cy.on('tap', function(evt) {
        if (evt.target === cy) {
          cy.elements().removeClass('highlighted dimmed');
          details.textContent = '';
        }
      });
    })();
  </script>
</body>
</html>`

const visBody = `<body>
  <div id="graph"></div>
  <div id="details"></div>
  <script>
    (function() {
      const graphData = {{.GraphJSON}};
      const layout = {{.Layout}};
      const clickFromHover = {{.ClickFromHover}};
      const showEdgeLabels = {{.ShowEdgeLabels}};

      if (!showEdgeLabels) {
        graphData.edges.forEach(function(e) { delete e.label; });
      }

      const nodes = new vis.DataSet(graphData.nodes);
      const edges = new vis.DataSet(graphData.edges);
      const network = new vis.Network(document.getElementById('graph'), { nodes: nodes, edges: edges }, {
        physics: { enabled: layout !== 'preset' },
        interaction: { hover: true, tooltipDelay: 100 },
        nodes: { size: 10, font: { size: 12 } },
        edges: { color: { color: 'black' }, smooth: false }
      });

      const details = document.getElementById('details');

      function clickText(item, kind) {
        let text = kind + ': ' + item.id;
        const body = item.click || (clickFromHover && kind === 'Node' ? item.title : '');
        if (body) text += '\n\n' + body;
        return text;
      }

      network.on('click', function(params) {
        if (params.nodes.length > 0) {
          details.textContent = clickText(nodes.get(params.nodes[0]), 'Node');
        } else if (params.edges.length > 0) {
          details.textContent = clickText(edges.get(params.edges[0]), 'Edge');
        } else {
          details.textContent = '';
        }
      });
    })();
  </script>
</body>
</html>`
