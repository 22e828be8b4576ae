// Package viz renders a property graph as a self-contained interactive HTML page.
package viz

import (
	"fmt"
	"strings"
)

// Backend names the JavaScript library that draws the graph.
type Backend string

const (
	Cytoscape Backend = "cytoscape"
	Vis       Backend = "vis"
)

// ValidBackends lists the supported backends.
var ValidBackends = []Backend{Cytoscape, Vis}

// ParseBackend validates a backend name. An empty name selects Cytoscape.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cytoscape", "cy":
		return Cytoscape, nil
	case "vis", "vis-network":
		return Vis, nil
	}
	return "", fmt.Errorf("invalid backend %q: must be cytoscape or vis", s)
}

// Default script locations.
const (
	CytoscapeCDN = "https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"
	VisCDN       = "https://unpkg.com/vis-network@9/standalone/umd/vis-network.min.js"
)

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Backend Backend
	Layout  string // "force", "circle", or "grid"; ignored when the graph has positions
	Title   string
	// ScriptURL overrides the CDN location of the backend library.
	ScriptURL string
	// ShowEdgeLabels draws edge labels when edges carry them.
	ShowEdgeLabels bool
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{
		Backend: Cytoscape,
		Layout:  "force",
		Title:   "mevis",
	}
}

// ValidLayouts lists the supported layout algorithm names.
var ValidLayouts = []string{"force", "circle", "grid"}

func (o HTMLOptions) scriptURL() string {
	if o.ScriptURL != "" {
		return o.ScriptURL
	}
	if o.Backend == Vis {
		return VisCDN
	}
	return CytoscapeCDN
}
