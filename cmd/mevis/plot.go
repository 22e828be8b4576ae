package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/robert-haas/mevis/internal/atom"
	"github.com/robert-haas/mevis/internal/convert"
	"github.com/robert-haas/mevis/internal/expand"
	"github.com/robert-haas/mevis/internal/export"
	"github.com/robert-haas/mevis/internal/graph"
	"github.com/robert-haas/mevis/internal/layout"
	"github.com/robert-haas/mevis/internal/viz"
	"github.com/spf13/cobra"
)

var (
	plotInput       string
	plotOutput      string
	plotForce       bool
	plotBackend     string
	plotLayout      string
	plotHTMLLayout  string
	plotTitle       string
	plotUnannotated bool
	plotUndirected  bool
	plotEdgeLabels  bool
	plotScale       float64
	plotMirrorX     bool
	plotSeed        uint64
	plotFilters     filterFlags
	plotAnnotations annotationFlags
)

func init() {
	f := plotCmd.Flags()
	f.StringVarP(&plotInput, "input", "i", "", "Input atom file (.scm, .jsonl, .db)")
	f.StringVarP(&plotOutput, "output", "o", "", "Output file (.html, .gml, .gml.gz, .dot, .json; default: HTML to stdout)")
	f.BoolVarP(&plotForce, "force", "f", false, "Overwrite an existing output file")
	f.StringVarP(&plotBackend, "backend", "b", "", "HTML backend: cytoscape or vis")
	f.StringVarP(&plotLayout, "layout", "l", "", "Compute coordinates: "+methodNames())
	f.StringVar(&plotHTMLLayout, "html-layout", "", "Backend layout when no coordinates are computed: force, circle, grid")
	f.StringVar(&plotTitle, "title", "", "Page title")
	f.BoolVar(&plotUnannotated, "gua", false, "Graph unannotated: skip every annotation")
	f.BoolVar(&plotUndirected, "gud", false, "Graph undirected")
	f.BoolVar(&plotEdgeLabels, "edge-labels", false, "Show edge labels in HTML output")
	f.Float64Var(&plotScale, "scale", 1, "Scale factor applied to computed coordinates")
	f.BoolVar(&plotMirrorX, "mirror-x", false, "Mirror computed coordinates horizontally")
	f.Uint64Var(&plotSeed, "seed", 1, "Seed for randomized layouts")
	plotFilters.register(plotCmd)
	plotAnnotations.register(plotCmd)
	rootCmd.AddCommand(plotCmd)
}

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render an atom space as HTML or a graph file",
	Long: `Load an atom space, filter it, convert it to a property graph and
render it as an interactive HTML page or export it as a graph file.

Annotations take a constant or a Go template over the atom, e.g.
  --nc red
  --nl '{{.Type}}'
  --ns '{{if .IsLink}}5{{else}}15{{end}}'
Edge templates see .Source and .Target.

Examples:
  # Whole space as HTML to stdout
  mevis plot -i atoms.scm > atoms.html

  # Neighborhood of "cat" with a computed layout
  mevis plot -i atoms.scm --ft cat --fc both:2 -l eades -o cat.html

  # Everything except evaluation links, as GML
  mevis plot -i atoms.scm --ft type:EvaluationLink --fm exclude -o out.gml`,
	RunE: runPlot,
}

func methodNames() string {
	names := make([]string, len(layout.Methods))
	for i, m := range layout.Methods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

func runPlot(cmd *cobra.Command, args []string) error {
	steps, err := plotFilters.steps(cfg.FilterMode)
	exitOnError(err, "parsing filter")
	opts, err := plotAnnotations.options()
	exitOnError(err, "parsing annotations")

	if plotUnannotated || !cfg.IsAnnotated() {
		opts = append(opts, convert.Unannotated())
	}
	if plotUndirected || !cfg.IsDirected() {
		opts = append(opts, convert.Undirected())
	}

	outPath := plotOutput
	htmlOut := outPath == "" || strings.EqualFold(filepath.Ext(outPath), ".html") || strings.EqualFold(filepath.Ext(outPath), ".htm")
	if !htmlOut {
		_, err := export.DetectFormat(outPath)
		exitOnError(err, "output")
	}
	if outPath != "" {
		exitOnError(export.CheckOverwrite(outPath, plotForce), "output")
	}

	space := mustLoadSpace(plotInput)
	sel, err := runFilters(space, steps)
	exitOnError(err, "filtering")

	g, err := convert.Build(space, sel, opts...)
	exitOnError(err, "converting")
	slog.Debug("converted", "nodes", len(g.Nodes), "edges", len(g.Edges))

	if err := applyLayout(g); err != nil {
		exitOnError(err, "layout")
	}

	if !htmlOut {
		size, err := export.Export(g, outPath, plotForce)
		exitOnError(err, "exporting")
		format, _ := export.DetectFormat(outPath)
		return reportWrite(outPath, string(format), size, g)
	}

	html, err := renderHTML(g)
	exitOnError(err, "rendering")
	if outPath == "" {
		fmt.Print(html)
		return nil
	}
	size, err := export.WriteFile(outPath, []byte(html), plotForce)
	exitOnError(err, "writing")
	return reportWrite(outPath, "html", size, g)
}

func applyLayout(g *graph.Graph) error {
	name := plotLayout
	if name == "" {
		name = cfg.Layout
	}
	if name == "" {
		return nil
	}
	m, err := layout.ParseMethod(name)
	if err != nil {
		return err
	}
	lo := layout.DefaultOptions()
	lo.ScaleX, lo.ScaleY = plotScale, plotScale
	lo.MirrorX = plotMirrorX
	lo.Seed = plotSeed
	if err := layout.Apply(g, m, lo); err != nil {
		return err
	}
	slog.Debug("layout", "method", string(m), "nodes", len(g.Nodes))
	return nil
}

func renderHTML(g *graph.Graph) (string, error) {
	backendName := plotBackend
	if backendName == "" {
		backendName = cfg.Backend
	}
	backend, err := viz.ParseBackend(backendName)
	if err != nil {
		return "", err
	}

	opts := viz.DefaultOptions()
	opts.Backend = backend
	opts.ScriptURL = cfg.ScriptURL
	opts.ShowEdgeLabels = plotEdgeLabels
	if plotTitle != "" {
		opts.Title = plotTitle
	}
	switch {
	case plotHTMLLayout != "":
		opts.Layout = plotHTMLLayout
	case cfg.HTMLLayout != "":
		opts.Layout = cfg.HTMLLayout
	}
	return viz.GenerateHTML(g, opts)
}

func reportWrite(path, format string, size int64, g *graph.Graph) error {
	slog.Debug("wrote", "path", path, "size", humanize.Bytes(uint64(size)))
	if humanOutput {
		outputHuman("Wrote %s (%s, %s nodes, %s edges)\n", path, humanize.Bytes(uint64(size)),
			humanize.Comma(int64(len(g.Nodes))), humanize.Comma(int64(len(g.Edges))))
		return nil
	}
	return outputJSON(WriteResponse{
		Output: path,
		Format: format,
		Bytes:  size,
		Nodes:  len(g.Nodes),
		Edges:  len(g.Edges),
	})
}

// annotationFlags maps the short annotation flags to annotation keys.
type annotationFlags struct {
	node       map[string]*string
	edge       map[string]*string
	properties string
}

var nodeAnnotationFlags = []struct{ flag, key string }{
	{"nl", graph.AttrLabel},
	{"nc", graph.AttrColor},
	{"no", graph.AttrOpacity},
	{"ns", graph.AttrSize},
	{"nsh", graph.AttrShape},
	{"nbc", graph.AttrBorderColor},
	{"nbs", graph.AttrBorderSize},
	{"nlc", graph.AttrLabelColor},
	{"nls", graph.AttrLabelSize},
	{"nh", graph.AttrHover},
	{"ncl", graph.AttrClick},
	{"ni", graph.AttrImage},
}

var edgeAnnotationFlags = []struct{ flag, key string }{
	{"el", graph.AttrLabel},
	{"ec", graph.AttrColor},
	{"eo", graph.AttrOpacity},
	{"es", graph.AttrSize},
	{"elc", graph.AttrLabelColor},
	{"els", graph.AttrLabelSize},
	{"eh", graph.AttrHover},
	{"ecl", graph.AttrClick},
}

func (a *annotationFlags) register(cmd *cobra.Command) {
	a.node = make(map[string]*string)
	a.edge = make(map[string]*string)
	for _, f := range nodeAnnotationFlags {
		a.node[f.key] = cmd.Flags().String(f.flag, "", "Node "+strings.ReplaceAll(f.key, "_", " "))
	}
	for _, f := range edgeAnnotationFlags {
		a.edge[f.key] = cmd.Flags().String(f.flag, "", "Edge "+strings.ReplaceAll(f.key, "_", " "))
	}
	cmd.Flags().StringVar(&a.properties, "np", "", `Node properties: "tv" or key=value,...`)
}

// options turns the set annotation flags into convert options. Unset flags
// keep the defaults.
func (a *annotationFlags) options() ([]convert.Option, error) {
	var opts []convert.Option
	for _, f := range nodeAnnotationFlags {
		v := a.node[f.key]
		if v == nil || *v == "" {
			continue
		}
		fn, err := convert.ParseNodeValue(f.key, *v)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", f.flag, err)
		}
		opts = append(opts, convert.WithNode(f.key, fn))
	}
	for _, f := range edgeAnnotationFlags {
		v := a.edge[f.key]
		if v == nil || *v == "" {
			continue
		}
		fn, err := convert.ParseEdgeValue(f.key, *v)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", f.flag, err)
		}
		opts = append(opts, convert.WithEdge(f.key, fn))
	}
	if a.properties != "" {
		fn, err := convert.ParseProperties(a.properties)
		if err != nil {
			return nil, fmt.Errorf("--np: %w", err)
		}
		opts = append(opts, convert.WithProperties(fn))
	}
	return opts, nil
}

// selectedAtoms returns the atoms of sel in ID order.
func selectedAtoms(space *atom.Space, sel expand.Selection) []*atom.Atom {
	return expand.Materialize(space, sel)
}
