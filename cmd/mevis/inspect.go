package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/robert-haas/mevis/internal/convert"
	"github.com/robert-haas/mevis/internal/inspect"
	"github.com/spf13/cobra"
)

var (
	inspectInput   string
	inspectDetails bool
	inspectFilters filterFlags
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(24)
	valueStyle  = lipgloss.NewStyle().Bold(true)
	sectionBox  = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

func init() {
	inspectCmd.Flags().StringVarP(&inspectInput, "input", "i", "", "Input atom file (.scm, .jsonl, .db)")
	inspectCmd.Flags().BoolVarP(&inspectDetails, "details", "d", false, "Break counts down per type and annotation")
	inspectFilters.register(inspectCmd)
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarize an atom space and its graph",
	Long: `Count the atoms of a space (optionally after filtering) and the nodes
and edges of the graph they convert to.

Examples:
  mevis inspect -i atoms.scm
  mevis inspect -i atoms.scm --ft cat --fc both --details --human`,
	RunE: runInspect,
}

// InspectResult is the response for the inspect command.
type InspectResult struct {
	Atoms inspect.AtomStats  `json:"atoms"`
	Graph inspect.GraphStats `json:"graph"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	steps, err := inspectFilters.steps(cfg.FilterMode)
	exitOnError(err, "parsing filter")

	space := mustLoadSpace(inspectInput)
	sel, err := runFilters(space, steps)
	exitOnError(err, "filtering")

	g, err := convert.Build(space, sel)
	exitOnError(err, "converting")

	result := InspectResult{
		Atoms: inspect.Atoms(selectedAtoms(space, sel), inspectDetails),
		Graph: inspect.Graph(g, inspectDetails),
	}
	if !humanOutput {
		return outputJSON(result)
	}
	fmt.Println(renderInspect(result))
	return nil
}

func renderInspect(r InspectResult) string {
	var atoms strings.Builder
	atoms.WriteString(headerStyle.Render("Atoms") + "\n")
	writeRow(&atoms, "atoms", r.Atoms.Atoms)
	writeRow(&atoms, "nodes", r.Atoms.Nodes)
	writeRow(&atoms, "links", r.Atoms.Links)
	for _, tc := range inspect.SortedCounts(r.Atoms.NodeTypes) {
		writeRow(&atoms, "  "+tc.Type, tc.Count)
	}
	for _, tc := range inspect.SortedCounts(r.Atoms.LinkTypes) {
		writeRow(&atoms, "  "+tc.Type, tc.Count)
	}

	var g strings.Builder
	g.WriteString(headerStyle.Render("Graph") + "\n")
	writeRow(&g, "nodes", r.Graph.Nodes)
	writeRow(&g, "edges", r.Graph.Edges)
	writeProperties(&g, "node", r.Graph.NodeProperties)
	writeProperties(&g, "edge", r.Graph.EdgeProperties)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sectionBox.Render(strings.TrimRight(atoms.String(), "\n")),
		" ",
		sectionBox.Render(strings.TrimRight(g.String(), "\n")),
	)
}

func writeRow(b *strings.Builder, key string, n int) {
	b.WriteString(keyStyle.Render(key) + valueStyle.Render(humanize.Comma(int64(n))) + "\n")
}

func writeProperties(b *strings.Builder, kind string, props map[string]int) {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeRow(b, fmt.Sprintf("  %s %s values", kind, k), props[k])
	}
}
