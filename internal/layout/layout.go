// Package layout computes 2D coordinates for graph vertices.
package layout

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/robert-haas/mevis/internal/graph"
)

// Method names a layout algorithm.
type Method string

const (
	Eades     Method = "eades"
	Isomap    Method = "isomap"
	Circular  Method = "circular"
	Grid      Method = "grid"
	Spiral    Method = "spiral"
	Bipartite Method = "bipartite"
	Shell     Method = "shell"
	Random    Method = "random"
)

// Methods lists every supported layout.
var Methods = []Method{Eades, Isomap, Circular, Grid, Spiral, Bipartite, Shell, Random}

// ErrUnknownMethod is returned by ParseMethod for unsupported names.
var ErrUnknownMethod = errors.New("unknown layout method")

// ErrDisconnected is returned by methods that need a connected graph.
var ErrDisconnected = errors.New("graph is not connected")

var aliases = map[string]Method{
	"force":  Eades,
	"spring": Eades,
	"circle": Circular,
}

// ParseMethod resolves a method name, accepting a few common aliases.
func ParseMethod(s string) (Method, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, m := range Methods {
		if string(m) == name {
			return m, nil
		}
	}
	if m, ok := aliases[name]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w %q: must be one of %s", ErrUnknownMethod, s, methodList())
}

func methodList() string {
	names := make([]string, len(Methods))
	for i, m := range Methods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// Options controls post-processing of raw coordinates.
type Options struct {
	ScaleX, ScaleY   float64
	MirrorX, MirrorY bool
	CenterX, CenterY bool
	// Seed drives the random and force-directed methods.
	Seed uint64
}

// DefaultOptions centers the layout and mirrors y so that it reads top-down
// in screen coordinates.
func DefaultOptions() Options {
	return Options{
		ScaleX:  1,
		ScaleY:  1,
		MirrorY: true,
		CenterX: true,
		CenterY: true,
		Seed:    1,
	}
}

// unitScale stretches unit-sized layouts to a size that renders well
// without further scaling.
const unitScale = 300

// Apply computes a layout for g and stores the coordinates on its nodes.
func Apply(g *graph.Graph, m Method, opts Options) error {
	if g.IsEmpty() {
		return nil
	}

	pos, err := compute(g, m, opts)
	if err != nil {
		return err
	}

	for i := range pos {
		pos[i] = r2.Scale(unitScale, pos[i])
	}
	shift := centerShift(pos, opts.CenterX, opts.CenterY)
	signX, signY := 1.0, 1.0
	if opts.MirrorX {
		signX = -1
	}
	if opts.MirrorY {
		signY = -1
	}
	for i, n := range g.Nodes {
		p := r2.Add(pos[i], shift)
		g.SetPosition(n.ID, p.X*opts.ScaleX*signX, p.Y*opts.ScaleY*signY)
	}
	return nil
}

func compute(g *graph.Graph, m Method, opts Options) ([]r2.Vec, error) {
	n := len(g.Nodes)
	switch m {
	case Eades:
		return rescale(eades(g, opts.Seed)), nil
	case Isomap:
		pos, err := isomap(g)
		if err != nil {
			return nil, err
		}
		return rescale(pos), nil
	case Circular:
		return circular(n), nil
	case Grid:
		return rescale(grid(n)), nil
	case Spiral:
		return rescale(spiral(n, 0.35)), nil
	case Bipartite:
		return rescale(bipartite(colorGroups(g))), nil
	case Shell:
		return shell(colorShells(g)), nil
	case Random:
		return random(n, opts.Seed), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownMethod, m)
}

// centerShift moves the extreme values to equal distance from zero.
func centerShift(pos []r2.Vec, centerX, centerY bool) r2.Vec {
	if len(pos) == 0 || (!centerX && !centerY) {
		return r2.Vec{}
	}
	lo, hi := bounds(pos)
	var shift r2.Vec
	if centerX {
		shift.X = -lo.X - (hi.X-lo.X)/2
	}
	if centerY {
		shift.Y = -lo.Y - (hi.Y-lo.Y)/2
	}
	return shift
}

func bounds(pos []r2.Vec) (lo, hi r2.Vec) {
	lo = r2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	hi = r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range pos {
		lo.X, hi.X = math.Min(lo.X, p.X), math.Max(hi.X, p.X)
		lo.Y, hi.Y = math.Min(lo.Y, p.Y), math.Max(hi.Y, p.Y)
	}
	return lo, hi
}

// rescale subtracts the mean and scales so the largest absolute
// coordinate is 1.
func rescale(pos []r2.Vec) []r2.Vec {
	if len(pos) == 0 {
		return pos
	}
	var mean r2.Vec
	for _, p := range pos {
		mean = r2.Add(mean, p)
	}
	mean = r2.Scale(1/float64(len(pos)), mean)

	limit := 0.0
	out := make([]r2.Vec, len(pos))
	for i, p := range pos {
		out[i] = r2.Sub(p, mean)
		limit = math.Max(limit, math.Max(math.Abs(out[i].X), math.Abs(out[i].Y)))
	}
	if limit > 0 {
		for i := range out {
			out[i] = r2.Scale(1/limit, out[i])
		}
	}
	return out
}

// colorGroups splits node indices into those sharing the first node's
// color and the rest.
func colorGroups(g *graph.Graph) (first, rest []int) {
	if len(g.Nodes) == 0 {
		return nil, nil
	}
	key := g.Nodes[0].Attrs[graph.AttrColor]
	for i, n := range g.Nodes {
		if n.Attrs[graph.AttrColor] == key {
			first = append(first, i)
		} else {
			rest = append(rest, i)
		}
	}
	return first, rest
}

func colorShells(g *graph.Graph) [][]int {
	first, rest := colorGroups(g)
	shells := [][]int{first}
	if len(rest) > 0 {
		shells = append(shells, rest)
	}
	return shells
}

// sortedIndex returns node indices ordered by ID for deterministic seeding.
func sortedIndex(g *graph.Graph) []int {
	idx := make([]int, len(g.Nodes))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return g.Nodes[idx[a]].ID < g.Nodes[idx[b]].ID })
	return idx
}
