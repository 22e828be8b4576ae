package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/robert-haas/mevis/internal/graph"
)

// gmlKey matches keys GML readers accept.
var gmlKey = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// WriteGML writes g in Graph Modelling Language. Vertices get integer ids
// and carry their atom ID as "label"; the annotation label is written as
// "name" since GML reserves "label". Coordinates appear both as x/y and
// in a graphics block.
func WriteGML(w io.Writer, g *graph.Graph) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("graph [\n")
	if g.Directed {
		bw.WriteString("  directed 1\n")
	}
	for _, k := range g.Attrs.Keys() {
		writeGMLAttr(bw, "  ", k, g.Attrs[k])
	}

	ids := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[n.ID] = i
		bw.WriteString("  node [\n")
		fmt.Fprintf(bw, "    id %d\n", i)
		fmt.Fprintf(bw, "    label %s\n", gmlString(n.ID))
		for _, k := range n.Attrs.Keys() {
			key := k
			if k == graph.AttrLabel {
				key = "name"
			}
			if key == "id" || (n.X != nil && (k == graph.AttrX || k == graph.AttrY)) {
				continue
			}
			writeGMLAttr(bw, "    ", key, n.Attrs[k])
		}
		if n.X != nil && n.Y != nil {
			fmt.Fprintf(bw, "    x %s\n", gmlFloat(*n.X))
			fmt.Fprintf(bw, "    y %s\n", gmlFloat(*n.Y))
			fmt.Fprintf(bw, "    graphics [\n      x %s\n      y %s\n    ]\n", gmlFloat(*n.X), gmlFloat(*n.Y))
		}
		bw.WriteString("  ]\n")
	}

	for _, e := range g.Edges {
		bw.WriteString("  edge [\n")
		fmt.Fprintf(bw, "    source %d\n", ids[e.Source])
		fmt.Fprintf(bw, "    target %d\n", ids[e.Target])
		for _, k := range e.Attrs.Keys() {
			if k == "source" || k == "target" {
				continue
			}
			writeGMLAttr(bw, "    ", k, e.Attrs[k])
		}
		bw.WriteString("  ]\n")
	}
	bw.WriteString("]\n")

	return bw.Flush()
}

func writeGMLAttr(w *bufio.Writer, indent, key string, value any) {
	if !gmlKey.MatchString(key) {
		return
	}
	var v string
	switch x := value.(type) {
	case nil:
		return
	case string:
		v = gmlString(x)
	case bool:
		v = "0"
		if x {
			v = "1"
		}
	case int:
		v = strconv.Itoa(x)
	case int64:
		v = strconv.FormatInt(x, 10)
	case float64:
		v = gmlFloat(x)
	case float32:
		v = gmlFloat(float64(x))
	default:
		v = gmlString(fmt.Sprint(x))
	}
	fmt.Fprintf(w, "%s%s %s\n", indent, key, v)
}

// gmlString quotes s, escaping quotes, ampersands and non-ASCII runes as
// HTML character references.
func gmlString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			b.WriteString("&quot;")
		case r == '&':
			b.WriteString("&amp;")
		case r > 127 || r < 32:
			fmt.Fprintf(&b, "&#%d;", r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func gmlFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "+INF"
	case math.IsInf(f, -1):
		return "-INF"
	case math.IsNaN(f):
		return "NAN"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
