package atomese

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/robert-haas/mevis/internal/atom"
)

// Write renders every root atom of space (one with no incoming links) as a
// top-level Atomese expression, in ID order.
func Write(w io.Writer, space *atom.Space) error {
	bw := bufio.NewWriter(w)
	lookup := space.Lookup()
	for _, a := range space.All() {
		if len(space.Incoming(a.ID)) > 0 {
			continue
		}
		if _, err := bw.WriteString(Format(a, lookup)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Format renders a single atom with its outgoing set expanded and nested
// links indented by four spaces per level.
func Format(a *atom.Atom, lookup atom.Lookup) string {
	var sb strings.Builder
	format(&sb, a, lookup, 0)
	return sb.String()
}

func format(sb *strings.Builder, a *atom.Atom, lookup atom.Lookup, depth int) {
	sb.WriteString(strings.Repeat("    ", depth))
	sb.WriteByte('(')
	sb.WriteString(string(a.Type))
	if a.IsNode() {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(a.Name))
	}
	if a.TV != nil {
		fmt.Fprintf(sb, " (stv %s %s)", formatFloat(a.TV.Mean), formatFloat(a.TV.Confidence))
	}
	for _, id := range a.Outgoing {
		sb.WriteByte('\n')
		child, ok := lookup(id)
		if !ok {
			sb.WriteString(strings.Repeat("    ", depth+1))
			fmt.Fprintf(sb, "; missing %s\n", id)
			continue
		}
		format(sb, child, lookup, depth+1)
	}
	sb.WriteByte(')')
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
