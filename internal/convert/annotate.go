package convert

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/robert-haas/mevis/internal/atom"
	"github.com/robert-haas/mevis/internal/graph"
)

// ConstString annotates every vertex with the same string.
func ConstString(v string) NodeFunc {
	return func(*atom.Atom) any { return v }
}

// ConstNumber annotates every vertex with the same number.
func ConstNumber(v float64) NodeFunc {
	return func(*atom.Atom) any { return v }
}

// EdgeConstString annotates every edge with the same string.
func EdgeConstString(v string) EdgeFunc {
	return func(_, _ *atom.Atom) any { return v }
}

// EdgeConstNumber annotates every edge with the same number.
func EdgeConstNumber(v float64) EdgeFunc {
	return func(_, _ *atom.Atom) any { return v }
}

// TVProperties exposes the truth value as "mean" and "confidence"
// properties. Atoms without one get none.
func TVProperties(a *atom.Atom) graph.Attrs {
	if a.TV == nil {
		return nil
	}
	return graph.Attrs{"mean": a.TV.Mean, "confidence": a.TV.Confidence}
}

// ConstProperties adds the same properties to every vertex.
func ConstProperties(props graph.Attrs) PropertiesFunc {
	return func(*atom.Atom) graph.Attrs { return props }
}

// templateAtom is the data passed to annotation templates.
type templateAtom struct {
	ID         string
	Type       string
	Name       string
	IsNode     bool
	IsLink     bool
	Arity      int
	Mean       float64
	Confidence float64
}

func newTemplateAtom(a *atom.Atom) templateAtom {
	t := templateAtom{
		ID:     a.ID,
		Type:   string(a.Type),
		Name:   a.Name,
		IsNode: a.IsNode(),
		IsLink: a.IsLink(),
		Arity:  len(a.Outgoing),
	}
	if a.TV != nil {
		t.Mean, t.Confidence = a.TV.Mean, a.TV.Confidence
	}
	return t
}

// ParseNodeValue turns a command-line annotation into a NodeFunc. Values
// containing "{{" are text/template templates over the atom (fields ID,
// Type, Name, IsNode, IsLink, Arity, Mean, Confidence); others are constants.
// Numeric keys require the value, or the template output, to parse as a
// number; an empty template output leaves the annotation unset.
func ParseNodeValue(key, value string) (NodeFunc, error) {
	if !contains(NodeKeys, key) {
		return nil, fmt.Errorf("%w: node %q", ErrUnknownAnnotation, key)
	}
	if !strings.Contains(value, "{{") {
		if !IsNumeric(key) {
			return ConstString(value), nil
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("node %s expects a number, got %q", key, value)
		}
		return ConstNumber(f), nil
	}

	tmpl, err := template.New(key).Parse(value)
	if err != nil {
		return nil, fmt.Errorf("parsing node %s template: %w", key, err)
	}
	numeric := IsNumeric(key)
	return func(a *atom.Atom) any {
		return execTemplate(tmpl, newTemplateAtom(a), numeric)
	}, nil
}

// ParseEdgeValue turns a command-line annotation into an EdgeFunc. Templates
// see the two endpoints as .Source and .Target.
func ParseEdgeValue(key, value string) (EdgeFunc, error) {
	if !contains(EdgeKeys, key) {
		return nil, fmt.Errorf("%w: edge %q", ErrUnknownAnnotation, key)
	}
	if !strings.Contains(value, "{{") {
		if !IsNumeric(key) {
			return EdgeConstString(value), nil
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("edge %s expects a number, got %q", key, value)
		}
		return EdgeConstNumber(f), nil
	}

	tmpl, err := template.New(key).Parse(value)
	if err != nil {
		return nil, fmt.Errorf("parsing edge %s template: %w", key, err)
	}
	numeric := IsNumeric(key)
	return func(source, target *atom.Atom) any {
		data := struct{ Source, Target templateAtom }{newTemplateAtom(source), newTemplateAtom(target)}
		return execTemplate(tmpl, data, numeric)
	}, nil
}

func execTemplate(tmpl *template.Template, data any, numeric bool) any {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil
	}
	out := strings.TrimSpace(buf.String())
	if out == "" {
		return nil
	}
	if !numeric {
		return out
	}
	f, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return nil
	}
	return f
}

// ParseProperties turns a command-line properties value into a
// PropertiesFunc: "tv" for the truth value preset, or comma-separated
// key=value pairs where numeric values are stored as numbers.
func ParseProperties(value string) (PropertiesFunc, error) {
	value = strings.TrimSpace(value)
	if value == "tv" {
		return TVProperties, nil
	}

	props := graph.Attrs{}
	for _, pair := range strings.Split(value, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid property %q: expected key=value", pair)
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			props[k] = f
		} else {
			props[k] = v
		}
	}
	if len(props) == 0 {
		return nil, fmt.Errorf("invalid properties %q", value)
	}
	return ConstProperties(props), nil
}
