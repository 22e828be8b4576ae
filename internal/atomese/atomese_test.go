package atomese

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robert-haas/mevis/internal/atom"
)

const sample = `; a small knowledge base
(use-modules (opencog))

(InheritanceLink (stv 0.9 0.8)
    (ConceptNode "cat")
    (ConceptNode "animal"))

(EvaluationLink
    (PredicateNode "likes")
    (ListLink
        (ConceptNode "cat")
        (ConceptNode "fish" (stv 0.5 0.25))))
`

func TestParse(t *testing.T) {
	space := atom.NewSpace()
	n, err := Parse(strings.NewReader(sample), space)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if n != 2 {
		t.Errorf("top-level atoms = %d, want 2", n)
	}
	// cat, animal, likes, fish, InheritanceLink, ListLink, EvaluationLink
	if space.Len() != 7 {
		t.Errorf("space has %d atoms, want 7", space.Len())
	}

	cat, ok := space.Get(atom.NodeID("ConceptNode", "cat"))
	if !ok {
		t.Fatal("cat not found")
	}
	if got := len(space.Incoming(cat.ID)); got != 2 {
		t.Errorf("cat incoming = %d, want 2", got)
	}

	inh := space.ByType("InheritanceLink", false)
	if len(inh) != 1 {
		t.Fatalf("InheritanceLink count = %d, want 1", len(inh))
	}
	if inh[0].TV == nil || inh[0].TV.Mean != 0.9 || inh[0].TV.Confidence != 0.8 {
		t.Errorf("InheritanceLink tv = %+v", inh[0].TV)
	}

	fish, _ := space.Get(atom.NodeID("ConceptNode", "fish"))
	if fish.TV == nil || fish.TV.Confidence != 0.25 {
		t.Errorf("fish tv = %+v", fish.TV)
	}
}

func TestParseUnknownTypes(t *testing.T) {
	space := atom.NewSpace()
	input := `(FancyLink (WidgetNode "w") (Gadget "g"))`
	if _, err := Parse(strings.NewReader(input), space); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	types := space.Types()
	if !types.IsA("FancyLink", atom.TypeLink) {
		t.Error("FancyLink should be registered as a link type")
	}
	if !types.IsA("WidgetNode", atom.TypeNode) {
		t.Error("WidgetNode should be registered as a node type")
	}
	if !types.IsA("Gadget", atom.TypeNode) {
		t.Error("Gadget with a string argument should be a node")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"unterminated list", "(ConceptNode \"a\"", 1},
		{"unterminated string", "(ConceptNode \"a)", 1},
		{"stray paren", "\n)", 2},
		{"node with two names", "(ConceptNode \"a\" \"b\")", 1},
		{"link with string argument", "(ListLink \"a\")", 1},
		{"bad truth value", "(ConceptNode \"a\" (stv high 0.1))", 1},
		{"two truth values", "(ConceptNode \"a\" (stv 1 1) (stv 0 0))", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), atom.NewSpace())
			if err == nil {
				t.Fatal("expected error")
			}
			var syn *SyntaxError
			if !errors.As(err, &syn) {
				t.Fatalf("expected *SyntaxError, got %T: %v", err, err)
			}
			if syn.Line != tt.line {
				t.Errorf("line = %d, want %d", syn.Line, tt.line)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	space := atom.NewSpace()
	if _, err := Parse(strings.NewReader(sample), space); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, space); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	again := atom.NewSpace()
	n, err := Parse(&buf, again)
	if err != nil {
		t.Fatalf("re-parse failed: %v\n%s", err, buf.String())
	}
	if n != 2 {
		t.Errorf("written roots = %d, want 2", n)
	}
	if again.Len() != space.Len() {
		t.Fatalf("round trip has %d atoms, want %d", again.Len(), space.Len())
	}
	for _, a := range space.All() {
		b, ok := again.Get(a.ID)
		if !ok {
			t.Errorf("atom %s lost in round trip", a.ID)
			continue
		}
		if (a.TV == nil) != (b.TV == nil) || (a.TV != nil && *a.TV != *b.TV) {
			t.Errorf("atom %s tv = %+v, want %+v", a.ID, b.TV, a.TV)
		}
	}
}

func TestFormat(t *testing.T) {
	space := atom.NewSpace()
	a, _ := space.AddNode("ConceptNode", "a", nil)
	b, _ := space.AddNode("ConceptNode", "b", &atom.TruthValue{Mean: 1, Confidence: 0.5})
	l, _ := space.AddLink("ListLink", []string{a.ID, b.ID}, nil)

	want := "(ListLink\n    (ConceptNode \"a\")\n    (ConceptNode \"b\" (stv 1.0 0.5)))"
	if got := Format(l, space.Lookup()); got != want {
		t.Errorf("Format =\n%s\nwant\n%s", got, want)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.scm")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	space, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if space.Len() != 7 {
		t.Errorf("space has %d atoms, want 7", space.Len())
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.scm")); err == nil {
		t.Error("expected error for missing file")
	}
}
