package main

import (
	"errors"
	"testing"

	"github.com/robert-haas/mevis/internal/atom"
	"github.com/robert-haas/mevis/internal/expand"
)

// testSpace builds cat/dog -> animal with an evaluation over cat.
func testSpace(t *testing.T) *atom.Space {
	t.Helper()

	space := atom.NewSpace()
	cat, _ := space.AddNode("ConceptNode", "cat", nil)
	dog, _ := space.AddNode("ConceptNode", "dog", nil)
	animal, _ := space.AddNode("ConceptNode", "animal", nil)
	likes, _ := space.AddNode("PredicateNode", "likes", nil)
	if _, err := space.AddLink("InheritanceLink", []string{cat.ID, animal.ID}, nil); err != nil {
		t.Fatalf("AddLink() error = %v", err)
	}
	if _, err := space.AddLink("InheritanceLink", []string{dog.ID, animal.ID}, nil); err != nil {
		t.Fatalf("AddLink() error = %v", err)
	}
	list, _ := space.AddLink("ListLink", []string{cat.ID}, nil)
	if _, err := space.AddLink("EvaluationLink", []string{likes.ID, list.ID}, nil); err != nil {
		t.Fatalf("AddLink() error = %v", err)
	}
	return space
}

func TestParseTarget(t *testing.T) {
	space := testSpace(t)
	cat := atom.NodeID("ConceptNode", "cat")
	animal := atom.NodeID("ConceptNode", "animal")

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"single name", "cat", 1},
		{"name is case-insensitive", "CAT", 1},
		{"several names", "cat, dog", 2},
		{"type name as name", "InheritanceLink", 2},
		{"type with subtypes", "type:Link", 4},
		{"node type", "type:ConceptNode", 3},
		{"id", "id:" + animal, 1},
		{"mixed", "type:PredicateNode,id:" + cat + ",dog", 3},
		{"unknown name", "zebra", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := parseTarget(tt.input)
			if err != nil {
				t.Fatalf("parseTarget(%q) error = %v", tt.input, err)
			}
			sel, err := expand.Resolve(space, target, nil)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if sel.Len() != tt.want {
				t.Errorf("parseTarget(%q) selects %d atoms, want %d", tt.input, sel.Len(), tt.want)
			}
		})
	}
}

func TestParseTarget_Errors(t *testing.T) {
	for _, input := range []string{"", " , ", "type:"} {
		_, err := parseTarget(input)
		var targetErr *expand.InvalidTargetError
		if !errors.As(err, &targetErr) {
			t.Errorf("parseTarget(%q) error = %v, want InvalidTargetError", input, err)
		}
	}

	target, err := parseTarget("id:nope")
	if err != nil {
		t.Fatalf("parseTarget(id:nope) error = %v", err)
	}
	_, err = expand.Resolve(testSpace(t), target, nil)
	var targetErr *expand.InvalidTargetError
	if !errors.As(err, &targetErr) {
		t.Errorf("unknown id error = %v, want InvalidTargetError", err)
	}
}

func TestFilterSteps(t *testing.T) {
	f := filterFlags{
		targets:  []string{"cat", "type:Node", "dog"},
		contexts: []string{"in:2", "atom"},
		modes:    []string{"include"},
	}
	steps, err := f.steps("include")
	if err != nil {
		t.Fatalf("steps() error = %v", err)
	}
	if len(steps) != 3 {
		t.Fatalf("steps() = %d steps, want 3", len(steps))
	}
	if steps[0].context != expand.In(2) {
		t.Errorf("steps[0].context = %v, want in:2", steps[0].context)
	}
	if steps[2].context != expand.Identity {
		t.Errorf("steps[2].context = %v, want the last given context", steps[2].context)
	}
	if steps[2].mode != expand.Include {
		t.Errorf("steps[2].mode = %v, want include", steps[2].mode)
	}

	none, err := (&filterFlags{}).steps("exclude")
	if err != nil || none != nil {
		t.Errorf("steps() without targets = %v, %v; want nil, nil", none, err)
	}

	if _, err := (&filterFlags{contexts: []string{"in"}}).steps(""); err == nil {
		t.Error("steps() should reject --fc without --ft")
	}
	if _, err := (&filterFlags{targets: []string{"cat"}, contexts: []string{"sideways"}}).steps(""); err == nil {
		t.Error("steps() should reject an unknown context")
	}
	if _, err := (&filterFlags{targets: []string{"cat"}, modes: []string{"maybe"}}).steps(""); err == nil {
		t.Error("steps() should reject an unknown mode")
	}
}

func TestFilterSteps_DefaultMode(t *testing.T) {
	steps, err := (&filterFlags{targets: []string{"cat"}}).steps("exclude")
	if err != nil {
		t.Fatalf("steps() error = %v", err)
	}
	if steps[0].mode != expand.Exclude {
		t.Errorf("mode = %v, want the configured default exclude", steps[0].mode)
	}
}

func TestRunFilters(t *testing.T) {
	space := testSpace(t)

	all, err := runFilters(space, nil)
	if err != nil {
		t.Fatalf("runFilters() error = %v", err)
	}
	if all.Len() != space.Len() {
		t.Errorf("runFilters(nil) = %d atoms, want %d", all.Len(), space.Len())
	}

	// cat and everything reachable upward, then only the nodes of that.
	steps, err := (&filterFlags{
		targets:  []string{"cat", "type:Node"},
		contexts: []string{"in-tree", "atom"},
	}).steps("include")
	if err != nil {
		t.Fatalf("steps() error = %v", err)
	}
	sel, err := runFilters(space, steps)
	if err != nil {
		t.Fatalf("runFilters() error = %v", err)
	}
	want := expand.NewSelection(atom.NodeID("ConceptNode", "cat"))
	if !sel.Equal(want) {
		t.Errorf("runFilters() = %v, want %v", sel.IDs(), want.IDs())
	}
}

func TestRunFilters_EmptyStaysEmpty(t *testing.T) {
	space := testSpace(t)
	steps, _ := (&filterFlags{targets: []string{"zebra", "cat"}}).steps("include")

	sel, err := runFilters(space, steps)
	if err != nil {
		t.Fatalf("runFilters() error = %v", err)
	}
	if sel.Len() != 0 {
		t.Errorf("runFilters() = %v, want empty after an empty step", sel.IDs())
	}
}

func TestClosure(t *testing.T) {
	space := testSpace(t)
	eval := space.ByType("EvaluationLink", false)
	if len(eval) != 1 {
		t.Fatalf("ByType(EvaluationLink) = %d atoms", len(eval))
	}

	sub, err := closure(space, eval)
	if err != nil {
		t.Fatalf("closure() error = %v", err)
	}
	// EvaluationLink, likes, ListLink, cat
	if sub.Len() != 4 {
		t.Errorf("closure() = %d atoms, want 4", sub.Len())
	}
	if !sub.Has(atom.NodeID("ConceptNode", "cat")) {
		t.Error("closure() is missing a referenced atom")
	}
}

func TestPick(t *testing.T) {
	tests := []struct {
		values []string
		i      int
		want   string
	}{
		{nil, 0, "fb"},
		{[]string{"a", "b"}, 1, "b"},
		{[]string{"a", "b"}, 5, "b"},
	}
	for _, tt := range tests {
		if got := pick(tt.values, tt.i, "fb"); got != tt.want {
			t.Errorf("pick(%v, %d) = %q, want %q", tt.values, tt.i, got, tt.want)
		}
	}
}
