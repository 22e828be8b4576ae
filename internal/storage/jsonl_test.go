package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robert-haas/mevis/internal/atom"
)

// testSpace builds cat -> animal with a truth value on the link.
func testSpace(t *testing.T) *atom.Space {
	t.Helper()

	space := atom.NewSpace()
	cat, err := space.AddNode("ConceptNode", "cat", nil)
	if err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}
	animal, err := space.AddNode("ConceptNode", "animal", nil)
	if err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}
	likes, _ := space.AddNode("PredicateNode", "likes", nil)
	fish, _ := space.AddNode("ConceptNode", "fish", &atom.TruthValue{Mean: 0.5, Confidence: 0.25})
	inh, err := space.AddLink("InheritanceLink", []string{cat.ID, animal.ID}, &atom.TruthValue{Mean: 0.9, Confidence: 0.8})
	if err != nil {
		t.Fatalf("AddLink() error = %v", err)
	}
	list, _ := space.AddLink("ListLink", []string{cat.ID, fish.ID}, nil)
	if _, err := space.AddLink("EvaluationLink", []string{likes.ID, list.ID}, nil); err != nil {
		t.Fatalf("AddLink() error = %v", err)
	}
	if _, err := space.AddLink("NotLink", []string{inh.ID}, nil); err != nil {
		t.Fatalf("AddLink() error = %v", err)
	}
	return space
}

func TestReadAllAtoms_NonExistentFile(t *testing.T) {
	atoms, err := ReadAllAtoms("/nonexistent/path/atoms.jsonl")
	if err != nil {
		t.Fatalf("ReadAllAtoms() error = %v (should return nil for nonexistent file)", err)
	}
	if len(atoms) != 0 {
		t.Errorf("ReadAllAtoms() returned %d atoms, want 0", len(atoms))
	}
}

func TestReadAllAtoms_MalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atoms.jsonl")
	content := `{"id":"a","type":"ConceptNode","name":"a"}
{"id":"b","type":
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	_, err := ReadAllAtoms(path)
	if err == nil {
		t.Fatal("ReadAllAtoms() expected error for malformed line")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name line 2, got %v", err)
	}
}

func TestReadAllAtoms_InvalidRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atoms.jsonl")
	content := "\n" + `{"id":"a","type":"ConceptNode","outgoing":["b"]}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	_, err := ReadAllAtoms(path)
	if !errors.Is(err, atom.ErrNodeOutgoing) {
		t.Fatalf("ReadAllAtoms() error = %v, want ErrNodeOutgoing", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name line 2, got %v", err)
	}
}

func TestWriteAndLoadSpace(t *testing.T) {
	space := testSpace(t)
	path := filepath.Join(t.TempDir(), "atoms.jsonl")

	if err := WriteSpace(path, space); err != nil {
		t.Fatalf("WriteSpace() error = %v", err)
	}

	loaded, err := LoadSpace(path)
	if err != nil {
		t.Fatalf("LoadSpace() error = %v", err)
	}
	if loaded.Len() != space.Len() {
		t.Fatalf("LoadSpace() has %d atoms, want %d", loaded.Len(), space.Len())
	}
	for _, a := range space.All() {
		got, ok := loaded.Get(a.ID)
		if !ok {
			t.Errorf("atom %s missing after reload", a.ID)
			continue
		}
		if got.Type != a.Type || got.Name != a.Name || strings.Join(got.Outgoing, ",") != strings.Join(a.Outgoing, ",") {
			t.Errorf("atom %s = %+v, want %+v", a.ID, got, a)
		}
	}

	fish, _ := loaded.Get(atom.NodeID("ConceptNode", "fish"))
	if fish.TV == nil || fish.TV.Mean != 0.5 {
		t.Errorf("fish tv = %+v, want mean 0.5", fish.TV)
	}
}

func TestLoadSpace_OutOfOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atoms.jsonl")
	content := `{"id":"l","type":"ListLink","link":true,"outgoing":["a"]}
{"id":"a","type":"ConceptNode","name":"a"}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	_, err := LoadSpace(path)
	if !errors.Is(err, atom.ErrMissingOutgoing) {
		t.Errorf("LoadSpace() error = %v, want ErrMissingOutgoing", err)
	}
}
