package storage

import (
	"path/filepath"
	"testing"

	"github.com/robert-haas/mevis/internal/atom"
)

// setupTestDB creates a test database indexed from testSpace.
func setupTestDB(t *testing.T) (*DB, *atom.Space) {
	t.Helper()

	space := testSpace(t)
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	n, err := db.RebuildFromSpace(space)
	if err != nil {
		t.Fatalf("RebuildFromSpace() error = %v", err)
	}
	if n != space.Len() {
		t.Fatalf("RebuildFromSpace() indexed %d atoms, want %d", n, space.Len())
	}
	return db, space
}

func TestDB_CountAtoms(t *testing.T) {
	db, space := setupTestDB(t)

	count, err := db.CountAtoms()
	if err != nil {
		t.Fatalf("CountAtoms() error = %v", err)
	}
	if count != space.Len() {
		t.Errorf("CountAtoms() = %d, want %d", count, space.Len())
	}
}

func TestDB_RebuildIsIdempotent(t *testing.T) {
	db, space := setupTestDB(t)

	if _, err := db.RebuildFromSpace(space); err != nil {
		t.Fatalf("second RebuildFromSpace() error = %v", err)
	}
	count, _ := db.CountAtoms()
	if count != space.Len() {
		t.Errorf("CountAtoms() after rebuild = %d, want %d", count, space.Len())
	}
}

func TestDB_CountByType(t *testing.T) {
	db, _ := setupTestDB(t)

	counts, err := db.CountByType()
	if err != nil {
		t.Fatalf("CountByType() error = %v", err)
	}
	want := map[string]int{
		"ConceptNode":     3,
		"PredicateNode":   1,
		"InheritanceLink": 1,
		"ListLink":        1,
		"EvaluationLink":  1,
		"NotLink":         1,
	}
	for typ, n := range want {
		if counts[typ] != n {
			t.Errorf("CountByType()[%s] = %d, want %d", typ, counts[typ], n)
		}
	}
}

func TestDB_GetByID(t *testing.T) {
	db, space := setupTestDB(t)

	cat := atom.NodeID("ConceptNode", "cat")
	animal := atom.NodeID("ConceptNode", "animal")
	inhID := atom.LinkID("InheritanceLink", []string{cat, animal})

	got, err := db.GetByID(inhID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetByID() returned nil")
	}
	want, _ := space.Get(inhID)
	if !got.IsLink() || got.Type != want.Type {
		t.Errorf("GetByID() = %+v, want %+v", got, want)
	}
	if len(got.Outgoing) != 2 || got.Outgoing[0] != cat || got.Outgoing[1] != animal {
		t.Errorf("GetByID().Outgoing = %v, want [%s %s]", got.Outgoing, cat, animal)
	}
	if got.TV == nil || got.TV.Confidence != 0.8 {
		t.Errorf("GetByID().TV = %+v, want confidence 0.8", got.TV)
	}

	missing, err := db.GetByID("nope")
	if err != nil {
		t.Fatalf("GetByID(missing) error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetByID(missing) = %+v, want nil", missing)
	}
}

func TestDB_IncomingIDs(t *testing.T) {
	db, space := setupTestDB(t)

	cat := atom.NodeID("ConceptNode", "cat")
	got, err := db.IncomingIDs(cat)
	if err != nil {
		t.Fatalf("IncomingIDs() error = %v", err)
	}
	want := space.Incoming(cat)
	if len(got) != len(want) || len(got) != 2 {
		t.Fatalf("IncomingIDs() = %v, want %v", got, want)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] > got[i] {
			t.Errorf("IncomingIDs() not sorted: %v", got)
		}
	}
}

func TestDB_LoadSpace(t *testing.T) {
	db, space := setupTestDB(t)

	loaded, err := db.LoadSpace()
	if err != nil {
		t.Fatalf("LoadSpace() error = %v", err)
	}
	if loaded.Len() != space.Len() {
		t.Fatalf("LoadSpace() has %d atoms, want %d", loaded.Len(), space.Len())
	}
	for _, a := range space.All() {
		if !loaded.Has(a.ID) {
			t.Errorf("atom %s missing after reload", a.ID)
		}
		if len(loaded.Incoming(a.ID)) != len(space.Incoming(a.ID)) {
			t.Errorf("incoming of %s = %v, want %v", a.ID, loaded.Incoming(a.ID), space.Incoming(a.ID))
		}
	}
}

func TestDB_Search(t *testing.T) {
	db, _ := setupTestDB(t)

	tests := []struct {
		query string
		want  int
	}{
		{"cat", 1},
		{"Predicate", 1},
		{"Concept", 3},
		{"", 0},
		{"zebra", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := db.Search(tt.query, 10)
			if err != nil {
				t.Fatalf("Search(%q) error = %v", tt.query, err)
			}
			if len(got) != tt.want {
				t.Errorf("Search(%q) returned %d atoms, want %d", tt.query, len(got), tt.want)
			}
		})
	}
}

func TestSplitTypeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ConceptNode", "ConceptNode Concept Node"},
		{"Node", "Node"},
		{"InheritanceLink", "InheritanceLink Inheritance Link"},
	}
	for _, tt := range tests {
		if got := splitTypeName(tt.in); got != tt.want {
			t.Errorf("splitTypeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
