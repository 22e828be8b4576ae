package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/robert-haas/mevis/internal/atom"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection holding an atom index.
type DB struct {
	db *sql.DB
}

const selectAtomFields = `id, type, name, is_link, tv_mean, tv_confidence`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		-- seq preserves dependency order for reloading
		CREATE TABLE IF NOT EXISTS atoms (
			id TEXT PRIMARY KEY,
			seq INTEGER NOT NULL,
			type TEXT NOT NULL,
			name TEXT,
			is_link INTEGER NOT NULL,
			tv_mean REAL,
			tv_confidence REAL
		);

		CREATE INDEX IF NOT EXISTS idx_atoms_type ON atoms(type);

		CREATE TABLE IF NOT EXISTS outgoing (
			link_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			target_id TEXT NOT NULL,
			PRIMARY KEY (link_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_outgoing_target ON outgoing(target_id);

		CREATE VIRTUAL TABLE IF NOT EXISTS atoms_fts USING fts5(
			id,
			name,
			type
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromSpace clears the database and indexes every atom of space.
func (d *DB) RebuildFromSpace(space *atom.Space) (int, error) {
	records := space.Records()

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"atoms", "outgoing", "atoms_fts"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return 0, fmt.Errorf("clearing %s table: %w", table, err)
		}
	}

	atomStmt, err := tx.Prepare(`
		INSERT INTO atoms (id, seq, type, name, is_link, tv_mean, tv_confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing atoms insert: %w", err)
	}
	defer atomStmt.Close()

	outStmt, err := tx.Prepare(`INSERT INTO outgoing (link_id, position, target_id) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing outgoing insert: %w", err)
	}
	defer outStmt.Close()

	ftsStmt, err := tx.Prepare(`INSERT INTO atoms_fts (id, name, type) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for seq, a := range records {
		var mean, conf sql.NullFloat64
		if a.TV != nil {
			mean = sql.NullFloat64{Float64: a.TV.Mean, Valid: true}
			conf = sql.NullFloat64{Float64: a.TV.Confidence, Valid: true}
		}
		_, err := atomStmt.Exec(a.ID, seq, string(a.Type), nullableStringValue(a.Name), a.Link, mean, conf)
		if err != nil {
			return 0, fmt.Errorf("inserting atom %s: %w", a.ID, err)
		}
		for pos, target := range a.Outgoing {
			if _, err := outStmt.Exec(a.ID, pos, target); err != nil {
				return 0, fmt.Errorf("inserting outgoing for %s: %w", a.ID, err)
			}
		}
		if _, err := ftsStmt.Exec(a.ID, a.Name, splitTypeName(string(a.Type))); err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing index: %w", err)
	}
	return len(records), nil
}

// splitTypeName turns "ConceptNode" into "ConceptNode Concept Node" so
// full-text queries match both the whole type and its words.
func splitTypeName(t string) string {
	var words []string
	start := 0
	for i := 1; i < len(t); i++ {
		if t[i] >= 'A' && t[i] <= 'Z' {
			words = append(words, t[start:i])
			start = i
		}
	}
	words = append(words, t[start:])
	if len(words) == 1 {
		return t
	}
	return t + " " + strings.Join(words, " ")
}

// LoadSpace reads every indexed atom back into a new space.
func (d *DB) LoadSpace() (*atom.Space, error) {
	rows, err := d.db.Query(`SELECT ` + selectAtomFields + ` FROM atoms ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("listing atoms: %w", err)
	}
	atoms, err := scanAtoms(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	outgoing, err := d.allOutgoing()
	if err != nil {
		return nil, err
	}
	for i := range atoms {
		atoms[i].Outgoing = outgoing[atoms[i].ID]
	}
	return spaceFromRecords(atoms)
}

func (d *DB) allOutgoing() (map[string][]string, error) {
	rows, err := d.db.Query(`SELECT link_id, target_id FROM outgoing ORDER BY link_id, position`)
	if err != nil {
		return nil, fmt.Errorf("listing outgoing: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var link, target string
		if err := rows.Scan(&link, &target); err != nil {
			return nil, err
		}
		out[link] = append(out[link], target)
	}
	return out, rows.Err()
}

// GetByID retrieves an atom with its outgoing set. It returns nil when the
// ID is not indexed.
func (d *DB) GetByID(id string) (*atom.Atom, error) {
	row := d.db.QueryRow(`SELECT `+selectAtomFields+` FROM atoms WHERE id = ?`, id)
	a, err := scanAtom(row)
	if err != nil || a == nil {
		return nil, err
	}
	out, err := d.OutgoingIDs(id)
	if err != nil {
		return nil, err
	}
	a.Outgoing = out
	return a, nil
}

// OutgoingIDs returns the ordered outgoing set of a link.
func (d *DB) OutgoingIDs(id string) ([]string, error) {
	return d.queryIDs(`SELECT target_id FROM outgoing WHERE link_id = ? ORDER BY position`, id)
}

// IncomingIDs returns the IDs of links that reference id, sorted.
func (d *DB) IncomingIDs(id string) ([]string, error) {
	return d.queryIDs(`SELECT DISTINCT link_id FROM outgoing WHERE target_id = ? ORDER BY link_id`, id)
}

func (d *DB) queryIDs(query string, args ...interface{}) ([]string, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountAtoms returns the total number of indexed atoms.
func (d *DB) CountAtoms() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM atoms").Scan(&count)
	return count, err
}

// CountByType returns the number of atoms per type.
func (d *DB) CountByType() (map[string]int, error) {
	rows, err := d.db.Query(`SELECT type, COUNT(*) FROM atoms GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("counting by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		counts[t] = n
	}
	return counts, rows.Err()
}

// Search performs a full-text search over atom names and types.
func (d *DB) Search(query string, limit int) ([]atom.Atom, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}

	rows, err := d.db.Query(`
		SELECT `+selectAtomFields+`
		FROM atoms
		WHERE id IN (SELECT id FROM atoms_fts WHERE atoms_fts MATCH ?)
		ORDER BY id
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanAtoms(rows)
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAtom(s scanner) (*atom.Atom, error) {
	var a atom.Atom
	var t string
	var name sql.NullString
	var mean, conf sql.NullFloat64

	err := s.Scan(&a.ID, &t, &name, &a.Link, &mean, &conf)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	a.Type = atom.Type(t)
	a.Name = name.String
	if mean.Valid && conf.Valid {
		a.TV = &atom.TruthValue{Mean: mean.Float64, Confidence: conf.Float64}
	}
	return &a, nil
}

func scanAtoms(rows *sql.Rows) ([]atom.Atom, error) {
	var atoms []atom.Atom
	for rows.Next() {
		a, err := scanAtom(rows)
		if err != nil {
			return nil, err
		}
		if a != nil {
			atoms = append(atoms, *a)
		}
	}
	return atoms, rows.Err()
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// FTS5 uses double quotes for phrase matching
	if strings.ContainsAny(query, "\"*+-:(){}[]^~") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
