// Package storage handles atom persistence in JSONL and SQLite formats.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/robert-haas/mevis/internal/atom"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadAllAtoms reads all atom records from a JSONL file.
func ReadAllAtoms(path string) ([]atom.Atom, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Missing file is an empty space
		}
		return nil, fmt.Errorf("opening atoms file: %w", err)
	}
	defer f.Close()

	var atoms []atom.Atom
	scanner := bufio.NewScanner(f)

	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var a atom.Atom
		if err := json.Unmarshal(line, &a); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		atoms = append(atoms, a)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading atoms file: %w", err)
	}

	return atoms, nil
}

// WriteAllAtoms writes atom records to a JSONL file, replacing existing content.
func WriteAllAtoms(path string, atoms []atom.Atom) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating atoms file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, a := range atoms {
		data, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("encoding atom %d: %w", i, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing atom %d: %w", i, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing atoms file: %w", err)
	}
	return nil
}

// WriteSpace writes every atom of space in dependency order.
func WriteSpace(path string, space *atom.Space) error {
	return WriteAllAtoms(path, space.Records())
}

// LoadSpace reads a JSONL file into a new space. Records must appear in
// dependency order: a link after every atom it references.
func LoadSpace(path string) (*atom.Space, error) {
	atoms, err := ReadAllAtoms(path)
	if err != nil {
		return nil, err
	}
	return spaceFromRecords(atoms)
}

func spaceFromRecords(atoms []atom.Atom) (*atom.Space, error) {
	space := atom.NewSpace()
	for i, a := range atoms {
		if _, err := space.Insert(a); err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i+1, a.ID, err)
		}
	}
	return space, nil
}
