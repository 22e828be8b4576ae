package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robert-haas/mevis/internal/atom"
	"github.com/robert-haas/mevis/internal/atomese"
)

// ErrUnknownFormat is returned for files whose extension names no known atom format.
var ErrUnknownFormat = errors.New("unknown atom file format")

// Format identifies an on-disk atom representation.
type Format string

const (
	FormatAtomese Format = "scm"
	FormatJSONL   Format = "jsonl"
	FormatSQLite  Format = "db"
)

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".scm":
		return FormatAtomese, nil
	case ".jsonl":
		return FormatJSONL, nil
	case ".db", ".sqlite":
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Load reads a space from an Atomese, JSONL or SQLite file.
func Load(path string) (*atom.Space, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("input file: %w", err)
	}

	switch format {
	case FormatAtomese:
		return atomese.ParseFile(path)
	case FormatJSONL:
		return LoadSpace(path)
	default:
		db, err := OpenDB(path)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.LoadSpace()
	}
}

// Save writes a space in the format named by the path's extension.
// It returns the number of atoms written.
func Save(path string, space *atom.Space) (int, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return 0, err
	}

	switch format {
	case FormatAtomese:
		f, err := os.Create(path)
		if err != nil {
			return 0, fmt.Errorf("creating atomese file: %w", err)
		}
		if err := atomese.Write(f, space); err != nil {
			f.Close()
			return 0, fmt.Errorf("writing atomese: %w", err)
		}
		return space.Len(), f.Close()
	case FormatJSONL:
		return space.Len(), WriteSpace(path, space)
	default:
		db, err := OpenDB(path)
		if err != nil {
			return 0, err
		}
		defer db.Close()
		return db.RebuildFromSpace(space)
	}
}
