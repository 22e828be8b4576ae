package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/robert-haas/mevis/internal/atom"
	"github.com/robert-haas/mevis/internal/storage"
	"github.com/spf13/cobra"
)

var (
	indexInput  string
	indexDB     string
	indexSearch string
	indexLimit  int
)

func init() {
	indexCmd.Flags().StringVarP(&indexInput, "input", "i", "", "Input atom file (.scm, .jsonl)")
	indexCmd.Flags().StringVar(&indexDB, "db", "", "SQLite index path (default: input with .db extension, or index_path from config)")
	indexCmd.Flags().StringVarP(&indexSearch, "search", "s", "", "Search the index by name or type instead of building it")
	indexCmd.Flags().IntVar(&indexLimit, "limit", 50, "Maximum search results")
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or search a SQLite index of an atom space",
	Long: `Build a SQLite index of an atom space. The index can be used as input to
every other command and supports full-text search over names and types.

Examples:
  mevis index -i atoms.scm --db atoms.db
  mevis index --db atoms.db --search cat`,
	RunE: runIndex,
}

// IndexResult is the response for the index command.
type IndexResult struct {
	Status string `json:"status"`
	DB     string `json:"db"`
	Atoms  int    `json:"atoms"`
	Bytes  int64  `json:"bytes"`
}

// SearchResult is the response for index searches.
type SearchResult struct {
	Query string       `json:"query"`
	Count int          `json:"count"`
	Atoms []AtomRecord `json:"atoms"`
}

func runIndex(cmd *cobra.Command, args []string) error {
	dbPath := resolveIndexPath()

	if indexSearch != "" {
		return searchIndex(dbPath)
	}

	space := mustLoadSpace(indexInput)
	db, err := storage.OpenDB(dbPath)
	exitOnError(err, "opening database")
	defer db.Close()

	n, err := db.RebuildFromSpace(space)
	exitOnError(err, "building index")

	var size int64
	if info, err := os.Stat(dbPath); err == nil {
		size = info.Size()
	}
	if humanOutput {
		outputHuman("Indexed %s atoms into %s (%s)\n", humanize.Comma(int64(n)), dbPath, humanize.Bytes(uint64(size)))
		return nil
	}
	return outputJSON(IndexResult{Status: "indexed", DB: dbPath, Atoms: n, Bytes: size})
}

func searchIndex(dbPath string) error {
	if _, err := os.Stat(dbPath); err != nil {
		exitWithError(ExitConfigError, "index not found: %s\n\nRun 'mevis index -i <file> --db %s' to build it.", dbPath, dbPath)
	}
	db, err := storage.OpenDB(dbPath)
	exitOnError(err, "opening database")
	defer db.Close()

	found, err := db.Search(indexSearch, indexLimit)
	exitOnError(err, "searching")

	lookup := func(id string) (*atom.Atom, bool) {
		a, err := db.GetByID(id)
		if err != nil || a == nil {
			return nil, false
		}
		return a, true
	}

	if humanOutput {
		for i := range found {
			outputHuman("%s  %s\n", found[i].ID, truncateString(atom.ShortString(&found[i], lookup), 100))
		}
		outputHuman("%d results\n", len(found))
		return nil
	}
	result := SearchResult{Query: indexSearch, Count: len(found), Atoms: make([]AtomRecord, 0, len(found))}
	for i := range found {
		result.Atoms = append(result.Atoms, newAtomRecord(&found[i], lookup))
	}
	return outputJSON(result)
}

// resolveIndexPath picks the database path from --db, the config, or the
// input file name.
func resolveIndexPath() string {
	switch {
	case indexDB != "":
		return indexDB
	case cfg.IndexPath != "":
		return cfg.IndexPath
	case indexInput != "":
		return strings.TrimSuffix(indexInput, filepath.Ext(indexInput)) + ".db"
	}
	exitWithError(ExitError, "no database given (use --db or -i)")
	return ""
}
