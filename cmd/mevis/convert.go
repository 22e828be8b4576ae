package main

import (
	"log/slog"

	"github.com/robert-haas/mevis/internal/export"
	"github.com/robert-haas/mevis/internal/storage"
	"github.com/spf13/cobra"
)

var (
	convertInput  string
	convertOutput string
	convertForce  bool
)

func init() {
	convertCmd.Flags().StringVarP(&convertInput, "input", "i", "", "Input atom file (.scm, .jsonl, .db)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output atom file (.scm, .jsonl, .db)")
	convertCmd.Flags().BoolVarP(&convertForce, "force", "f", false, "Overwrite an existing output file")
	convertCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert an atom space between Atomese, JSONL and SQLite",
	Long: `Convert an atom space between formats. The format is taken from the
file extension: .scm (Atomese), .jsonl (one atom per line) or .db (SQLite).

Examples:
  mevis convert -i atoms.scm -o atoms.jsonl
  mevis convert -i atoms.jsonl -o atoms.scm`,
	RunE: runConvert,
}

// ConvertResult is the response for commands that write an atom file.
type ConvertResult struct {
	Output string `json:"output"`
	Atoms  int    `json:"atoms"`
}

func runConvert(cmd *cobra.Command, args []string) error {
	_, err := storage.DetectFormat(convertOutput)
	exitOnError(err, "output")
	exitOnError(export.CheckOverwrite(convertOutput, convertForce), "output")

	space := mustLoadSpace(convertInput)
	n, err := storage.Save(convertOutput, space)
	exitOnError(err, "saving "+convertOutput)
	slog.Debug("wrote", "path", convertOutput, "atoms", n)

	if humanOutput {
		outputHuman("Converted %d atoms to %s\n", n, convertOutput)
		return nil
	}
	return outputJSON(ConvertResult{Output: convertOutput, Atoms: n})
}
