package main

import (
	"os"
	"strings"

	"github.com/robert-haas/mevis/internal/atom"
	"github.com/robert-haas/mevis/internal/storage"
	"github.com/spf13/cobra"
)

var checkInput string

func init() {
	checkCmd.Flags().StringVarP(&checkInput, "input", "i", "", "JSONL atom file")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the integrity of a JSONL atom file",
	Long: `Verify a JSONL atom file without loading it into a space: every record
must be valid and every link must reference atoms defined earlier in the file.`,
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status string       `json:"status"`
	Atoms  int          `json:"atoms"`
	Links  int          `json:"links"`
	Issues []CheckIssue `json:"issues"`
}

// CheckIssue represents a single issue found during check.
type CheckIssue struct {
	Type     string   `json:"type"`
	ID       string   `json:"id"`
	AtomType string   `json:"atom_type"`
	Targets  []string `json:"targets"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkInput == "" {
		exitWithError(ExitError, "no input file given (use -i)")
	}
	if format, err := storage.DetectFormat(checkInput); err != nil || format != storage.FormatJSONL {
		exitWithError(ExitConfigError, "check reads JSONL atom files, got %s", checkInput)
	}

	atoms, err := storage.ReadAllAtoms(checkInput)
	exitOnError(err, "reading "+checkInput)

	result := CheckResult{Status: "ok", Atoms: len(atoms), Issues: []CheckIssue{}}
	for _, a := range atoms {
		if a.IsLink() {
			result.Links++
		}
	}
	orphaned := make(map[string]bool)
	for _, o := range atom.DetectOrphanedLinks(atoms) {
		orphaned[o.ID] = true
		result.Issues = append(result.Issues, CheckIssue{
			Type:     "orphaned_link",
			ID:       o.ID,
			AtomType: string(o.Type),
			Targets:  o.Missing,
		})
	}
	result.Issues = append(result.Issues, outOfOrder(atoms, orphaned)...)
	if len(result.Issues) > 0 {
		result.Status = "issues_found"
	}

	if humanOutput {
		outputHuman("Checked %d atoms (%d links)\n", result.Atoms, result.Links)
		for _, issue := range result.Issues {
			outputHuman("  %s: %s %s -> %s\n", issue.Type, issue.AtomType, issue.ID, strings.Join(issue.Targets, ", "))
		}
		if len(result.Issues) == 0 {
			outputHuman("No issues found\n")
		}
	} else if err := outputJSON(result); err != nil {
		return err
	}

	if len(result.Issues) > 0 {
		os.Exit(ExitDataError)
	}
	return nil
}

// outOfOrder reports links that reference atoms defined later in the file.
// Links already reported as orphaned are skipped.
func outOfOrder(atoms []atom.Atom, orphaned map[string]bool) []CheckIssue {
	var issues []CheckIssue
	seen := make(map[string]bool, len(atoms))
	for _, a := range atoms {
		if !orphaned[a.ID] {
			var later []string
			for _, id := range a.Outgoing {
				if !seen[id] {
					later = append(later, id)
				}
			}
			if len(later) > 0 {
				issues = append(issues, CheckIssue{Type: "out_of_order", ID: a.ID, AtomType: string(a.Type), Targets: later})
			}
		}
		seen[a.ID] = true
	}
	return issues
}
