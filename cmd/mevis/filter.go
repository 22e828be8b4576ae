package main

import (
	"github.com/robert-haas/mevis/internal/atom"
	"github.com/robert-haas/mevis/internal/export"
	"github.com/robert-haas/mevis/internal/storage"
	"github.com/spf13/cobra"
)

var (
	filterInput   string
	filterOutput  string
	filterForce   bool
	filterFlagSet filterFlags
)

func init() {
	filterCmd.Flags().StringVarP(&filterInput, "input", "i", "", "Input atom file (.scm, .jsonl, .db)")
	filterCmd.Flags().StringVarP(&filterOutput, "output", "o", "", "Write the selected atoms to a file (.scm, .jsonl, .db)")
	filterCmd.Flags().BoolVarP(&filterForce, "force", "f", false, "Overwrite an existing output file")
	filterFlagSet.register(filterCmd)
	rootCmd.AddCommand(filterCmd)
}

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Select atoms by target, context and mode",
	Long: `Select atoms from an atom space and print them, or save them as a new space.

A target is a comma-separated list of names (matched against atom names and
type names, ignoring case), type:T (the type and its subtypes) or id:ID.
The context grows the target: atom, in, out, both (with an optional :hops),
in-tree or out-tree. The mode keeps (include) or removes (exclude) the result.
Repeating --ft chains filters, each within the result of the previous one.

Examples:
  mevis filter -i atoms.scm --ft cat --fc in
  mevis filter -i atoms.scm --ft type:ConceptNode --ft animal --fc out-tree
  mevis filter -i atoms.scm --ft type:EvaluationLink --fc out-tree --fm exclude -o rest.scm`,
	RunE: runFilter,
}

// FilterResult is the response for the filter command.
type FilterResult struct {
	Count int          `json:"count"`
	Atoms []AtomRecord `json:"atoms"`
}

func runFilter(cmd *cobra.Command, args []string) error {
	steps, err := filterFlagSet.steps(cfg.FilterMode)
	exitOnError(err, "parsing filter")

	space := mustLoadSpace(filterInput)
	sel, err := runFilters(space, steps)
	exitOnError(err, "filtering")
	atoms := selectedAtoms(space, sel)

	if filterOutput != "" {
		return saveSelection(space, atoms)
	}

	lookup := space.Lookup()
	if humanOutput {
		for _, a := range atoms {
			outputHuman("%s  %s\n", a.ID, truncateString(atom.ShortString(a, lookup), 100))
		}
		outputHuman("%d atoms\n", len(atoms))
		return nil
	}

	result := FilterResult{Count: len(atoms), Atoms: make([]AtomRecord, 0, len(atoms))}
	for _, a := range atoms {
		result.Atoms = append(result.Atoms, newAtomRecord(a, lookup))
	}
	return outputJSON(result)
}

// saveSelection writes the selected atoms, plus the atoms they reference,
// as a new space.
func saveSelection(space *atom.Space, atoms []*atom.Atom) error {
	exitOnError(export.CheckOverwrite(filterOutput, filterForce), "output")

	sub, err := closure(space, atoms)
	exitOnError(err, "building selection")
	n, err := storage.Save(filterOutput, sub)
	exitOnError(err, "saving "+filterOutput)

	if humanOutput {
		outputHuman("Wrote %d atoms to %s\n", n, filterOutput)
		return nil
	}
	return outputJSON(ConvertResult{Output: filterOutput, Atoms: n})
}

// closure copies atoms into a new space together with everything they
// reference, so links never dangle.
func closure(space *atom.Space, atoms []*atom.Atom) (*atom.Space, error) {
	sub := atom.NewSpaceWithTypes(space.Types())
	var add func(a *atom.Atom) error
	add = func(a *atom.Atom) error {
		if sub.Has(a.ID) {
			return nil
		}
		for _, id := range a.Outgoing {
			child, ok := space.Get(id)
			if !ok {
				return atom.ErrMissingOutgoing
			}
			if err := add(child); err != nil {
				return err
			}
		}
		_, err := sub.Insert(*a)
		return err
	}
	for _, a := range atoms {
		if err := add(a); err != nil {
			return nil, err
		}
	}
	return sub, nil
}
