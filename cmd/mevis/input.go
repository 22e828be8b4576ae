package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/robert-haas/mevis/internal/atom"
	"github.com/robert-haas/mevis/internal/expand"
	"github.com/robert-haas/mevis/internal/storage"
	"github.com/spf13/cobra"
)

// filterFlags holds the repeatable --ft/--fc/--fm flags. The i-th target is
// paired with the i-th context and mode; missing ones repeat the last given
// value. Each filter runs within the result of the previous one.
type filterFlags struct {
	targets  []string
	contexts []string
	modes    []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.targets, "ft", nil, "Filter target: names, type:T or id:ID, comma-separated (repeatable)")
	cmd.Flags().StringArrayVar(&f.contexts, "fc", nil, "Filter context: atom, in, out, both, in-tree, out-tree, with optional :hops")
	cmd.Flags().StringArrayVar(&f.modes, "fm", nil, "Filter mode: include or exclude")
}

// filterStep is one parsed filter.
type filterStep struct {
	target  expand.Target
	context expand.Context
	mode    expand.Mode
}

func (f *filterFlags) steps(defaultMode string) ([]filterStep, error) {
	if len(f.targets) == 0 {
		if len(f.contexts) > 0 || len(f.modes) > 0 {
			return nil, fmt.Errorf("--fc and --fm require --ft")
		}
		return nil, nil
	}

	steps := make([]filterStep, len(f.targets))
	for i, raw := range f.targets {
		target, err := parseTarget(raw)
		if err != nil {
			return nil, err
		}
		c, err := expand.ParseContext(pick(f.contexts, i, "atom"))
		if err != nil {
			return nil, err
		}
		m, err := expand.ParseMode(pick(f.modes, i, defaultMode))
		if err != nil {
			return nil, err
		}
		steps[i] = filterStep{target: target, context: c, mode: m}
	}
	return steps, nil
}

func pick(values []string, i int, fallback string) string {
	switch {
	case len(values) == 0:
		return fallback
	case i < len(values):
		return values[i]
	}
	return values[len(values)-1]
}

// parseTarget reads a command-line target. Items are comma-separated; an
// item is a name (matched against atom and type names), type:T for a type
// with its subtypes, or id:ID for a single atom.
func parseTarget(s string) (expand.Target, error) {
	var targets []expand.Target
	var names []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		switch {
		case strings.HasPrefix(item, "type:"):
			t := strings.TrimSpace(strings.TrimPrefix(item, "type:"))
			if t == "" {
				return nil, &expand.InvalidTargetError{Target: item, Err: expand.ErrNilTarget}
			}
			targets = append(targets, expand.OfType(atom.Type(t)))
		case strings.HasPrefix(item, "id:"):
			targets = append(targets, expand.AtomIDs(strings.TrimSpace(strings.TrimPrefix(item, "id:"))))
		default:
			names = append(names, item)
		}
	}
	if len(names) > 0 {
		targets = append(targets, expand.Names(names...))
	}

	switch len(targets) {
	case 0:
		return nil, &expand.InvalidTargetError{Target: fmt.Sprintf("%q", s), Err: expand.ErrNilTarget}
	case 1:
		return targets[0], nil
	}
	return expand.Any(targets...), nil
}

// runFilters applies the steps in order, each within the previous result.
// With no steps every atom is selected.
func runFilters(space *atom.Space, steps []filterStep) (expand.Selection, error) {
	var universe expand.Selection
	for i, step := range steps {
		sel, err := expand.Expand(space, step.target,
			expand.WithContext(step.context),
			expand.WithMode(step.mode),
			expand.WithUniverse(universe),
		)
		if err != nil {
			return nil, err
		}
		slog.Debug("filtered", "step", i+1, "target", step.target.String(),
			"context", step.context.String(), "mode", step.mode.String(), "atoms", sel.Len())
		universe = sel
	}
	if universe == nil {
		return expand.SelectionOf(space.All()), nil
	}
	return universe, nil
}

// mustLoadSpace loads the input file, exits on error.
func mustLoadSpace(path string) *atom.Space {
	if path == "" {
		exitWithError(ExitError, "no input file given (use -i)")
	}
	space, err := storage.Load(path)
	exitOnError(err, "loading "+path)
	slog.Debug("loaded", "path", path, "atoms", space.Len())
	return space
}
