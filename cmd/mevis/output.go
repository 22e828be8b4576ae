package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/robert-haas/mevis/internal/atom"
	"github.com/robert-haas/mevis/internal/atomese"
	"github.com/robert-haas/mevis/internal/convert"
	"github.com/robert-haas/mevis/internal/expand"
	"github.com/robert-haas/mevis/internal/export"
	"github.com/robert-haas/mevis/internal/layout"
	"github.com/robert-haas/mevis/internal/storage"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitOnError exits with the code matching err when err is not nil.
func exitOnError(err error, context string) {
	if err == nil {
		return
	}
	exitWithError(exitCodeFor(err), "%s: %v", context, err)
}

// exitCodeFor classifies an error from the pipeline packages.
func exitCodeFor(err error) int {
	var targetErr *expand.InvalidTargetError
	var contextErr *expand.InvalidContextError
	var syntaxErr *atomese.SyntaxError
	switch {
	case errors.As(err, &targetErr), errors.As(err, &contextErr), errors.As(err, &syntaxErr),
		errors.Is(err, expand.ErrUnknownMode),
		errors.Is(err, atom.ErrMissingOutgoing), errors.Is(err, atom.ErrNodeOutgoing),
		errors.Is(err, atom.ErrEmptyType), errors.Is(err, atom.ErrEmptyID),
		errors.Is(err, atom.ErrUnknownAtom), errors.Is(err, layout.ErrDisconnected):
		return ExitDataError
	case errors.Is(err, storage.ErrUnknownFormat), errors.Is(err, export.ErrUnknownFormat),
		errors.Is(err, layout.ErrUnknownMethod), errors.Is(err, convert.ErrUnknownAnnotation):
		return ExitConfigError
	}
	return ExitError
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteResponse reports a written output file.
type WriteResponse struct {
	Output string `json:"output"`
	Format string `json:"format"`
	Bytes  int64  `json:"bytes"`
	Nodes  int    `json:"nodes"`
	Edges  int    `json:"edges"`
}

// AtomRecord is an atom in command output.
type AtomRecord struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Name     string           `json:"name,omitempty"`
	Outgoing []string         `json:"outgoing,omitempty"`
	TV       *atom.TruthValue `json:"tv,omitempty"`
	Short    string           `json:"short"`
}

func newAtomRecord(a *atom.Atom, lookup atom.Lookup) AtomRecord {
	return AtomRecord{
		ID:       a.ID,
		Type:     string(a.Type),
		Name:     a.Name,
		Outgoing: a.Outgoing,
		TV:       a.TV,
		Short:    atom.ShortString(a, lookup),
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
