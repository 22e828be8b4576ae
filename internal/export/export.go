// Package export writes property graphs to static file formats.
package export

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/robert-haas/mevis/internal/graph"
	"github.com/robert-haas/mevis/internal/viz"
)

var (
	// ErrFileExists is returned when the target exists and overwriting is off.
	ErrFileExists = errors.New("file already exists")
	// ErrUnknownFormat is returned for targets with an unsupported extension.
	ErrUnknownFormat = errors.New("unknown export format")
)

// Format identifies an export file format.
type Format string

const (
	FormatGML     Format = "gml"
	FormatGMLGzip Format = "gml.gz"
	FormatDOT     Format = "dot"
	FormatJSON    Format = "json"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatGML, FormatGMLGzip, FormatDOT, FormatJSON}

// DetectFormat picks the export format from a file name.
func DetectFormat(path string) (Format, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".gml.gz"):
		return FormatGMLGzip, nil
	case strings.HasSuffix(lower, ".gml"):
		return FormatGML, nil
	case strings.HasSuffix(lower, ".dot"), strings.HasSuffix(lower, ".gv"):
		return FormatDOT, nil
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON, nil
	}
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = "." + string(f)
	}
	return "", fmt.Errorf("%w: %q does not end in any of %s", ErrUnknownFormat, path, strings.Join(names, ", "))
}

// CheckOverwrite fails with ErrFileExists when path exists and overwrite is false.
func CheckOverwrite(path string, overwrite bool) error {
	if overwrite {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrFileExists, path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	return nil
}

// Export writes g to path in the format implied by its extension and
// returns the size of the written file.
func Export(g *graph.Graph, path string, overwrite bool) (int64, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return 0, err
	}
	return writeFile(path, overwrite, func(w io.Writer) error {
		return Write(w, g, format)
	})
}

// Write encodes g to w in the given format.
func Write(w io.Writer, g *graph.Graph, format Format) error {
	switch format {
	case FormatGML:
		return WriteGML(w, g)
	case FormatGMLGzip:
		zw := gzip.NewWriter(w)
		if err := WriteGML(zw, g); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	case FormatDOT:
		return WriteDOT(w, g)
	case FormatJSON:
		return WriteJSON(w, g)
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// WriteJSON writes the graph as Cytoscape.js elements.
func WriteJSON(w io.Writer, g *graph.Graph) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(viz.ToCytoscapeElements(g)); err != nil {
		return fmt.Errorf("encoding graph JSON: %w", err)
	}
	return nil
}

// WriteFile writes data to path, refusing to replace an existing file
// unless overwrite is set. It returns the number of bytes written.
func WriteFile(path string, data []byte, overwrite bool) (int64, error) {
	return writeFile(path, overwrite, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func writeFile(path string, overwrite bool, write func(io.Writer) error) (int64, error) {
	if err := CheckOverwrite(path, overwrite); err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("closing %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
