package export

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robert-haas/mevis/internal/graph"
)

func testGraph() *graph.Graph {
	g := graph.New(true)
	g.Attrs["node_click"] = "$hover"
	g.AddNode("n1", graph.Attrs{
		graph.AttrLabel: `ConceptNode "caf&eacute"`,
		graph.AttrColor: "red",
		graph.AttrShape: "rectangle",
		graph.AttrSize:  10.0,
		"mean":          0.5,
	})
	g.AddNode("l1", graph.Attrs{graph.AttrLabel: "ListLink"})
	g.AddEdge("l1", "n1", graph.Attrs{graph.AttrColor: "red"})
	return g
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"out.gml", FormatGML, false},
		{"out.GML.GZ", FormatGMLGzip, false},
		{"out.dot", FormatDOT, false},
		{"out.gv", FormatDOT, false},
		{"out.json", FormatJSON, false},
		{"out.gml.bz2", "", true},
		{"out.html", "", true},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.path)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("DetectFormat(%q) error = %v, want ErrUnknownFormat", tt.path, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, %v; want %q", tt.path, got, err, tt.want)
		}
	}
}

func TestWriteGML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGML(&buf, testGraph()); err != nil {
		t.Fatalf("WriteGML() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"graph [\n  directed 1\n",
		`  node_click "$hover"`,
		"    id 0\n    label \"n1\"\n",
		`    name "ConceptNode &quot;caf&amp;eacute&quot;"`,
		`    color "red"`,
		"    size 10.0\n",
		"    mean 0.5\n",
		"  edge [\n    source 1\n    target 0\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("GML missing %q in:\n%s", want, out)
		}
	}
	if strings.Count(out, "node [") != 2 || strings.Count(out, "edge [") != 1 {
		t.Errorf("unexpected element counts in:\n%s", out)
	}
}

func TestWriteGML_Positions(t *testing.T) {
	g := testGraph()
	g.SetPosition("n1", 1.5, -2)
	g.SetPosition("l1", 0, 0)

	var buf bytes.Buffer
	if err := WriteGML(&buf, g); err != nil {
		t.Fatalf("WriteGML() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "    x 1.5\n    y -2.0\n    graphics [\n      x 1.5\n      y -2.0\n    ]\n") {
		t.Errorf("GML missing coordinates in:\n%s", out)
	}
}

func TestGMLString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", `"plain"`},
		{`say "hi"`, `"say &quot;hi&quot;"`},
		{"a&b", `"a&amp;b"`},
		{"ü", `"&#252;"`},
		{"line\nbreak", `"line&#10;break"`},
	}
	for _, tt := range tests {
		if got := gmlString(tt.in); got != tt.want {
			t.Errorf("gmlString(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestWriteDOT(t *testing.T) {
	for _, directed := range []bool{true, false} {
		g := testGraph()
		g.Directed = directed
		g.SetPosition("n1", 10, 20)

		var buf bytes.Buffer
		if err := WriteDOT(&buf, g); err != nil {
			t.Fatalf("WriteDOT() error = %v", err)
		}
		out := buf.String()

		header, arrow := "digraph", "->"
		if !directed {
			header, arrow = "graph", "--"
		}
		for _, want := range []string{header + " mevis {", "n1", "l1", arrow, "fillcolor=red", "shape=box", "10,20!"} {
			if !strings.Contains(out, want) {
				t.Errorf("DOT (directed=%v) missing %q in:\n%s", directed, want, out)
			}
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, testGraph()); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	var decoded struct {
		Nodes []struct {
			Data map[string]any `json:"data"`
		} `json:"nodes"`
		Edges []struct {
			Data map[string]any `json:"data"`
		} `json:"edges"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded.Nodes) != 2 || len(decoded.Edges) != 1 {
		t.Fatalf("got %d nodes, %d edges", len(decoded.Nodes), len(decoded.Edges))
	}
	if decoded.Edges[0].Data["source"] != "l1" {
		t.Errorf("edge source = %v, want l1", decoded.Edges[0].Data["source"])
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	g := testGraph()

	for _, name := range []string{"g.gml", "g.gml.gz", "g.dot", "g.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			size, err := Export(g, path, false)
			if err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if size != info.Size() || size == 0 {
				t.Errorf("Export() size = %d, file has %d bytes", size, info.Size())
			}

			_, err = Export(g, path, false)
			if !errors.Is(err, ErrFileExists) {
				t.Errorf("second Export() error = %v, want ErrFileExists", err)
			}
			if _, err := Export(g, path, true); err != nil {
				t.Errorf("Export() with overwrite error = %v", err)
			}
		})
	}
}

func TestExport_GzipIsGML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.gml.gz")
	if _, err := Export(testGraph(), path, false); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("not gzip: %v", err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "graph [") {
		t.Errorf("decompressed content is not GML: %q", data[:20])
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	n, err := WriteFile(path, []byte("<html></html>"), false)
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if n != 13 {
		t.Errorf("WriteFile() = %d bytes, want 13", n)
	}
	if _, err := WriteFile(path, []byte("x"), false); !errors.Is(err, ErrFileExists) {
		t.Errorf("WriteFile() error = %v, want ErrFileExists", err)
	}
}
