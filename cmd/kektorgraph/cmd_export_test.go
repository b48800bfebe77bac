package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sanonone/kektorgraph/pkg/engine"
	"github.com/sanonone/kektorgraph/pkg/graph"
)

func TestExportLocal(t *testing.T) {
	// 1. Setup
	eng, err := engine.Open(engine.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		t.Fatal(err)
	}
	eng.AddVertex(graph.Props{graph.KeyID: "a"})
	eng.AddVertex(graph.Props{graph.KeyID: "b"})
	if _, err := eng.AddEdge(graph.Props{graph.KeyOut: "a", graph.KeyIn: "b", graph.KeyLabel: "next"}); err != nil {
		t.Fatal(err)
	}

	// 2. To stdout
	var buf bytes.Buffer
	if err := exportLocal(&buf, eng, ""); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"next"`) {
		t.Errorf("exported document = %s", buf.String())
	}

	// 3. To a file, reloaded through Open
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := exportLocal(io.Discard, eng, path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
	reloaded, err := engine.Open(engine.Options{DataFile: path, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		t.Fatal(err)
	}
	if st := reloaded.Stats(); st.Vertices != 2 || st.Edges != 1 {
		t.Errorf("reloaded stats = %+v", st)
	}
}

func TestWriteDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := writeDocument(io.Discard, path, []byte(`{"V":[],"E":[]}`)); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != `{"V":[],"E":[]}` {
		t.Errorf("file = %q, %v", data, err)
	}
}
