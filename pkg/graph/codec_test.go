package graph

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
)

func edgeTriples(g *Graph) []string {
	var out []string
	for _, e := range g.Edges() {
		out = append(out, fmt.Sprintf("%s|%s|%s", e.Out, e.Label, e.In))
	}
	slices.Sort(out)
	return out
}

func TestJSONRoundTrip(t *testing.T) {
	g := newTestGraph(t)

	data, err := g.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte(`{"V":[`)) || !bytes.Contains(data, []byte(`"E":[`)) {
		t.Errorf("unexpected document shape: %s", data)
	}

	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if back.VertexCount() != g.VertexCount() || back.EdgeCount() != g.EdgeCount() {
		t.Fatalf("counts differ: %d/%d vs %d/%d",
			back.VertexCount(), back.EdgeCount(), g.VertexCount(), g.EdgeCount())
	}
	for _, v := range g.Vertices() {
		w, ok := back.Vertex(v.ID)
		if !ok {
			t.Errorf("vertex %s lost", v.ID)
			continue
		}
		for k, want := range v.Props {
			if !StrictEqual(w.Props[k], want) {
				t.Errorf("vertex %s prop %s = %v, want %v", v.ID, k, w.Props[k], want)
			}
		}
	}
	if !slices.Equal(edgeTriples(back), edgeTriples(g)) {
		t.Errorf("edge multiset differs:\n got %v\nwant %v", edgeTriples(back), edgeTriples(g))
	}
}

func TestParseHandWrittenDocument(t *testing.T) {
	doc := `{
		"V": [{"_id": 1, "name": "a"}, {"_id": "2"}, {"name": "auto"}],
		"E": [{"_out": 1, "_in": "2", "_label": "x"}, {"_out": "2", "_in": 1}]
	}`
	g, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if g.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3", g.VertexCount())
	}
	if _, ok := g.Vertex("3"); !ok {
		t.Error("auto id should continue after the numeric ids in the document")
	}
	if got := edgeTriples(g); !slices.Equal(got, []string{"1|x|2", "2||1"}) {
		t.Errorf("edges = %v", got)
	}
}

func TestParseKeepsAcceptedRecords(t *testing.T) {
	doc := `{"V":[{"_id":"a"},{"_id":"a"}],"E":[{"_out":"a","_in":"nope"}]}`
	g, err := Parse([]byte(doc))
	if !errors.Is(err, ErrDuplicateID) || !errors.Is(err, ErrDanglingEdge) {
		t.Errorf("expected joined duplicate and dangling errors, got %v", err)
	}
	if g == nil || g.VertexCount() != 1 || g.EdgeCount() != 0 {
		t.Errorf("graph should keep the accepted vertex only")
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte(`{"V": 12}`)); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestReadEmpty(t *testing.T) {
	g, err := Read(strings.NewReader("  \n"))
	if err != nil {
		t.Fatal(err)
	}
	if g.VertexCount() != 0 {
		t.Errorf("empty input should produce an empty graph")
	}
}

func TestWriteToRead(t *testing.T) {
	g := newTestGraph(t)
	var buf bytes.Buffer
	if _, err := g.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	back, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if back.String() != g.String() {
		t.Errorf("round trip changed the document:\n%s\n%s", back, g)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := newTestGraph(t)
	c, err := g.Clone()
	if err != nil {
		t.Fatal(err)
	}

	if err := c.RemoveVertex("1"); err != nil {
		t.Fatal(err)
	}
	v, _ := c.Vertex("10")
	v.Props["name"] = "changed"

	if g.VertexCount() != 3 || g.EdgeCount() != 3 {
		t.Errorf("original changed: %d vertices, %d edges", g.VertexCount(), g.EdgeCount())
	}
	orig, _ := g.Vertex("10")
	if orig.Props["name"] != "bob" {
		t.Errorf("clone shares property maps with the original")
	}
}
