package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/sanonone/kektorgraph/pkg/engine"
	"github.com/sanonone/kektorgraph/pkg/graph"
	"github.com/sanonone/kektorgraph/pkg/query"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	eng, err := engine.Open(engine.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		t.Fatal(err)
	}
	if NewMCPServer(eng) == nil {
		t.Fatal("NewMCPServer returned nil")
	}
	return NewService(eng)
}

func TestToolsBuildAndQueryGraph(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	// 1. Vertices
	for _, name := range []string{"alice", "bob", "carol"} {
		_, out, err := s.AddVertex(ctx, nil, AddVertexArgs{ID: name, Properties: map[string]any{"name": name}})
		if err != nil {
			t.Fatal(err)
		}
		if out.ID != name {
			t.Errorf("id = %q, want %q", out.ID, name)
		}
	}
	_, auto, err := s.AddVertex(ctx, nil, AddVertexArgs{})
	if err != nil || auto.ID == "" {
		t.Fatalf("auto id vertex: %q, %v", auto.ID, err)
	}

	// 2. Edges
	for _, e := range []AddEdgeArgs{
		{From: "alice", To: "bob", Label: "knows"},
		{From: "bob", To: "carol", Label: "knows", Properties: map[string]any{"since": 2020}},
	} {
		if _, _, err := s.AddEdge(ctx, nil, e); err != nil {
			t.Fatal(err)
		}
	}
	_, edge, err := s.AddEdge(ctx, nil, AddEdgeArgs{From: "carol", To: "alice"})
	if err != nil {
		t.Fatal(err)
	}
	if edge.Edge[graph.KeyOut] != "carol" || edge.Edge[graph.KeyIn] != "alice" {
		t.Errorf("edge record = %v", edge.Edge)
	}
	if _, _, err := s.AddEdge(ctx, nil, AddEdgeArgs{From: "alice", To: "nobody"}); !errors.Is(err, graph.ErrDanglingEdge) {
		t.Errorf("expected ErrDanglingEdge, got %v", err)
	}

	// 3. Reads
	_, v, err := s.GetVertex(ctx, nil, GetVertexArgs{ID: "bob"})
	if err != nil {
		t.Fatal(err)
	}
	if v.Vertex["name"] != "bob" {
		t.Errorf("vertex = %v", v.Vertex)
	}

	_, res, err := s.RunQuery(ctx, nil, RunQueryArgs{Query: "v('alice').out('knows').out('knows').property('name')"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Results) != 1 || res.Results[0] != "carol" {
		t.Errorf("results = %v", res.Results)
	}

	_, nb, err := s.Neighbors(ctx, nil, NeighborsArgs{ID: "alice", Direction: "both"})
	if err != nil {
		t.Fatal(err)
	}
	if len(nb.Vertices) != 2 {
		t.Errorf("neighbors = %v", nb.Vertices)
	}
}

func TestToolErrors(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if _, _, err := s.GetVertex(ctx, nil, GetVertexArgs{ID: "missing"}); !errors.Is(err, graph.ErrVertexNotFound) {
		t.Errorf("GetVertex: expected ErrVertexNotFound, got %v", err)
	}
	if _, _, err := s.RunQuery(ctx, nil, RunQueryArgs{Query: "v(1).bogus()", Strict: true}); !errors.Is(err, query.ErrUnrecognizedStage) {
		t.Errorf("strict RunQuery: expected ErrUnrecognizedStage, got %v", err)
	}
	if _, _, err := s.RunQuery(ctx, nil, RunQueryArgs{Query: ""}); err == nil {
		t.Error("empty query accepted")
	}
	if _, _, err := s.Neighbors(ctx, nil, NeighborsArgs{ID: "missing"}); err == nil {
		t.Error("neighbors of a missing vertex accepted")
	}
}
