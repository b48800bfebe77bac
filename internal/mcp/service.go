package mcp

import (
	"context"
	"fmt"
	"maps"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sanonone/kektorgraph/internal/protocol"
	"github.com/sanonone/kektorgraph/pkg/engine"
	"github.com/sanonone/kektorgraph/pkg/graph"
)

// Service implements the MCP tools on top of an engine.
type Service struct {
	engine *engine.Engine
}

func NewService(eng *engine.Engine) *Service {
	return &Service{engine: eng}
}

// --- Tool Handlers ---

func (s *Service) RunQuery(ctx context.Context, req *mcp.CallToolRequest, args RunQueryArgs) (*mcp.CallToolResult, RunQueryResult, error) {
	p, err := protocol.Parse(args.Query)
	if err != nil {
		return nil, RunQueryResult{}, err
	}
	res, err := s.engine.Run(p, args.Strict)
	if err != nil {
		return nil, RunQueryResult{}, fmt.Errorf("query failed: %w", err)
	}
	return nil, RunQueryResult{RunID: res.RunID, Results: res.Values, Truncated: res.Truncated}, nil
}

func (s *Service) GetVertex(ctx context.Context, req *mcp.CallToolRequest, args GetVertexArgs) (*mcp.CallToolResult, VertexResult, error) {
	record, err := s.engine.Vertex(args.ID)
	if err != nil {
		return nil, VertexResult{}, err
	}
	return nil, VertexResult{Vertex: record}, nil
}

func (s *Service) AddVertex(ctx context.Context, req *mcp.CallToolRequest, args AddVertexArgs) (*mcp.CallToolResult, AddVertexResult, error) {
	record := make(graph.Props, len(args.Properties)+1)
	maps.Copy(record, args.Properties)
	if args.ID != "" {
		record[graph.KeyID] = args.ID
	}

	id, err := s.engine.AddVertex(record)
	if err != nil {
		return nil, AddVertexResult{}, err
	}
	return nil, AddVertexResult{ID: id}, nil
}

func (s *Service) AddEdge(ctx context.Context, req *mcp.CallToolRequest, args AddEdgeArgs) (*mcp.CallToolResult, EdgeResult, error) {
	record := make(graph.Props, len(args.Properties)+3)
	maps.Copy(record, args.Properties)
	record[graph.KeyOut] = args.From
	record[graph.KeyIn] = args.To
	if args.Label != "" {
		record[graph.KeyLabel] = args.Label
	}

	stored, err := s.engine.AddEdge(record)
	if err != nil {
		return nil, EdgeResult{}, err
	}
	return nil, EdgeResult{Edge: stored}, nil
}

func (s *Service) Neighbors(ctx context.Context, req *mcp.CallToolRequest, args NeighborsArgs) (*mcp.CallToolResult, NeighborsResult, error) {
	found, err := s.engine.Neighbors(args.ID, engine.Direction(args.Direction), args.Labels...)
	if err != nil {
		return nil, NeighborsResult{}, err
	}
	if found == nil {
		found = []graph.Props{}
	}
	return nil, NeighborsResult{Vertices: found}, nil
}
