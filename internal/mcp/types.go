package mcp

import "github.com/sanonone/kektorgraph/pkg/graph"

// --- Tool Arguments ---

type RunQueryArgs struct {
	Query  string `json:"query" jsonschema:"Traversal in text form, e.g. v('alice').out('knows').unique().take(10)"`
	Strict bool   `json:"strict,omitempty" jsonschema:"Fail on unknown or malformed steps instead of ignoring them"`
}

type RunQueryResult struct {
	RunID     string `json:"run_id"`
	Results   []any  `json:"results"` // vertex records or projected values
	Truncated bool   `json:"truncated,omitempty"`
}

type GetVertexArgs struct {
	ID string `json:"id" jsonschema:"Id of the vertex"`
}

type VertexResult struct {
	Vertex graph.Props `json:"vertex"`
}

type AddVertexArgs struct {
	ID         string         `json:"id,omitempty" jsonschema:"Id of the new vertex. Omit to get an autoincrement id"`
	Properties map[string]any `json:"properties,omitempty" jsonschema:"Properties of the vertex"`
}

type AddVertexResult struct {
	ID string `json:"id"`
}

type AddEdgeArgs struct {
	From       string         `json:"from" jsonschema:"Id of the tail vertex"`
	To         string         `json:"to" jsonschema:"Id of the head vertex"`
	Label      string         `json:"label,omitempty" jsonschema:"Relationship type, e.g. 'knows'"`
	Properties map[string]any `json:"properties,omitempty" jsonschema:"Properties of the edge"`
}

type EdgeResult struct {
	Edge graph.Props `json:"edge"`
}

type NeighborsArgs struct {
	ID        string   `json:"id" jsonschema:"Id of the start vertex"`
	Direction string   `json:"direction,omitempty" jsonschema:"One of out, in or both. Default out"`
	Labels    []string `json:"labels,omitempty" jsonschema:"Only follow edges with these labels"`
}

type NeighborsResult struct {
	Vertices []graph.Props `json:"vertices"`
}
