package server

import (
	"github.com/sanonone/kektorgraph/pkg/graph"
	"github.com/sanonone/kektorgraph/pkg/query"
)

// QueryRequest is the body of POST /graph/query. Exactly one of Query and
// Program must be set.
type QueryRequest struct {
	Query   string       `json:"query,omitempty" jsonschema:"Query in text form, e.g. v(1).out('knows').take(5)"`
	Program []query.Step `json:"program,omitempty" jsonschema:"Query as a list of steps"`
	Strict  bool         `json:"strict,omitempty" jsonschema:"Reject unusable steps instead of passing gremlins through"`
}

// VertexResponse is returned when a vertex is created.
type VertexResponse struct {
	ID string `json:"id"`
}

// EdgeKey identifies the edges removed by DELETE /graph/edges.
// An empty label removes edges with any label.
type EdgeKey struct {
	Out   string `json:"_out" jsonschema:"Id of the tail vertex"`
	In    string `json:"_in" jsonschema:"Id of the head vertex"`
	Label string `json:"_label,omitempty"`
}

// RemovedResponse reports how many items a delete removed.
type RemovedResponse struct {
	Removed int `json:"removed"`
}

// NeighborsResponse is returned by GET /graph/vertices/{id}/neighbors.
type NeighborsResponse struct {
	Vertices []graph.Props `json:"vertices"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
