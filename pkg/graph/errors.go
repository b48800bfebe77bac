// Package graph implements a small in-memory property graph.
//
// A Graph owns its vertices and edges. Vertices are addressed by string id
// through an O(1) index; edges live in an arena and are addressed by EdgeID
// handles, and each vertex keeps ordered lists of the handles of its
// outgoing and incoming edges. Every insertion goes through AddVertex or
// AddEdge, which enforce id uniqueness and referential integrity.
//
// A Graph is not safe for concurrent use. Callers that share one across
// goroutines must serialize access (see package engine).
package graph

import "errors"

// Sentinel errors for graph operations.
var (
	// ErrDuplicateID is returned when a vertex is inserted with an id that
	// is already indexed. The graph is left unchanged.
	ErrDuplicateID = errors.New("duplicate vertex id")

	// ErrDanglingEdge is returned when an edge's out or in id does not
	// resolve to a vertex of the graph. The graph is left unchanged.
	ErrDanglingEdge = errors.New("dangling edge")

	ErrVertexNotFound = errors.New("vertex not found")
	ErrEdgeNotFound   = errors.New("edge not found")

	// ErrInvalidDocument is returned when a serialized graph cannot be decoded.
	ErrInvalidDocument = errors.New("invalid graph document")
)
