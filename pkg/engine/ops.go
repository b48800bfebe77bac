package engine

import (
	"fmt"

	"github.com/sanonone/kektorgraph/pkg/graph"
)

// AddVertex inserts a vertex record and returns its id.
func (e *Engine) AddVertex(record graph.Props) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, err := e.graph.AddVertex(record)
	if err != nil {
		return "", err
	}
	e.updateGauges()
	return id, nil
}

// AddEdge inserts an edge record ({"_out", "_in", "_label", ...}) and
// returns the stored record.
func (e *Engine) AddEdge(record graph.Props) (graph.Props, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	edge, err := e.graph.AddEdge(record)
	if err != nil {
		return nil, err
	}
	e.updateGauges()
	return edge.Record(), nil
}

// Vertex returns a detached record of the vertex with the given id.
func (e *Engine) Vertex(id string) (graph.Props, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	v, ok := e.graph.Vertex(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", graph.ErrVertexNotFound, id)
	}
	return v.Record(), nil
}

// Edges returns detached records of the edges going from out to in.
// An empty label matches every label.
func (e *Engine) Edges(out, in, label string) []graph.Props {
	e.mu.RLock()
	defer e.mu.RUnlock()

	found := e.graph.FindEdges(out, in, label)
	records := make([]graph.Props, len(found))
	for i, edge := range found {
		records[i] = edge.Record()
	}
	return records
}

// RemoveVertex removes a vertex and every edge touching it.
func (e *Engine) RemoveVertex(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.graph.RemoveVertex(id); err != nil {
		return err
	}
	e.updateGauges()
	return nil
}

// RemoveEdges removes every edge from out to in carrying label (any label
// when empty) and returns how many were removed.
func (e *Engine) RemoveEdges(out, in, label string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	found := e.graph.FindEdges(out, in, label)
	if len(found) == 0 {
		return 0, fmt.Errorf("%w: %s -[%s]-> %s", graph.ErrEdgeNotFound, out, label, in)
	}
	for _, edge := range found {
		if err := e.graph.RemoveEdge(edge); err != nil {
			return 0, err
		}
	}
	e.updateGauges()
	return len(found), nil
}
