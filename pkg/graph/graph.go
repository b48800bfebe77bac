package graph

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/tidwall/btree"
)

// Graph is an in-memory property graph.
//
// Vertices and edges are kept in B-trees keyed by their insertion sequence,
// so iteration follows insertion order and removal is a keyed delete. The id
// index gives O(1) vertex lookup.
type Graph struct {
	vertices btree.Map[uint64, *Vertex]
	edges    btree.Map[uint64, *Edge]
	index    map[string]*Vertex

	// nextID is strictly greater than every numeric id seen so far.
	nextID   float64
	nextSeq  uint64
	nextEdge EdgeID
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		index:  make(map[string]*Vertex),
		nextID: 1,
	}
}

// Build creates a graph from vertex and edge records.
//
// Vertices are inserted first, then edges. Records that violate an
// invariant are skipped; the returned error joins every rejection, and the
// returned graph always holds the records that were accepted.
func Build(vertices, edges []Props) (*Graph, error) {
	g := New()
	errV := g.AddVertices(vertices)
	errE := g.AddEdges(edges)
	return g, errors.Join(errV, errE)
}

// AddVertex inserts a vertex built from record and returns its id.
//
// The id is taken from record[KeyID] when present; otherwise the graph
// assigns the next autoincrement id. Inserting an id that already exists
// fails with ErrDuplicateID and leaves the graph untouched. The record map
// is copied, never retained.
func (g *Graph) AddVertex(record Props) (string, error) {
	id, explicit := FormatID(record[KeyID])
	if explicit {
		if _, exists := g.index[id]; exists {
			return "", fmt.Errorf("%w: a vertex with id %q already exists", ErrDuplicateID, id)
		}
		if n, ok := numericID(id); ok && n >= g.nextID {
			g.nextID = nextNumber(math.Floor(n))
		}
	} else {
		id = g.autoID()
	}

	props := make(Props, len(record))
	for k, val := range record {
		if IsReserved(k) {
			continue
		}
		props[k] = val
	}

	g.nextSeq++
	v := &Vertex{ID: id, Props: props, seq: g.nextSeq}
	g.vertices.Set(v.seq, v)
	g.index[id] = v
	return id, nil
}

func (g *Graph) autoID() string {
	for {
		id := formatFloat(g.nextID)
		g.nextID = nextNumber(g.nextID)
		if _, taken := g.index[id]; !taken {
			return id
		}
	}
}

// AddVertices inserts every record it can. The returned error joins the
// failures, if any.
func (g *Graph) AddVertices(records []Props) error {
	var errs []error
	for _, rec := range records {
		if _, err := g.AddVertex(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AddEdge inserts an edge built from record. record[KeyOut] and
// record[KeyIn] are resolved as ids against the index; if either is missing
// the call fails with ErrDanglingEdge and the graph is not modified.
func (g *Graph) AddEdge(record Props) (*Edge, error) {
	outID, _ := FormatID(record[KeyOut])
	inID, _ := FormatID(record[KeyIn])

	in, inOK := g.index[inID]
	out, outOK := g.index[outID]
	if !inOK {
		return nil, fmt.Errorf("%w: in vertex %q was not found", ErrDanglingEdge, inID)
	}
	if !outOK {
		return nil, fmt.Errorf("%w: out vertex %q was not found", ErrDanglingEdge, outID)
	}

	label := ""
	if raw, ok := record[KeyLabel]; ok && raw != nil {
		if s, isString := raw.(string); isString {
			label = s
		} else {
			label = fmt.Sprint(raw)
		}
	}

	props := make(Props, len(record))
	for k, val := range record {
		if IsReserved(k) {
			continue
		}
		props[k] = val
	}

	g.nextEdge++
	e := &Edge{ID: g.nextEdge, Label: label, Out: out.ID, In: in.ID, Props: props}
	out.out = append(out.out, e.ID)
	in.in = append(in.in, e.ID)
	g.edges.Set(uint64(e.ID), e)
	return e, nil
}

// AddEdges inserts every record it can. The returned error joins the
// failures, if any.
func (g *Graph) AddEdges(records []Props) error {
	var errs []error
	for _, rec := range records {
		if _, err := g.AddEdge(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RemoveVertex removes the vertex with the given id. Every incident edge is
// removed first, then the vertex leaves the collection and the index.
func (g *Graph) RemoveVertex(id string) error {
	v, ok := g.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrVertexNotFound, id)
	}
	for _, h := range slices.Clone(v.in) {
		g.removeEdge(h)
	}
	for _, h := range slices.Clone(v.out) {
		g.removeEdge(h)
	}
	g.vertices.Delete(v.seq)
	delete(g.index, id)
	return nil
}

// RemoveEdge detaches e from both endpoints and drops it from the graph.
func (g *Graph) RemoveEdge(e *Edge) error {
	if e == nil {
		return ErrEdgeNotFound
	}
	if _, ok := g.edges.Get(uint64(e.ID)); !ok {
		return fmt.Errorf("%w: %s", ErrEdgeNotFound, e)
	}
	g.removeEdge(e.ID)
	return nil
}

func (g *Graph) removeEdge(h EdgeID) {
	e, ok := g.edges.Get(uint64(h))
	if !ok {
		return
	}
	if in, ok := g.index[e.In]; ok {
		in.in = removeHandle(in.in, h)
	}
	if out, ok := g.index[e.Out]; ok {
		out.out = removeHandle(out.out, h)
	}
	g.edges.Delete(uint64(h))
}

func removeHandle(list []EdgeID, h EdgeID) []EdgeID {
	if i := slices.Index(list, h); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}

// Vertex returns the vertex with the given id.
func (g *Graph) Vertex(id string) (*Vertex, bool) {
	v, ok := g.index[id]
	return v, ok
}

// Edge returns the edge with the given handle.
func (g *Graph) Edge(h EdgeID) (*Edge, bool) {
	return g.edges.Get(uint64(h))
}

// Vertices returns a snapshot of all vertices in insertion order.
func (g *Graph) Vertices() []*Vertex {
	return g.vertices.Values()
}

// Edges returns a snapshot of all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	return g.edges.Values()
}

func (g *Graph) VertexCount() int { return g.vertices.Len() }

func (g *Graph) EdgeCount() int { return g.edges.Len() }
