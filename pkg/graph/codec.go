package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// document is the canonical serialized form of a graph: two ordered
// collections. Adjacency is not part of it; it is rebuilt on load.
type document struct {
	V []Props `json:"V"`
	E []Props `json:"E"`
}

func (g *Graph) document() document {
	doc := document{
		V: make([]Props, 0, g.vertices.Len()),
		E: make([]Props, 0, g.edges.Len()),
	}
	g.vertices.Scan(func(_ uint64, v *Vertex) bool {
		doc.V = append(doc.V, v.Record())
		return true
	})
	g.edges.Scan(func(_ uint64, e *Edge) bool {
		doc.E = append(doc.E, e.Record())
		return true
	})
	return doc
}

// MarshalJSON encodes the graph as {"V": [...], "E": [...]}. Vertex records
// carry KeyID, edge records carry KeyOut and KeyIn as ids plus KeyLabel.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.document())
}

// WriteTo writes the JSON form of the graph to w.
func (g *Graph) WriteTo(w io.Writer) (int64, error) {
	data, err := g.MarshalJSON()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

func (g *Graph) String() string {
	data, err := g.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("graph(%d vertices, %d edges)", g.VertexCount(), g.EdgeCount())
	}
	return string(data)
}

// Parse rebuilds a graph from its JSON form. Records go through AddVertex
// and AddEdge, so the integrity rules apply on load too: as with Build, a
// decodable document always yields a graph and err reports the records that
// were rejected.
func Parse(data []byte) (*Graph, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return Build(doc.V, doc.E)
}

// Read parses a graph from r.
func Read(r io.Reader) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph document: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return New(), nil
	}
	return Parse(data)
}

// Clone returns an independent deep copy of the graph, made through the
// serialized form. Vertex ids and edge order are preserved.
func (g *Graph) Clone() (*Graph, error) {
	data, err := g.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
