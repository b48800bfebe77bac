package graph

// Stats summarizes the size of a graph.
type Stats struct {
	Vertices int            `json:"vertices"`
	Edges    int            `json:"edges"`
	Labels   map[string]int `json:"labels"` // edge count per label
}

// Stats walks the edge collection once.
func (g *Graph) Stats() Stats {
	st := Stats{
		Vertices: g.vertices.Len(),
		Edges:    g.edges.Len(),
		Labels:   make(map[string]int),
	}
	g.edges.Scan(func(_ uint64, e *Edge) bool {
		st.Labels[e.Label]++
		return true
	})
	return st
}
