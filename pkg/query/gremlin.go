package query

import "github.com/sanonone/kektorgraph/pkg/graph"

// Lineage is the side state shared by every gremlin spawned from the same
// starting vertex. Bookmarks written by one member are visible to all.
type Lineage struct {
	marks map[string]*graph.Vertex
}

// Mark bookmarks v under label, replacing any earlier bookmark.
func (l *Lineage) Mark(label string, v *graph.Vertex) {
	if l.marks == nil {
		l.marks = make(map[string]*graph.Vertex)
	}
	l.marks[label] = v
}

// Bookmark returns the vertex bookmarked under label.
func (l *Lineage) Bookmark(label string) (*graph.Vertex, bool) {
	v, ok := l.marks[label]
	return v, ok
}

// Gremlin is a traversal token: a current vertex, the lineage it belongs to,
// and an optional projected value. Gremlins only live inside one run.
type Gremlin struct {
	Vertex *graph.Vertex
	State  *Lineage

	value any
}

func newGremlin(v *graph.Vertex, state *Lineage) *Gremlin {
	if state == nil {
		state = &Lineage{}
	}
	return &Gremlin{Vertex: v, State: state}
}

// moveTo returns a new gremlin of the same lineage standing on v.
func (g *Gremlin) moveTo(v *graph.Vertex) *Gremlin {
	return &Gremlin{Vertex: v, State: g.State}
}

// Value returns the projected value, if a projection stage set one.
func (g *Gremlin) Value() (any, bool) {
	return g.value, g.value != nil
}
