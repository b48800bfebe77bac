package graph

import (
	"encoding/json"
	"reflect"
)

// Getter is anything whose values can be looked up by key. Vertex and Edge
// implement it.
type Getter interface {
	Get(key string) (any, bool)
}

// FindVertices is the general vertex finder. The shape of args selects the
// mode:
//
//   - no arguments: a snapshot of every vertex;
//   - a property map first: vertices matching every key/value pair
//     (see Match);
//   - anything else: the arguments are ids (a single slice of ids is
//     flattened), looked up in order, unknown ids are dropped.
func (g *Graph) FindVertices(args ...any) []*Vertex {
	if len(args) == 0 {
		return g.Vertices()
	}
	switch first := args[0].(type) {
	case Props:
		return g.SearchVertices(first)
	case map[string]any:
		return g.SearchVertices(first)
	case []string:
		return g.FindVerticesByIDs(first...)
	case []any:
		args = first
	}

	ids := make([]string, 0, len(args))
	for _, raw := range args {
		if id, ok := FormatID(raw); ok {
			ids = append(ids, id)
		}
	}
	return g.FindVerticesByIDs(ids...)
}

// FindVerticesByIDs resolves ids in order and silently drops the ones that
// are not indexed.
func (g *Graph) FindVerticesByIDs(ids ...string) []*Vertex {
	out := make([]*Vertex, 0, len(ids))
	for _, id := range ids {
		if v, ok := g.index[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

// SearchVertices returns the vertices matching every pair of filter, in
// insertion order.
func (g *Graph) SearchVertices(filter map[string]any) []*Vertex {
	var out []*Vertex
	g.vertices.Scan(func(_ uint64, v *Vertex) bool {
		if Match(v, filter) {
			out = append(out, v)
		}
		return true
	})
	return out
}

// FindOutEdges returns the outgoing edges of v in insertion order.
// The slice is a fresh resolution of v's adjacency list; the edges are the
// graph's own and must be treated as read-only.
func (g *Graph) FindOutEdges(v *Vertex) []*Edge {
	return g.resolve(v.out)
}

// FindInEdges returns the incoming edges of v in insertion order.
func (g *Graph) FindInEdges(v *Vertex) []*Edge {
	return g.resolve(v.in)
}

func (g *Graph) resolve(handles []EdgeID) []*Edge {
	out := make([]*Edge, 0, len(handles))
	for _, h := range handles {
		if e, ok := g.edges.Get(uint64(h)); ok {
			out = append(out, e)
		}
	}
	return out
}

// FindEdges returns the edges going from out to in. An empty label matches
// every label.
func (g *Graph) FindEdges(out, in, label string) []*Edge {
	v, ok := g.index[out]
	if !ok {
		return nil
	}
	var found []*Edge
	for _, e := range g.FindOutEdges(v) {
		if e.In == in && (label == "" || e.Label == label) {
			found = append(found, e)
		}
	}
	return found
}

// Match reports whether item holds every key of filter with a strictly
// equal value. A key the item does not have never matches.
func Match(item Getter, filter map[string]any) bool {
	for key, want := range filter {
		got, ok := item.Get(key)
		if !ok || !StrictEqual(got, want) {
			return false
		}
	}
	return true
}

// StrictEqual compares two property values. Numbers are equal when their
// values are, whatever their Go type. Slices and maps are never equal to
// anything.
func StrictEqual(a, b any) bool {
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	if aNum || bNum {
		return aNum && bNum && fa == fb
	}
	if !isComparable(a) || !isComparable(b) {
		return false
	}
	return a == b
}

func isComparable(x any) bool {
	t := reflect.TypeOf(x)
	return t == nil || t.Comparable()
}

func toFloat(x any) (float64, bool) {
	switch n := x.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
