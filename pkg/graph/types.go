package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Reserved record keys. They carry identity and topology in vertex/edge
// records and in the serialized document; every other key is a property.
const (
	KeyID    = "_id"
	KeyOut   = "_out"
	KeyIn    = "_in"
	KeyLabel = "_label"
)

// IsReserved reports whether key is one of the reserved record keys.
// Reserved keys are never stored as properties.
func IsReserved(key string) bool {
	switch key {
	case KeyID, KeyOut, KeyIn, KeyLabel:
		return true
	}
	return false
}

// Props is an open property map. Values are scalars (string, number, bool,
// nil) or slices of scalars.
type Props map[string]any

// Clone returns a shallow copy of p.
func (p Props) Clone() Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// EdgeID is the stable handle of an edge inside its graph's arena.
// Handles are assigned in insertion order and never reused.
type EdgeID uint64

// Vertex is a node of the property graph.
//
// The adjacency lists hold edge handles and are maintained by the Graph;
// they are never part of the serialized form.
type Vertex struct {
	ID    string
	Props Props

	seq uint64
	out []EdgeID
	in  []EdgeID
}

// Get returns the value stored under key. KeyID resolves to the vertex id.
func (v *Vertex) Get(key string) (any, bool) {
	if key == KeyID {
		return v.ID, true
	}
	val, ok := v.Props[key]
	return val, ok
}

// Degree returns the number of outgoing and incoming edges.
func (v *Vertex) Degree() (out, in int) {
	return len(v.out), len(v.in)
}

// Record returns a detached copy of the vertex as a record: its properties
// plus KeyID.
func (v *Vertex) Record() Props {
	rec := v.Props.Clone()
	rec[KeyID] = v.ID
	return rec
}

func (v *Vertex) String() string {
	return fmt.Sprintf("vertex(%s)", v.ID)
}

// Edge is a directed, labelled relationship between two vertices of the same
// graph. Out is the tail vertex id, In the head vertex id.
type Edge struct {
	ID    EdgeID
	Label string
	Out   string
	In    string
	Props Props
}

// Get returns the value stored under key. KeyLabel resolves to the label.
func (e *Edge) Get(key string) (any, bool) {
	if key == KeyLabel {
		return e.Label, true
	}
	val, ok := e.Props[key]
	return val, ok
}

// Record returns a detached copy of the edge as a record: its properties
// plus the three reserved keys.
func (e *Edge) Record() Props {
	rec := e.Props.Clone()
	rec[KeyOut] = e.Out
	rec[KeyIn] = e.In
	rec[KeyLabel] = e.Label
	return rec
}

func (e *Edge) String() string {
	return fmt.Sprintf("edge(%s -[%s]-> %s)", e.Out, e.Label, e.In)
}

// FormatID converts an id given by a caller into its lookup form.
// Ids are strings; numbers are formatted in canonical decimal so that 10,
// 10.0 and "10" all address the same vertex.
func FormatID(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return formatFloat(f), true
		}
		return v.String(), v != ""
	case int:
		return strconv.FormatInt(int64(v), 10), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return formatFloat(float64(v)), true
	case float64:
		return formatFloat(v), true
	case fmt.Stringer:
		s := v.String()
		return s, s != ""
	default:
		return "", false
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// nextNumber returns the smallest id value above f that formats differently
// from it. Past 2^53 consecutive integers are no longer representable, so
// the step becomes the next float64.
func nextNumber(f float64) float64 {
	if n := f + 1; n != f && math.Abs(f) < 1<<53 {
		return n
	}
	return math.Nextafter(f, math.Inf(1))
}

// numericID reports the numeric value of an id, if it has one.
func numericID(id string) (float64, bool) {
	f, err := strconv.ParseFloat(id, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
