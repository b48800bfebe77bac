package query

import (
	"fmt"
	"math"

	"github.com/emirpasic/gods/sets/hashset"
	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/sanonone/kektorgraph/pkg/graph"
)

// Predicate decides whether a gremlin standing on v may continue.
type Predicate func(v *graph.Vertex, g *Gremlin) bool

// stage is one position of a compiled program. A stage is called with the
// incoming gremlin, nil when there is none, and keeps whatever it needs
// between calls in its own fields. A fresh set of stages is built for every
// run.
type stage interface {
	next(g *graph.Graph, in *Gremlin) signal
}

// buildStage turns a step into a stage. It always returns a usable stage;
// when the step cannot be honoured the stage is a pass-through (or, for
// traversals, an unfiltered traversal) and err says why.
func buildStage(step Step, known func(string) bool) (stage, error) {
	k, ok := kinds[step.Name]
	if !ok {
		if known != nil && known(step.Name) {
			return passThrough{}, nil
		}
		return passThrough{}, ErrUnrecognizedStage
	}

	switch k {
	case kindVertex:
		return &vertexStage{args: step.Args}, nil

	case kindOut, kindIn, kindBoth:
		match, err := edgeMatcher(step.Args)
		return &traverseStage{dir: k, match: match, pending: arraystack.New()}, err

	case kindProperty:
		key, err := stringArg(step.Args)
		if err != nil {
			return passThrough{}, err
		}
		return &propertyStage{key: key}, nil

	case kindUnique:
		return &uniqueStage{seen: hashset.New()}, nil

	case kindFilter:
		return filterFrom(step.Args)

	case kindTake:
		n, err := countArg(step.Args)
		if err != nil {
			return passThrough{}, err
		}
		return &takeStage{n: n}, nil

	case kindAs, kindBack, kindExcept:
		label, err := stringArg(step.Args)
		if err != nil {
			return passThrough{}, err
		}
		return &bookmarkStage{kind: k, label: label}, nil

	case kindMerge:
		labels, ok := stringList(step.Args)
		if !ok {
			return passThrough{}, fmt.Errorf("%w: merge takes bookmark labels", ErrMalformedStep)
		}
		return &mergeStage{labels: labels, pending: arraystack.New()}, nil
	}

	return passThrough{}, ErrUnrecognizedStage
}

// passThrough forwards whatever it is given. It stands in for aliases and
// for steps that could not be built.
type passThrough struct{}

func (passThrough) next(_ *graph.Graph, in *Gremlin) signal {
	if in == nil {
		return pull
	}
	return emit(in)
}

// vertexStage seeds the pipeline. The candidate set is materialized on the
// first call and handed out one vertex per call, in lookup order.
type vertexStage struct {
	args    []any
	pending *arraystack.Stack
}

func (s *vertexStage) next(g *graph.Graph, in *Gremlin) signal {
	if s.pending == nil {
		s.pending = arraystack.New()
		pushReversed(s.pending, g.FindVertices(s.args...))
	}
	top, ok := s.pending.Pop()
	if !ok {
		return done
	}
	var state *Lineage
	if in != nil {
		state = in.State
	}
	return emit(newGremlin(top.(*graph.Vertex), state))
}

// traverseStage walks from the incoming gremlin's vertex along its edges.
// It answers Pull, not Done, once the edges of one gremlin are spent: the
// next gremlin from the left starts a new walk.
type traverseStage struct {
	dir     kind
	match   func(*graph.Edge) bool
	origin  *Gremlin
	pending *arraystack.Stack
}

func (s *traverseStage) next(g *graph.Graph, in *Gremlin) signal {
	if s.pending.Empty() {
		if in == nil {
			return pull
		}
		s.origin = in
		pushReversed(s.pending, s.targets(g, in.Vertex))
	}
	top, ok := s.pending.Pop()
	if !ok {
		return pull
	}
	return emit(s.origin.moveTo(top.(*graph.Vertex)))
}

func (s *traverseStage) targets(g *graph.Graph, v *graph.Vertex) []*graph.Vertex {
	var out []*graph.Vertex
	add := func(edges []*graph.Edge, far func(*graph.Edge) string) {
		for _, e := range edges {
			if s.match != nil && !s.match(e) {
				continue
			}
			if w, ok := g.Vertex(far(e)); ok {
				out = append(out, w)
			}
		}
	}
	if s.dir == kindIn || s.dir == kindBoth {
		add(g.FindInEdges(v), func(e *graph.Edge) string { return e.Out })
	}
	if s.dir == kindOut || s.dir == kindBoth {
		add(g.FindOutEdges(v), func(e *graph.Edge) string { return e.In })
	}
	return out
}

// propertyStage projects a vertex property into the gremlin. Vertices
// without the property, or holding nil, are dropped.
type propertyStage struct {
	key string
}

func (s *propertyStage) next(_ *graph.Graph, in *Gremlin) signal {
	if in == nil {
		return pull
	}
	val, ok := in.Vertex.Get(s.key)
	if !ok || val == nil {
		return empty
	}
	in.value = val
	return emit(in)
}

// uniqueStage lets each vertex through once per run.
type uniqueStage struct {
	seen *hashset.Set
}

func (s *uniqueStage) next(_ *graph.Graph, in *Gremlin) signal {
	if in == nil {
		return pull
	}
	if s.seen.Contains(in.Vertex.ID) {
		return pull
	}
	s.seen.Add(in.Vertex.ID)
	return emit(in)
}

type filterStage struct {
	pred Predicate
}

func (s *filterStage) next(_ *graph.Graph, in *Gremlin) signal {
	if in == nil {
		return pull
	}
	if !s.pred(in.Vertex, in) {
		return pull
	}
	return emit(in)
}

func filterFrom(args []any) (stage, error) {
	if len(args) == 0 {
		return passThrough{}, fmt.Errorf("%w: missing argument", ErrMalformedFilter)
	}
	switch f := args[0].(type) {
	case Predicate:
		if f != nil {
			return &filterStage{pred: f}, nil
		}
	case func(*graph.Vertex, *Gremlin) bool:
		if f != nil {
			return &filterStage{pred: f}, nil
		}
	case func(*graph.Vertex) bool:
		if f != nil {
			return &filterStage{pred: func(v *graph.Vertex, _ *Gremlin) bool { return f(v) }}, nil
		}
	case graph.Props:
		return &filterStage{pred: matchProps(f)}, nil
	case map[string]any:
		return &filterStage{pred: matchProps(f)}, nil
	}
	return passThrough{}, fmt.Errorf("%w: want a property map or a predicate, got %T", ErrMalformedFilter, args[0])
}

func matchProps(filter map[string]any) Predicate {
	return func(v *graph.Vertex, _ *Gremlin) bool {
		return graph.Match(v, filter)
	}
}

// takeStage passes n gremlins, then reports Done and rearms itself.
type takeStage struct {
	n     int
	taken int
}

func (s *takeStage) next(_ *graph.Graph, in *Gremlin) signal {
	if s.taken == s.n {
		s.taken = 0
		return done
	}
	if in == nil {
		return pull
	}
	s.taken++
	return emit(in)
}

// bookmarkStage implements as, back and except, which all work on the
// lineage's bookmarks.
type bookmarkStage struct {
	kind  kind
	label string
}

func (s *bookmarkStage) next(_ *graph.Graph, in *Gremlin) signal {
	if in == nil {
		return pull
	}
	switch s.kind {
	case kindAs:
		in.State.Mark(s.label, in.Vertex)
	case kindBack:
		v, ok := in.State.Bookmark(s.label)
		if !ok {
			return pull
		}
		return emit(in.moveTo(v))
	case kindExcept:
		if v, ok := in.State.Bookmark(s.label); ok && v == in.Vertex {
			return pull
		}
	}
	return emit(in)
}

// mergeStage turns the bookmarks of a gremlin back into gremlins, one per
// label that is set.
type mergeStage struct {
	labels  []string
	origin  *Gremlin
	pending *arraystack.Stack
}

func (s *mergeStage) next(_ *graph.Graph, in *Gremlin) signal {
	if s.pending.Empty() {
		if in == nil {
			return pull
		}
		s.origin = in
		marked := make([]*graph.Vertex, 0, len(s.labels))
		for _, label := range s.labels {
			if v, ok := in.State.Bookmark(label); ok {
				marked = append(marked, v)
			}
		}
		pushReversed(s.pending, marked)
	}
	top, ok := s.pending.Pop()
	if !ok {
		return pull
	}
	return emit(s.origin.moveTo(top.(*graph.Vertex)))
}

func pushReversed(stack *arraystack.Stack, vs []*graph.Vertex) {
	for i := len(vs) - 1; i >= 0; i-- {
		stack.Push(vs[i])
	}
}

// edgeMatcher builds the edge filter of a traversal. A nil matcher accepts
// every edge; so does the matcher returned with an error.
func edgeMatcher(args []any) (func(*graph.Edge) bool, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	if len(args) > 1 {
		labels, ok := stringList(args)
		if !ok {
			return nil, fmt.Errorf("%w: edge labels must be strings", ErrMalformedStep)
		}
		return labelSet(labels), nil
	}

	switch f := args[0].(type) {
	case string:
		return func(e *graph.Edge) bool { return e.Label == f }, nil
	case []string:
		return labelSet(f), nil
	case []any:
		labels, ok := stringList(f)
		if !ok {
			return nil, fmt.Errorf("%w: edge labels must be strings", ErrMalformedStep)
		}
		return labelSet(labels), nil
	case graph.Props:
		return func(e *graph.Edge) bool { return graph.Match(e, f) }, nil
	case map[string]any:
		return func(e *graph.Edge) bool { return graph.Match(e, f) }, nil
	}
	return nil, fmt.Errorf("%w: edge filter must be a label, a list of labels or a property map, got %T", ErrMalformedStep, args[0])
}

func labelSet(labels []string) func(*graph.Edge) bool {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return func(e *graph.Edge) bool {
		_, ok := set[e.Label]
		return ok
	}
}

// stringArg reads a single label or key. Numbers are accepted in their
// canonical decimal form.
func stringArg(args []any) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: missing argument", ErrMalformedStep)
	}
	if s, ok := graph.FormatID(args[0]); ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: want a string, got %T", ErrMalformedStep, args[0])
}

// stringList flattens args into labels: either the args themselves or a
// single list argument.
func stringList(args []any) ([]string, bool) {
	if len(args) == 1 {
		switch list := args[0].(type) {
		case []string:
			return list, true
		case []any:
			args = list
		}
	}
	out := make([]string, 0, len(args))
	for _, a := range args {
		s, ok := a.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func countArg(args []any) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: take needs a count", ErrMalformedStep)
	}
	var n int64
	switch v := args[0].(type) {
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case uint:
		n = int64(v)
	case uint32:
		n = int64(v)
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt32 {
			return 0, fmt.Errorf("%w: take count %v is not an integer", ErrMalformedStep, v)
		}
		n = int64(v)
	default:
		return 0, fmt.Errorf("%w: take count must be a number, got %T", ErrMalformedStep, args[0])
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative take count %d", ErrMalformedStep, n)
	}
	return int(n), nil
}
