package query

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/sanonone/kektorgraph/pkg/graph"
)

// Options configures a Source.
type Options struct {
	// Rewriter, if set, rewrites every program before it runs.
	Rewriter *Rewriter
	// Logger receives the lenient-mode warnings. Defaults to slog.Default().
	Logger *slog.Logger
	// OnFault, if set, is called by Run for every step it degrades.
	OnFault func(err error)
}

// Source starts queries against one graph.
type Source struct {
	graph    *graph.Graph
	rewriter *Rewriter
	logger   *slog.Logger
	onFault  func(error)
}

// NewSource binds a query source to g.
func NewSource(g *graph.Graph, opts Options) *Source {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{graph: g, rewriter: opts.Rewriter, logger: logger, onFault: opts.OnFault}
}

// WithGraph returns a source with the same options bound to g.
func (s *Source) WithGraph(g *graph.Graph) *Source {
	c := *s
	c.graph = g
	return &c
}

// Graph returns the graph the source queries.
func (s *Source) Graph() *graph.Graph { return s.graph }

// V starts a query at the vertices selected by args, with the same argument
// modes as graph.FindVertices: nothing for every vertex, a property map, or
// ids.
func (s *Source) V(args ...any) Query {
	return Query{src: s, program: Program{{Name: StageVertex, Args: args}}}
}

// Query wraps an already built program.
func (s *Source) Query(p Program) Query {
	return Query{src: s, program: p.Clone()}
}

// Query is an immutable query program bound to a Source. Every builder
// method returns a new Query, so a partially built query can be extended
// in several directions independently.
type Query struct {
	src     *Source
	program Program
}

// Step appends a step by name. It is how aliases and custom stages are
// added to a query.
func (q Query) Step(name string, args ...any) Query {
	return Query{src: q.src, program: append(slices.Clip(q.program), Step{Name: name, Args: args})}
}

// Out follows outgoing edges. With labels, only edges carrying one of them.
func (q Query) Out(labels ...string) Query { return q.Step(StageOut, labelArgs(labels)...) }

// In follows incoming edges.
func (q Query) In(labels ...string) Query { return q.Step(StageIn, labelArgs(labels)...) }

// Both follows edges in both directions, incoming first.
func (q Query) Both(labels ...string) Query { return q.Step(StageBoth, labelArgs(labels)...) }

// OutMatch follows outgoing edges whose properties match filter. The label
// can be matched with graph.KeyLabel.
func (q Query) OutMatch(filter graph.Props) Query { return q.Step(StageOut, filter) }

func (q Query) InMatch(filter graph.Props) Query { return q.Step(StageIn, filter) }

func (q Query) BothMatch(filter graph.Props) Query { return q.Step(StageBoth, filter) }

// Property projects the value of key. Vertices without it are dropped.
func (q Query) Property(key string) Query { return q.Step(StageProperty, key) }

func (q Query) Unique() Query { return q.Step(StageUnique) }

// Filter keeps the gremlins accepted by f: a Predicate, a
// func(*graph.Vertex) bool, or a property map matched like FindVertices.
func (q Query) Filter(f any) Query { return q.Step(StageFilter, f) }

func (q Query) Take(n int) Query { return q.Step(StageTake, n) }

// As bookmarks the current vertex under label.
func (q Query) As(label string) Query { return q.Step(StageAs, label) }

// Back returns to the vertex bookmarked under label.
func (q Query) Back(label string) Query { return q.Step(StageBack, label) }

// Except drops gremlins standing on the vertex bookmarked under label.
func (q Query) Except(label string) Query { return q.Step(StageExcept, label) }

// Merge continues from every vertex bookmarked under one of labels.
func (q Query) Merge(labels ...string) Query {
	args := make([]any, len(labels))
	for i, l := range labels {
		args[i] = l
	}
	return q.Step(StageMerge, args...)
}

func labelArgs(labels []string) []any {
	switch len(labels) {
	case 0:
		return nil
	case 1:
		return []any{labels[0]}
	default:
		return []any{slices.Clone(labels)}
	}
}

// Program returns a copy of the program as built, before rewriting.
func (q Query) Program() Program { return q.program.Clone() }

// Plan returns the program that would run: the built program after every
// transformer.
func (q Query) Plan() Program {
	return q.src.rewriter.Transform(q.program)
}

func (q Query) String() string { return q.program.String() }

// compile builds the stages of the rewritten program. The returned errors
// describe the steps that were degraded.
func (q Query) compile() ([]stage, []error) {
	plan := q.Plan()
	stages := make([]stage, len(plan))
	var faults []error
	for i, step := range plan {
		st, err := buildStage(step, q.src.rewriter.Has)
		if err != nil {
			faults = append(faults, fmt.Errorf("step %d %s: %w", i, step.Name, err))
		}
		stages[i] = st
	}
	return stages, faults
}

// Validate reports the steps that Run would degrade to pass-through.
func (q Query) Validate() error {
	_, faults := q.compile()
	return errors.Join(faults...)
}

// Run executes the query and returns every result in order.
//
// Run is lenient: steps that cannot be built are logged and pass gremlins
// through unchanged. The graph must not be modified while Run is executing.
func (q Query) Run() []Result {
	stages, faults := q.compile()
	for _, err := range faults {
		q.src.logger.Warn("query step degraded to pass-through", "query", q.String(), "error", err)
		if q.src.onFault != nil {
			q.src.onFault(err)
		}
	}
	return execute(q.src.graph, stages)
}

// RunStrict is Run without the leniency: if any step is unusable nothing
// runs and the error lists every such step.
func (q Query) RunStrict() ([]Result, error) {
	stages, faults := q.compile()
	if err := errors.Join(faults...); err != nil {
		return nil, err
	}
	return execute(q.src.graph, stages), nil
}

// Vertices runs the query and keeps only the vertices of the results.
func (q Query) Vertices() []*graph.Vertex {
	results := q.Run()
	out := make([]*graph.Vertex, len(results))
	for i, r := range results {
		out[i] = r.Vertex
	}
	return out
}
