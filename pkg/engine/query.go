package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sanonone/kektorgraph/internal/protocol"
	"github.com/sanonone/kektorgraph/pkg/graph"
	"github.com/sanonone/kektorgraph/pkg/metrics"
	"github.com/sanonone/kektorgraph/pkg/query"
)

// Result is the detached outcome of one query run. Vertices are returned as
// records (their properties plus "_id"), projected values as they are.
type Result struct {
	RunID     string        `json:"run_id"`
	Values    []any         `json:"results"`
	Truncated bool          `json:"truncated,omitempty"`
	Duration  time.Duration `json:"-"`
}

// Query runs p in the engine's configured mode.
func (e *Engine) Query(p query.Program) (*Result, error) {
	return e.Run(p, e.opts.Strict)
}

// QueryText parses the text form of a query and runs it in the engine's
// configured mode.
func (e *Engine) QueryText(text string) (*Result, error) {
	p, err := protocol.Parse(text)
	if err != nil {
		return nil, err
	}
	return e.Run(p, e.opts.Strict)
}

// Run executes p. With strict set, or when the engine is strict, a program
// with unusable steps is rejected before it runs.
func (e *Engine) Run(p query.Program, strict bool) (*Result, error) {
	strict = strict || e.opts.Strict
	mode := "lenient"
	if strict {
		mode = "strict"
	}
	runID := uuid.NewString()
	start := time.Now()

	e.mu.RLock()
	defer e.mu.RUnlock()

	q := e.source.Query(p)

	var results []query.Result
	if strict {
		var err error
		results, err = q.RunStrict()
		if err != nil {
			forEachFault(err, recordFault)
			metrics.QueryRuns.WithLabelValues(mode, "rejected").Inc()
			e.logger.Warn("Query rejected", "run_id", runID, "query", q.String(), "error", err)
			return nil, err
		}
	} else {
		results = q.Run()
	}

	res := &Result{RunID: runID, Values: make([]any, 0, len(results))}
	for _, r := range results {
		if e.opts.MaxResults > 0 && len(res.Values) == e.opts.MaxResults {
			res.Truncated = true
			break
		}
		res.Values = append(res.Values, detach(r))
	}
	res.Duration = time.Since(start)

	metrics.QueryRuns.WithLabelValues(mode, "ok").Inc()
	metrics.QueryDuration.Observe(res.Duration.Seconds())
	metrics.QueryResults.Observe(float64(len(res.Values)))

	e.logger.Debug("Query executed",
		"run_id", runID,
		"query", q.String(),
		"mode", mode,
		"results", len(res.Values),
		"truncated", res.Truncated,
		"duration", res.Duration.String(),
	)
	return res, nil
}

func detach(r query.Result) any {
	if r.Value != nil {
		return r.Value
	}
	return r.Vertex.Record()
}

// forEachFault calls fn for each error joined in err, flattening nested
// joins.
func forEachFault(err error, fn func(error)) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			forEachFault(e, fn)
		}
		return
	}
	fn(err)
}

// Direction selects which edges Neighbors follows.
type Direction string

const (
	DirOut  Direction = "out"
	DirIn   Direction = "in"
	DirBoth Direction = "both"
)

// Neighbors returns the distinct vertices one hop away from id.
func (e *Engine) Neighbors(id string, dir Direction, labels ...string) ([]graph.Props, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, ok := e.graph.Vertex(id); !ok {
		return nil, fmt.Errorf("%w: %q", graph.ErrVertexNotFound, id)
	}

	q := e.source.V(id)
	switch dir {
	case DirOut, "":
		q = q.Out(labels...)
	case DirIn:
		q = q.In(labels...)
	case DirBoth:
		q = q.Both(labels...)
	default:
		return nil, fmt.Errorf("%w: unknown direction %q", query.ErrMalformedStep, dir)
	}

	vertices := q.Unique().Vertices()
	out := make([]graph.Props, len(vertices))
	for i, v := range vertices {
		out[i] = v.Record()
	}
	return out, nil
}
