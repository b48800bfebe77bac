package query

import "github.com/sanonone/kektorgraph/pkg/graph"

// Result is one value produced by a run: the vertex the gremlin ended on
// and, when the program projected one, the extracted value.
type Result struct {
	Vertex *graph.Vertex
	Value  any
}

// Get returns the projected value when there is one, the vertex otherwise.
func (r Result) Get() any {
	if r.Value != nil {
		return r.Value
	}
	return r.Vertex
}

// execute drives the stages until every one of them is exhausted.
//
// The machine starts at the rightmost stage and asks it for output. A stage
// that needs input answers Pull and the machine moves left; a stage that
// produces a gremlin hands it to its right neighbour. done is the rightmost
// stage known to be exhausted: it only grows, so the loop ends once it
// reaches the last stage.
func execute(g *graph.Graph, stages []stage) []Result {
	last := len(stages) - 1
	done := -1
	pc := last

	var (
		in      *Gremlin
		results []Result
	)
	for done < last {
		sig := stages[pc].next(g, in)

		switch sig.kind {
		case signalPull:
			in = nil
			if pc-1 > done {
				pc--
				continue
			}
			done = pc
		case signalDone:
			in = nil
			done = pc
		case signalGremlin:
			in = sig.gremlin
		case signalEmpty:
			in = nil
		}

		pc++
		if pc > last {
			if in != nil {
				results = append(results, Result{Vertex: in.Vertex, Value: in.value})
			}
			in = nil
			pc--
		}
	}
	return results
}
