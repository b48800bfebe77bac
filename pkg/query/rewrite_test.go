package query

import (
	"errors"
	"slices"
	"testing"

	"github.com/sanonone/kektorgraph/pkg/graph"
)

func TestAliasExpansion(t *testing.T) {
	rw := NewRewriter()
	if err := rw.AddAlias("grandchildren",
		Step{Name: StageOut, Args: []any{"parent"}},
		Step{Name: StageOut, Args: []any{"parent"}},
	); err != nil {
		t.Fatal(err)
	}
	src := NewSource(familyGraph(t), Options{Rewriter: rw})

	q := src.V(1).Step("grandchildren")
	if got := ids(q.Run()); !slices.Equal(got, []string{"5"}) {
		t.Errorf("grandchildren of 1 = %v, want [5]", got)
	}
	if err := q.Validate(); err != nil {
		t.Errorf("alias should be a known stage: %v", err)
	}

	plan := q.Plan()
	if len(plan) != 3 || plan[1].Name != StageOut || plan[2].Name != StageOut {
		t.Errorf("plan = %s", plan)
	}
	if p := q.Program(); len(p) != 2 || p[1].Name != "grandchildren" {
		t.Errorf("rewriting modified the query: %s", p)
	}
}

func TestAliasRejectsBuiltinAndDuplicates(t *testing.T) {
	rw := NewRewriter()
	if err := rw.AddAlias(StageOut); !errors.Is(err, ErrMalformedStep) {
		t.Errorf("expected ErrMalformedStep for a built-in name, got %v", err)
	}
	if err := rw.AddAlias("kids", Step{Name: StageOut}); err != nil {
		t.Fatal(err)
	}
	if err := rw.AddAlias("kids", Step{Name: StageIn}); err == nil {
		t.Error("duplicate alias accepted")
	}
	if !rw.Has("kids") || rw.Has("parents") {
		t.Error("Has reports the wrong aliases")
	}
}

func TestTransformerPriority(t *testing.T) {
	rw := NewRewriter()
	var order []string
	mark := func(name string) Transformer {
		return func(p Program) Program {
			order = append(order, name)
			return p
		}
	}
	rw.AddTransformer(mark("low"), 1)
	rw.AddTransformer(mark("high"), 50)
	rw.AddTransformer(mark("mid-a"), 10)
	rw.AddTransformer(mark("mid-b"), 10)

	rw.Transform(Program{{Name: StageVertex}})
	want := []string{"high", "mid-a", "mid-b", "low"}
	if !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestAliasesRunBeforeTransformers(t *testing.T) {
	rw := NewRewriter()
	// drops every take step; it must see the take introduced by the alias
	rw.AddTransformer(func(p Program) Program {
		return slices.DeleteFunc(slices.Clone(p), func(s Step) bool { return s.Name == StageTake })
	}, 10)
	rw.AddAlias("first", Step{Name: StageTake, Args: []any{1}})

	src := NewSource(familyGraph(t), Options{Rewriter: rw})
	if got := len(src.V().Step("first").Run()); got != 5 {
		t.Errorf("expected the alias to expand before the transformer ran, got %d results", got)
	}
}

func TestNilTransformer(t *testing.T) {
	if err := NewRewriter().AddTransformer(nil, 1); err == nil {
		t.Error("nil transformer accepted")
	}
}

func TestTransformWithoutRewriter(t *testing.T) {
	var rw *Rewriter
	p := Program{{Name: StageVertex, Args: []any{graph.Props{"a": 1}}}}
	if got := rw.Transform(p); len(got) != 1 || got[0].Name != StageVertex {
		t.Errorf("nil rewriter changed the program: %s", got)
	}
}
