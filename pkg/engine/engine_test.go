package engine

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/sanonone/kektorgraph/pkg/graph"
	"github.com/sanonone/kektorgraph/pkg/query"
)

const familyDoc = `{
	"V": [
		{"_id": "ann", "born": 1950},
		{"_id": "bert", "born": 1948},
		{"_id": "cleo", "born": 1975},
		{"_id": "dan", "born": 1978}
	],
	"E": [
		{"_out": "ann", "_in": "cleo", "_label": "parent"},
		{"_out": "ann", "_in": "dan", "_label": "parent"},
		{"_out": "bert", "_in": "cleo", "_label": "parent"},
		{"_out": "bert", "_in": "dan", "_label": "parent"}
	]
}`

func openFamily(t *testing.T, opts Options) *Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "family.json")
	if err := os.WriteFile(path, []byte(familyDoc), 0644); err != nil {
		t.Fatal(err)
	}
	opts.DataFile = path
	eng, err := Open(opts)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return eng
}

func recordIDs(values []any) []string {
	var out []string
	for _, v := range values {
		if rec, ok := v.(graph.Props); ok {
			out = append(out, rec[graph.KeyID].(string))
		}
	}
	slices.Sort(out)
	return out
}

func TestOpenLoadsDataFile(t *testing.T) {
	eng := openFamily(t, DefaultOptions())

	st := eng.Stats()
	if st.Vertices != 4 || st.Edges != 4 {
		t.Fatalf("Stats = %+v, want 4 vertices and 4 edges", st)
	}
	rec, err := eng.Vertex("cleo")
	if err != nil {
		t.Fatal(err)
	}
	if rec["born"] != 1975.0 {
		t.Errorf("born = %v (%T)", rec["born"], rec["born"])
	}
}

func TestOpenErrors(t *testing.T) {
	// 1. Missing file
	if _, err := Open(Options{DataFile: filepath.Join(t.TempDir(), "nope.json")}); err == nil {
		t.Error("expected an error for a missing data file")
	}

	// 2. Broken document
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte("{not json"), 0644)
	if _, err := Open(Options{DataFile: path}); !errors.Is(err, graph.ErrInvalidDocument) {
		t.Errorf("expected ErrInvalidDocument, got %v", err)
	}

	// 3. Alias shadowing a built-in
	opts := Options{Aliases: map[string]query.Program{"out": {{Name: "in"}}}}
	if _, err := Open(opts); err == nil {
		t.Error("expected an error for an alias named like a built-in stage")
	}
}

func TestQueryText(t *testing.T) {
	eng := openFamily(t, DefaultOptions())

	res, err := eng.QueryText("g.v('cleo').as('me').in('parent').out('parent').unique().except('me')")
	if err != nil {
		t.Fatal(err)
	}
	if got := recordIDs(res.Values); !slices.Equal(got, []string{"dan"}) {
		t.Errorf("siblings of cleo = %v, want [dan]", got)
	}
	if res.RunID == "" {
		t.Error("missing run id")
	}

	res, err = eng.QueryText("v('ann').out('parent').property('born')")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Values) != 2 {
		t.Errorf("expected two projected values, got %v", res.Values)
	}
	for _, v := range res.Values {
		if _, ok := v.(float64); !ok {
			t.Errorf("projected value %v is %T, want float64", v, v)
		}
	}

	if _, err := eng.QueryText("v('ann'"); err == nil {
		t.Error("expected a syntax error")
	}
}

func TestResultsAreDetached(t *testing.T) {
	eng := openFamily(t, DefaultOptions())

	res, err := eng.QueryText("v('ann')")
	if err != nil {
		t.Fatal(err)
	}
	res.Values[0].(graph.Props)["born"] = 0

	rec, _ := eng.Vertex("ann")
	if rec["born"] != 1950.0 {
		t.Error("modifying a result changed the stored vertex")
	}
}

func TestStrictMode(t *testing.T) {
	eng := openFamily(t, DefaultOptions())
	prog := query.Program{
		{Name: query.StageVertex, Args: []any{"ann"}},
		{Name: "outt", Args: []any{"parent"}},
	}

	// 1. Lenient: the unknown step passes through
	res, err := eng.Query(prog)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Values) != 1 {
		t.Errorf("lenient run returned %d values, want 1", len(res.Values))
	}

	// 2. Strict on request
	if _, err := eng.Run(prog, true); !errors.Is(err, query.ErrUnrecognizedStage) {
		t.Errorf("expected ErrUnrecognizedStage, got %v", err)
	}

	// 3. Strict engine
	strict := openFamily(t, Options{Strict: true})
	if _, err := strict.Run(prog, false); !errors.Is(err, query.ErrUnrecognizedStage) {
		t.Errorf("strict engine accepted the program: %v", err)
	}
}

func TestAliasesFromOptions(t *testing.T) {
	opts := Options{Aliases: map[string]query.Program{
		"children": {{Name: query.StageOut, Args: []any{"parent"}}},
	}}
	eng := openFamily(t, opts)

	res, err := eng.Run(query.Program{{Name: query.StageVertex, Args: []any{"bert"}}, {Name: "children"}}, true)
	if err != nil {
		t.Fatal(err)
	}
	if got := recordIDs(res.Values); !slices.Equal(got, []string{"cleo", "dan"}) {
		t.Errorf("children of bert = %v", got)
	}

	if err := eng.AddAlias("parents", query.Step{Name: query.StageIn, Args: []any{"parent"}}); err != nil {
		t.Fatal(err)
	}
	if _, ok := eng.Aliases()["parents"]; !ok {
		t.Error("runtime alias not listed")
	}
}

func TestMaxResults(t *testing.T) {
	eng := openFamily(t, Options{MaxResults: 3})
	res, err := eng.QueryText("v()")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Values) != 3 || !res.Truncated {
		t.Errorf("got %d values, truncated=%v", len(res.Values), res.Truncated)
	}
}

func TestMutations(t *testing.T) {
	eng, err := Open(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	// 1. Vertices
	a, err := eng.AddVertex(graph.Props{"name": "a"})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := eng.AddVertex(graph.Props{"name": "b"})
	if _, err := eng.AddVertex(graph.Props{graph.KeyID: a}); !errors.Is(err, graph.ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}

	// 2. Edges
	rec, err := eng.AddEdge(graph.Props{graph.KeyOut: a, graph.KeyIn: b, graph.KeyLabel: "knows", "w": 2})
	if err != nil {
		t.Fatal(err)
	}
	if rec[graph.KeyLabel] != "knows" || rec["w"] != 2 {
		t.Errorf("edge record = %v", rec)
	}
	if _, err := eng.AddEdge(graph.Props{graph.KeyOut: a, graph.KeyIn: "zzz"}); !errors.Is(err, graph.ErrDanglingEdge) {
		t.Errorf("expected ErrDanglingEdge, got %v", err)
	}
	if !IsIntegrityError(graph.ErrDanglingEdge) {
		t.Error("dangling edge should count as an integrity error")
	}

	// 3. Neighbors
	nb, err := eng.Neighbors(b, DirIn)
	if err != nil {
		t.Fatal(err)
	}
	if len(nb) != 1 || nb[0][graph.KeyID] != a {
		t.Errorf("in-neighbors of b = %v", nb)
	}
	if _, err := eng.Neighbors("missing", DirOut); !errors.Is(err, graph.ErrVertexNotFound) {
		t.Errorf("expected ErrVertexNotFound, got %v", err)
	}

	// 4. Removal
	if n, err := eng.RemoveEdges(a, b, "knows"); err != nil || n != 1 {
		t.Errorf("RemoveEdges = %d, %v", n, err)
	}
	if _, err := eng.RemoveEdges(a, b, ""); !errors.Is(err, graph.ErrEdgeNotFound) {
		t.Errorf("expected ErrEdgeNotFound, got %v", err)
	}
	if err := eng.RemoveVertex(a); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Vertex(a); !errors.Is(err, graph.ErrVertexNotFound) {
		t.Errorf("expected ErrVertexNotFound, got %v", err)
	}
}

func TestViewWithPredicate(t *testing.T) {
	eng := openFamily(t, DefaultOptions())

	var names []string
	err := eng.View(func(src *query.Source) error {
		for _, v := range src.V().Filter(func(v *graph.Vertex) bool {
			born, _ := v.Props["born"].(float64)
			return born > 1970
		}).Vertices() {
			names = append(names, v.ID)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	slices.Sort(names)
	if !slices.Equal(names, []string{"cleo", "dan"}) {
		t.Errorf("names = %v", names)
	}
}

func TestExportImport(t *testing.T) {
	eng := openFamily(t, DefaultOptions())

	var buf bytes.Buffer
	if err := eng.Export(&buf); err != nil {
		t.Fatal(err)
	}

	other, _ := Open(DefaultOptions())
	report, err := other.Import(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if report.Vertices != 4 || report.Edges != 4 || len(report.Rejected) != 0 {
		t.Errorf("report = %+v", report)
	}
	res, _ := other.QueryText("v('dan').in('parent')")
	if got := recordIDs(res.Values); !slices.Equal(got, []string{"ann", "bert"}) {
		t.Errorf("parents of dan after import = %v", got)
	}

	// records breaking the integrity rules are reported, not fatal
	report, err = other.Import(strings.NewReader(`{"V":[{"_id":"x"},{"_id":"x"}],"E":[{"_out":"x","_in":"y"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if report.Vertices != 1 || len(report.Rejected) != 2 {
		t.Errorf("report = %+v", report)
	}

	// a broken document keeps the current graph
	if _, err := other.Import(strings.NewReader("[")); err == nil {
		t.Error("expected an error")
	}
	if other.Stats().Vertices != 1 {
		t.Error("failed import replaced the graph")
	}
}

func TestSaveFile(t *testing.T) {
	eng := openFamily(t, DefaultOptions())
	path := filepath.Join(t.TempDir(), "out.json")
	if err := eng.SaveFile(path); err != nil {
		t.Fatal(err)
	}
	reloaded, err := Open(Options{DataFile: path})
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Stats().Edges != 4 {
		t.Errorf("reloaded graph has %d edges", reloaded.Stats().Edges)
	}
}

func TestConcurrentQueriesAndMutations(t *testing.T) {
	eng := openFamily(t, DefaultOptions())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := eng.QueryText("v().both().unique()"); err != nil {
					t.Error(err)
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				id, err := eng.AddVertex(graph.Props{})
				if err != nil {
					t.Error(err)
					return
				}
				eng.AddEdge(graph.Props{graph.KeyOut: id, graph.KeyIn: "ann", graph.KeyLabel: "fan"})
			}
		}()
	}
	wg.Wait()

	if got := eng.Stats().Labels["fan"]; got != 400 {
		t.Errorf("fan edges = %d, want 400", got)
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := Config{Strict: true, MaxResults: 5, Aliases: map[string]query.Program{"kids": {{Name: "out"}}}}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	opts := cfg.Options()
	if !opts.Strict || opts.MaxResults != 5 || len(opts.Aliases) != 1 {
		t.Errorf("Options = %+v", opts)
	}

	if err := (Config{MaxResults: -1}).Validate(); err == nil {
		t.Error("negative max_results accepted")
	}
	if err := (Config{Aliases: map[string]query.Program{"take": nil}}).Validate(); err == nil {
		t.Error("alias shadowing a built-in accepted")
	}
}
