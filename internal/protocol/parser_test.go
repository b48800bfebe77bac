package protocol

import (
	"errors"
	"reflect"
	"testing"

	"github.com/sanonone/kektorgraph/pkg/graph"
	"github.com/sanonone/kektorgraph/pkg/query"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected query.Program
		hasError bool
	}{
		{
			name:  "simple traversal",
			input: "g.v(1).out('knows')",
			expected: query.Program{
				{Name: query.StageVertex, Args: []any{1}},
				{Name: query.StageOut, Args: []any{"knows"}},
			},
		},
		{
			name:  "without prefix and with spaces",
			input: "  V( 'a' , \"b\" ) . unique ( ) \n",
			expected: query.Program{
				{Name: query.StageVertex, Args: []any{"a", "b"}},
				{Name: query.StageUnique},
			},
		},
		{
			name:  "siblings",
			input: "g.v(3).as('me').in('family').out('family').unique().except('me').take(5)",
			expected: query.Program{
				{Name: query.StageVertex, Args: []any{3}},
				{Name: query.StageAs, Args: []any{"me"}},
				{Name: query.StageIn, Args: []any{"family"}},
				{Name: query.StageOut, Args: []any{"family"}},
				{Name: query.StageUnique},
				{Name: query.StageExcept, Args: []any{"me"}},
				{Name: query.StageTake, Args: []any{5}},
			},
		},
		{
			name:  "objects lists and literals",
			input: `v({name: 'bob', "age": 4.5, alive: true, gone: null}).out(['a', 'b']).filter({n: -2})`,
			expected: query.Program{
				{Name: query.StageVertex, Args: []any{graph.Props{"name": "bob", "age": 4.5, "alive": true, "gone": nil}}},
				{Name: query.StageOut, Args: []any{[]any{"a", "b"}}},
				{Name: query.StageFilter, Args: []any{graph.Props{"n": -2}}},
			},
		},
		{
			name:  "escapes",
			input: `v('it\'s', "say \"hi\"\n")`,
			expected: query.Program{
				{Name: query.StageVertex, Args: []any{"it's", "say \"hi\"\n"}},
			},
		},
		{
			name:  "empty list and object",
			input: "v([]).filter({})",
			expected: query.Program{
				{Name: query.StageVertex, Args: []any{[]any{}}},
				{Name: query.StageFilter, Args: []any{graph.Props{}}},
			},
		},
		{name: "empty", input: "  ", hasError: true},
		{name: "missing parens", input: "v(1).out", hasError: true},
		{name: "unterminated string", input: "v('abc)", hasError: true},
		{name: "trailing dot", input: "v(1).", hasError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prog, err := Parse(tc.input)

			if (err != nil) != tc.hasError {
				t.Fatalf("Parse() error = %v, want hasError = %v", err, tc.hasError)
			}
			if tc.hasError {
				return
			}

			if !reflect.DeepEqual(prog, tc.expected) {
				t.Errorf("Parse() mismatch")
				t.Logf("GOT : %#v", prog)
				t.Logf("WANT: %#v", tc.expected)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse(""); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
	if _, err := Parse("v(1"); !errors.Is(err, ErrSyntax) {
		t.Errorf("expected ErrSyntax, got %v", err)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	prog := query.Program{
		{Name: query.StageVertex, Args: []any{graph.Props{"name": "o'neil", "n": 3}}},
		{Name: query.StageOut, Args: []any{[]string{"a", "b"}}},
		{Name: query.StageProperty, Args: []any{"name"}},
		{Name: query.StageTake, Args: []any{2}},
		{Name: "custom", Args: []any{nil, true, 1.5}},
	}

	text, err := Format(prog)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	back, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", text, err)
	}

	want := query.Program{
		{Name: query.StageVertex, Args: []any{graph.Props{"name": "o'neil", "n": 3}}},
		{Name: query.StageOut, Args: []any{[]any{"a", "b"}}},
		{Name: query.StageProperty, Args: []any{"name"}},
		{Name: query.StageTake, Args: []any{2}},
		{Name: "custom", Args: []any{nil, true, 1.5}},
	}
	if !reflect.DeepEqual(back, want) {
		t.Errorf("round trip through %q:\nGOT : %#v\nWANT: %#v", text, back, want)
	}
}

func TestFormatPredicate(t *testing.T) {
	prog := query.Program{{Name: query.StageFilter, Args: []any{func(*graph.Vertex) bool { return true }}}}
	if _, err := Format(prog); !errors.Is(err, ErrNoText) {
		t.Errorf("expected ErrNoText, got %v", err)
	}
}
