// Package protocol reads and writes the text form of a query program:
//
//	g.v(1).as('me').in('family').out('family').unique().except('me').take(5)
//
// The leading "g." is optional and "v" is short for the vertex stage.
// Arguments are quoted strings, numbers, true, false, null, lists [...] and
// objects {key: value}. Predicates have no text form.
package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/sanonone/kektorgraph/pkg/graph"
	"github.com/sanonone/kektorgraph/pkg/query"
)

var (
	ErrEmptyQuery = errors.New("empty query")
	ErrSyntax     = errors.New("query syntax error")
	ErrNoText     = errors.New("argument has no text form")
)

var queryLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\.|[^"\\])*"|'(\\.|[^'\\])*'`},
	{Name: "Number", Pattern: `[-+]?\d+(\.\d+)?([eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[.(),\[\]{}:]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type chain struct {
	Root  bool    `parser:"@(\"g\" \".\")?"`
	Calls []*call `parser:"@@ (\".\" @@)*"`
}

type call struct {
	Name string   `parser:"@Ident"`
	Args []*value `parser:"\"(\" (@@ (\",\" @@)*)? \")\""`
}

type value struct {
	String *string `parser:"  @String"`
	Number *string `parser:"| @Number"`
	Bool   *string `parser:"| @(\"true\" | \"false\")"`
	Null   bool    `parser:"| @\"null\""`
	List   *list   `parser:"| @@"`
	Object *object `parser:"| @@"`
}

type list struct {
	Items []*value `parser:"\"[\" (@@ (\",\" @@)*)? \"]\""`
}

type object struct {
	Fields []*field `parser:"\"{\" (@@ (\",\" @@)*)? \"}\""`
}

type field struct {
	Key   string `parser:"(@Ident | @String) \":\""`
	Value *value `parser:"@@"`
}

var chainParser = participle.MustBuild[chain](
	participle.Lexer(queryLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// Parse turns the text form of a query into a program.
func Parse(text string) (query.Program, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyQuery
	}
	ast, err := chainParser.ParseString("", text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	prog := make(query.Program, 0, len(ast.Calls))
	for _, c := range ast.Calls {
		step := query.Step{Name: c.Name}
		if c.Name == "v" || c.Name == "V" {
			step.Name = query.StageVertex
		}
		for _, a := range c.Args {
			arg, err := a.convert()
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrSyntax, c.Name, err)
			}
			step.Args = append(step.Args, arg)
		}
		prog = append(prog, step)
	}
	return prog, nil
}

func (v *value) convert() (any, error) {
	switch {
	case v.String != nil:
		return unquote(*v.String)
	case v.Number != nil:
		return parseNumber(*v.Number)
	case v.Bool != nil:
		return *v.Bool == "true", nil
	case v.Null:
		return nil, nil
	case v.List != nil:
		items := make([]any, 0, len(v.List.Items))
		for _, item := range v.List.Items {
			x, err := item.convert()
			if err != nil {
				return nil, err
			}
			items = append(items, x)
		}
		return items, nil
	case v.Object != nil:
		props := make(graph.Props, len(v.Object.Fields))
		for _, f := range v.Object.Fields {
			key := f.Key
			if strings.HasPrefix(key, `"`) || strings.HasPrefix(key, `'`) {
				k, err := unquote(key)
				if err != nil {
					return nil, err
				}
				key = k
			}
			x, err := f.Value.convert()
			if err != nil {
				return nil, err
			}
			props[key] = x
		}
		return props, nil
	}
	return nil, errors.New("empty value")
}

func parseNumber(s string) (any, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("bad number %q", s)
	}
	return f, nil
}

// unquote strips the quotes of a single or double quoted string and resolves
// its escapes.
func unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != s[len(s)-1] {
		return "", fmt.Errorf("bad string %s", s)
	}
	body := s[1 : len(s)-1]
	if !strings.Contains(body, `\`) {
		return body, nil
	}

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i == len(body) {
			return "", fmt.Errorf("dangling escape in %s", s)
		}
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(body[i])
		}
	}
	return b.String(), nil
}
