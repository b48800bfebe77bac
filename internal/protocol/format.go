package protocol

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/sanonone/kektorgraph/pkg/graph"
	"github.com/sanonone/kektorgraph/pkg/query"
)

// Format writes p in the text form read by Parse. It fails on arguments
// that have no text form, such as predicates.
func Format(p query.Program) (string, error) {
	var b strings.Builder
	b.WriteString("g")
	for _, step := range p {
		b.WriteByte('.')
		b.WriteString(step.Name)
		b.WriteByte('(')
		for i, arg := range step.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := formatValue(&b, arg); err != nil {
				return "", fmt.Errorf("%s: %w", step.Name, err)
			}
		}
		b.WriteByte(')')
	}
	return b.String(), nil
}

func formatValue(b *strings.Builder, v any) error {
	switch x := v.(type) {
	case nil:
		b.WriteString("null")
	case string:
		b.WriteString(quote(x))
	case bool:
		b.WriteString(strconv.FormatBool(x))
	case []string:
		items := make([]any, len(x))
		for i, s := range x {
			items[i] = s
		}
		return formatValue(b, items)
	case []any:
		b.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := formatValue(b, item); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case graph.Props:
		return formatObject(b, x)
	case map[string]any:
		return formatObject(b, x)
	default:
		if s, ok := graph.FormatID(v); ok && isNumber(v) {
			b.WriteString(s)
			return nil
		}
		return fmt.Errorf("%w: %T", ErrNoText, v)
	}
	return nil
}

func formatObject(b *strings.Builder, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quote(k))
		b.WriteString(": ")
		if err := formatValue(b, m[k]); err != nil {
			return err
		}
	}
	b.WriteByte('}')
	return nil
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\t", `\t`, "\r", `\r`)
	return "'" + r.Replace(s) + "'"
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}
