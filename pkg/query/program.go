package query

import (
	"fmt"
	"slices"
	"strings"
)

// Built-in stage names.
const (
	StageVertex   = "vertex"
	StageOut      = "out"
	StageIn       = "in"
	StageBoth     = "both"
	StageProperty = "property"
	StageUnique   = "unique"
	StageFilter   = "filter"
	StageTake     = "take"
	StageAs       = "as"
	StageBack     = "back"
	StageExcept   = "except"
	StageMerge    = "merge"
)

type kind uint8

const (
	kindPassThrough kind = iota
	kindVertex
	kindOut
	kindIn
	kindBoth
	kindProperty
	kindUnique
	kindFilter
	kindTake
	kindAs
	kindBack
	kindExcept
	kindMerge
)

var kinds = map[string]kind{
	StageVertex:   kindVertex,
	StageOut:      kindOut,
	StageIn:       kindIn,
	StageBoth:     kindBoth,
	StageProperty: kindProperty,
	StageUnique:   kindUnique,
	StageFilter:   kindFilter,
	StageTake:     kindTake,
	StageAs:       kindAs,
	StageBack:     kindBack,
	StageExcept:   kindExcept,
	StageMerge:    kindMerge,
}

// IsBuiltin reports whether name is one of the built-in stages.
func IsBuiltin(name string) bool {
	_, ok := kinds[name]
	return ok
}

// Builtins returns the built-in stage names, sorted.
func Builtins() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Step is one stage of a program: a stage name and its arguments.
type Step struct {
	Name string `json:"name" yaml:"name"`
	Args []any  `json:"args,omitempty" yaml:"args,omitempty"`
}

func (s Step) String() string {
	parts := make([]string, len(s.Args))
	for i, a := range s.Args {
		if str, ok := a.(string); ok {
			parts[i] = fmt.Sprintf("%q", str)
			continue
		}
		parts[i] = fmt.Sprint(a)
	}
	return s.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Program is an ordered list of steps.
type Program []Step

func (p Program) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// Clone returns a copy of p that shares no step argument slices with it.
func (p Program) Clone() Program {
	out := make(Program, len(p))
	for i, s := range p {
		out[i] = Step{Name: s.Name, Args: slices.Clone(s.Args)}
	}
	return out
}
