package query

import (
	"fmt"
	"slices"
	"sync"
)

// AliasPriority is the priority of alias expansion. It is high so that
// aliases are expanded before ordinary transformers see the program.
const AliasPriority = 100

// Transformer rewrites a program before it runs. It must not modify its
// argument.
type Transformer func(Program) Program

type transformer struct {
	priority int
	fn       Transformer
}

// Rewriter holds the transformers applied to every program before it runs,
// and the alias names they introduce.
//
// A Rewriter is safe for concurrent use.
type Rewriter struct {
	mu           sync.RWMutex
	transformers []transformer
	aliases      map[string]Program
}

// NewRewriter returns a rewriter with no transformers.
func NewRewriter() *Rewriter {
	return &Rewriter{aliases: make(map[string]Program)}
}

// AddTransformer registers fn. Transformers run in descending priority,
// in registration order among equal priorities.
func (r *Rewriter) AddTransformer(fn Transformer, priority int) error {
	if fn == nil {
		return fmt.Errorf("%w: nil transformer", ErrMalformedStep)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.transformers, func(t transformer) bool { return priority > t.priority })
	if i < 0 {
		i = len(r.transformers)
	}
	r.transformers = slices.Insert(r.transformers, i, transformer{priority: priority, fn: fn})
	return nil
}

// AddAlias makes name stand for steps: every step called name is replaced by
// the steps, in order. Arguments given to the alias itself are dropped.
// name also becomes a known stage, so programs that use it before rewriting
// are not reported as unrecognized.
func (r *Rewriter) AddAlias(name string, steps ...Step) error {
	if name == "" {
		return fmt.Errorf("%w: empty alias name", ErrMalformedStep)
	}
	if IsBuiltin(name) {
		return fmt.Errorf("%w: alias %q shadows a built-in stage", ErrMalformedStep, name)
	}
	expansion := Program(steps).Clone()

	r.mu.Lock()
	if _, exists := r.aliases[name]; exists {
		r.mu.Unlock()
		return fmt.Errorf("%w: alias %q is already registered", ErrMalformedStep, name)
	}
	r.aliases[name] = expansion
	r.mu.Unlock()

	return r.AddTransformer(func(p Program) Program {
		if !slices.ContainsFunc(p, func(s Step) bool { return s.Name == name }) {
			return p
		}
		out := make(Program, 0, len(p)+len(expansion))
		for _, s := range p {
			if s.Name != name {
				out = append(out, s)
				continue
			}
			out = append(out, expansion.Clone()...)
		}
		return out
	}, AliasPriority)
}

// Has reports whether name is a registered alias.
func (r *Rewriter) Has(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.aliases[name]
	return ok
}

// Aliases returns a copy of the registered aliases.
func (r *Rewriter) Aliases() map[string]Program {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Program, len(r.aliases))
	for name, p := range r.aliases {
		out[name] = p.Clone()
	}
	return out
}

// Transform folds p through every transformer. p itself is left untouched.
func (r *Rewriter) Transform(p Program) Program {
	out := p.Clone()
	if r == nil {
		return out
	}
	r.mu.RLock()
	chain := slices.Clone(r.transformers)
	r.mu.RUnlock()

	for _, t := range chain {
		out = t.fn(out)
	}
	return out
}
