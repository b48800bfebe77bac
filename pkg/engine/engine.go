// Package engine provides the embedded, concurrency-safe interface to a
// KektorGraph database.
//
// The graph store and the query machine are single-threaded. The Engine
// owns one graph and serializes access to it: queries run under a read lock
// for their whole duration, mutations take the write lock. Results leave the
// engine as detached values, never as pointers into the graph.
//
// Basic usage:
//
//	eng, err := engine.Open(engine.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	eng.AddVertex(graph.Props{"_id": "alice"})
//	res, err := eng.QueryText("v('alice').out('knows')")
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/sanonone/kektorgraph/pkg/graph"
	"github.com/sanonone/kektorgraph/pkg/metrics"
	"github.com/sanonone/kektorgraph/pkg/query"
)

// Options configures an Engine.
type Options struct {
	// DataFile is a JSON graph document loaded by Open. Empty starts with an
	// empty graph. The file is never written back.
	DataFile string

	// Strict makes Query and QueryText reject programs with unusable steps
	// instead of degrading those steps to pass-through.
	Strict bool

	// Aliases are registered on the engine's rewriter at Open.
	Aliases map[string]query.Program

	// MaxResults caps the number of values returned by one query.
	// 0 means no limit.
	MaxResults int

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns lenient, unlimited options with no data file.
func DefaultOptions() Options {
	return Options{}
}

// Engine is a lock-guarded graph database handle.
type Engine struct {
	mu       sync.RWMutex
	graph    *graph.Graph
	source   *query.Source
	rewriter *query.Rewriter

	opts   Options
	logger *slog.Logger
}

// Open creates an engine, registers the configured aliases and loads
// DataFile if one is set. Records of the data file that violate the graph's
// integrity rules are skipped and logged; an unreadable or undecodable file
// fails Open.
func Open(opts Options) (*Engine, error) {
	g := graph.New()

	if opts.DataFile != "" {
		f, err := os.Open(opts.DataFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open data file: %w", err)
		}
		defer f.Close()

		loaded, err := graph.Read(f)
		if loaded == nil {
			return nil, fmt.Errorf("failed to load data file %s: %w", opts.DataFile, err)
		}
		if err != nil {
			logger(opts).Warn("Data file contains rejected records", "file", opts.DataFile, "error", err)
		}
		g = loaded
	}

	return New(g, opts)
}

// New wraps an existing graph. The caller must not touch g afterwards
// except through the engine.
func New(g *graph.Graph, opts Options) (*Engine, error) {
	e := &Engine{
		graph:    g,
		rewriter: query.NewRewriter(),
		opts:     opts,
		logger:   logger(opts),
	}

	for name, steps := range opts.Aliases {
		if err := e.rewriter.AddAlias(name, steps...); err != nil {
			return nil, fmt.Errorf("invalid alias %q: %w", name, err)
		}
	}

	e.source = query.NewSource(g, query.Options{
		Rewriter: e.rewriter,
		Logger:   e.logger,
		OnFault:  recordFault,
	})
	e.updateGauges()

	e.logger.Info("Graph engine ready",
		"vertices", g.VertexCount(),
		"edges", g.EdgeCount(),
		"aliases", len(opts.Aliases),
		"strict", opts.Strict,
	)
	return e, nil
}

func logger(opts Options) *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return slog.Default()
}

// AddAlias registers an alias at runtime.
func (e *Engine) AddAlias(name string, steps ...query.Step) error {
	return e.rewriter.AddAlias(name, steps...)
}

// Aliases returns the registered aliases.
func (e *Engine) Aliases() map[string]query.Program {
	return e.rewriter.Aliases()
}

// View runs fn with read access to the graph. fn may build and run queries
// on src, including queries with predicates, but must not modify the graph
// or keep references to it after returning.
func (e *Engine) View(fn func(src *query.Source) error) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return fn(e.source)
}

// Update runs fn with exclusive access to the graph.
func (e *Engine) Update(fn func(g *graph.Graph) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.updateGauges()
	return fn(e.graph)
}

// Stats returns the current size of the graph.
func (e *Engine) Stats() graph.Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.Stats()
}

// updateGauges must be called with the lock held.
func (e *Engine) updateGauges() {
	metrics.GraphVertices.Set(float64(e.graph.VertexCount()))
	metrics.GraphEdges.Set(float64(e.graph.EdgeCount()))
}

func recordFault(err error) {
	metrics.StageFaults.WithLabelValues(faultKind(err)).Inc()
}

func faultKind(err error) string {
	switch {
	case errors.Is(err, query.ErrUnrecognizedStage):
		return "unrecognized_stage"
	case errors.Is(err, query.ErrMalformedFilter):
		return "malformed_filter"
	default:
		return "malformed_step"
	}
}
