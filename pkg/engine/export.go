package engine

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sanonone/kektorgraph/pkg/graph"
)

// Export writes the graph document to w.
func (e *Engine) Export(w io.Writer) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, err := e.graph.WriteTo(w); err != nil {
		return fmt.Errorf("failed to export graph: %w", err)
	}
	return nil
}

// SaveFile writes the graph document to path, atomically.
func (e *Engine) SaveFile(path string) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := e.graph.WriteTo(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// ImportReport describes the outcome of an import.
type ImportReport struct {
	Vertices int      `json:"vertices"`
	Edges    int      `json:"edges"`
	Rejected []string `json:"rejected,omitempty"`
}

// Import replaces the graph with the document read from r. Records that
// violate the integrity rules are skipped and listed in the report. On any
// other error the current graph is kept.
func (e *Engine) Import(r io.Reader) (*ImportReport, error) {
	g, err := graph.Read(r)
	if g == nil {
		return nil, err
	}

	report := &ImportReport{Vertices: g.VertexCount(), Edges: g.EdgeCount()}
	if err != nil {
		var fatal error
		forEachFault(err, func(fault error) {
			if !IsIntegrityError(fault) {
				fatal = errors.Join(fatal, fault)
				return
			}
			report.Rejected = append(report.Rejected, fault.Error())
		})
		if fatal != nil {
			return nil, fmt.Errorf("failed to import graph: %w", fatal)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.graph = g
	e.source = e.source.WithGraph(g)
	e.updateGauges()

	e.logger.Info("Graph imported", "vertices", report.Vertices, "edges", report.Edges, "rejected", len(report.Rejected))
	return report, nil
}

// IsIntegrityError reports whether err is a rejection by the graph's
// integrity rules rather than a failure of the engine itself.
func IsIntegrityError(err error) bool {
	return errors.Is(err, graph.ErrDuplicateID) || errors.Is(err, graph.ErrDanglingEdge)
}
