package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/sanonone/kektorgraph/internal/protocol"
	"github.com/sanonone/kektorgraph/pkg/engine"
	"github.com/sanonone/kektorgraph/pkg/graph"
	"github.com/sanonone/kektorgraph/pkg/query"
)

// registerHTTPHandlers sets up the routes of the REST API.
func (s *Server) registerHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /graph/query", s.handleQuery)

	mux.HandleFunc("POST /graph/vertices", s.handleVertexCreate)
	mux.HandleFunc("GET /graph/vertices/{id}", s.handleVertexGet)
	mux.HandleFunc("DELETE /graph/vertices/{id}", s.handleVertexDelete)
	mux.HandleFunc("GET /graph/vertices/{id}/neighbors", s.handleNeighbors)

	mux.HandleFunc("POST /graph/edges", s.handleEdgeCreate)
	mux.HandleFunc("DELETE /graph/edges", s.handleEdgeDelete)

	mux.HandleFunc("GET /graph/export", s.handleExport)
	mux.HandleFunc("POST /graph/import", s.handleImport)
	mux.HandleFunc("GET /graph/tasks/{id}", s.handleGetTask)

	mux.HandleFunc("GET /graph/stats", s.handleStats)
	mux.HandleFunc("GET /graph/aliases", s.handleAliases)

	// --- Debug (pprof) ---
	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := decodeValidated(s.body(w, r), s.schemas.query, &req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}

	var program query.Program
	switch {
	case req.Query != "" && len(req.Program) > 0:
		s.writeHTTPError(w, http.StatusBadRequest, "set either 'query' or 'program', not both")
		return
	case req.Query != "":
		p, err := protocol.Parse(req.Query)
		if err != nil {
			s.writeHTTPError(w, http.StatusBadRequest, err.Error())
			return
		}
		program = p
	case len(req.Program) > 0:
		program = query.Program(req.Program)
	default:
		s.writeHTTPError(w, http.StatusBadRequest, "one of 'query' or 'program' is required")
		return
	}

	res, err := s.Engine.Run(program, req.Strict)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, res)
}

func (s *Server) handleVertexCreate(w http.ResponseWriter, r *http.Request) {
	var record graph.Props
	if err := decodeValidated(s.body(w, r), s.schemas.vertex, &record); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}
	if record == nil {
		record = graph.Props{}
	}

	id, err := s.Engine.AddVertex(record)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusCreated, VertexResponse{ID: id})
}

func (s *Server) handleVertexGet(w http.ResponseWriter, r *http.Request) {
	record, err := s.Engine.Vertex(r.PathValue("id"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, record)
}

func (s *Server) handleVertexDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.RemoveVertex(r.PathValue("id")); err != nil {
		s.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleNeighbors serves GET /graph/vertices/{id}/neighbors?dir=in&label=a&label=b.
func (s *Server) handleNeighbors(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	dir := engine.Direction(strings.ToLower(params.Get("dir")))

	found, err := s.Engine.Neighbors(r.PathValue("id"), dir, params["label"]...)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	if found == nil {
		found = []graph.Props{}
	}
	s.writeHTTPResponse(w, http.StatusOK, NeighborsResponse{Vertices: found})
}

func (s *Server) handleEdgeCreate(w http.ResponseWriter, r *http.Request) {
	var record graph.Props
	if err := decodeValidated(s.body(w, r), s.schemas.edge, &record); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}

	stored, err := s.Engine.AddEdge(record)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusCreated, stored)
}

func (s *Server) handleEdgeDelete(w http.ResponseWriter, r *http.Request) {
	var key EdgeKey
	if err := decodeValidated(s.body(w, r), s.schemas.key, &key); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := s.Engine.RemoveEdges(key.Out, key.In, key.Label)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, RemovedResponse{Removed: n})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.Engine.Export(&buf); err != nil {
		s.writeEngineError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// handleImport replaces the graph with the posted document. With ?async=true
// the import runs in the background and the reply carries a task id.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(s.body(w, r))
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, fmt.Sprintf("failed to read body: %v", err))
		return
	}

	if r.URL.Query().Get("async") != "true" {
		report, err := s.Engine.Import(bytes.NewReader(data))
		if err != nil {
			s.writeEngineError(w, err)
			return
		}
		s.writeHTTPResponse(w, http.StatusOK, report)
		return
	}

	task := s.taskManager.NewTask()
	go func() {
		task.SetStatus(TaskStatusRunning)
		report, err := s.Engine.Import(bytes.NewReader(data))
		if err != nil {
			s.logger.Error("Background import failed", "task_id", task.ID, "error", err)
			task.SetError(err)
			return
		}
		task.Complete(report)
	}()

	info, _ := s.taskManager.GetTask(task.ID)
	s.writeHTTPResponse(w, http.StatusAccepted, info)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	info, found := s.taskManager.GetTask(r.PathValue("id"))
	if !found {
		s.writeHTTPError(w, http.StatusNotFound, "task not found")
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, info)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, s.Engine.Stats())
}

func (s *Server) handleAliases(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, s.Engine.Aliases())
}

// --- Helpers ---

func (s *Server) body(w http.ResponseWriter, r *http.Request) io.Reader {
	return http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, graph.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, graph.ErrVertexNotFound), errors.Is(err, graph.ErrEdgeNotFound):
		return http.StatusNotFound
	case engine.IsIntegrityError(err),
		errors.Is(err, graph.ErrInvalidDocument),
		errors.Is(err, protocol.ErrSyntax),
		errors.Is(err, protocol.ErrEmptyQuery),
		errors.Is(err, query.ErrUnrecognizedStage),
		errors.Is(err, query.ErrMalformedFilter),
		errors.Is(err, query.ErrMalformedStep):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.logger.Error("Request failed", "error", err)
	}
	s.writeHTTPError(w, code, err.Error())
}

func (s *Server) writeHTTPResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.Error("Failed to encode JSON response", "error", err)
		}
	}
}

func (s *Server) writeHTTPError(w http.ResponseWriter, statusCode int, message string) {
	s.writeHTTPResponse(w, statusCode, ErrorResponse{Error: message})
}
