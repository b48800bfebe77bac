// Package client provides a Go client for the KektorGraph HTTP API.
//
// It covers the whole surface of the server:
//   - Queries, in text form or as step programs.
//   - Vertex and edge management.
//   - Export and import of graph documents, synchronous or as background tasks.
//   - Introspection (stats, aliases, health).
//
// The client handles HTTP communication, JSON serialization and
// standardized error handling.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sanonone/kektorgraph/pkg/graph"
	"github.com/sanonone/kektorgraph/pkg/query"
)

// --- Custom Errors ---

// APIError represents an error returned by the KektorGraph API (status >= 400).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// --- JSON Response Structs ---

// QueryResult is the outcome of a query run on the server. Vertices come
// back as records carrying "_id".
type QueryResult struct {
	RunID     string `json:"run_id"`
	Results   []any  `json:"results"`
	Truncated bool   `json:"truncated,omitempty"`
}

type queryRequest struct {
	Query   string        `json:"query,omitempty"`
	Program query.Program `json:"program,omitempty"`
	Strict  bool          `json:"strict,omitempty"`
}

type vertexResponse struct {
	ID string `json:"id"`
}

type edgeKey struct {
	Out   string `json:"_out"`
	In    string `json:"_in"`
	Label string `json:"_label,omitempty"`
}

type removedResponse struct {
	Removed int `json:"removed"`
}

type neighborsResponse struct {
	Vertices []graph.Props `json:"vertices"`
}

// ImportReport describes the outcome of an import.
type ImportReport struct {
	Vertices int      `json:"vertices"`
	Edges    int      `json:"edges"`
	Rejected []string `json:"rejected,omitempty"`
}

// Task represents a background import on the server.
type Task struct {
	ID     string        `json:"id"`
	Status string        `json:"status"`
	Report *ImportReport `json:"report,omitempty"`
	Error  string        `json:"error,omitempty"`

	client *Client // Reference to the client for polling.
}

// --- Client ---

// Client is the Go client for interacting with KektorGraph.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for the server at host:port. An empty token sends
// no Authorization header.
func New(host string, port int, token string) *Client {
	return NewWithURL(fmt.Sprintf("http://%s:%d", host, port), token)
}

// NewWithURL creates a client for the server at baseURL, e.g.
// "https://graph.internal:9191".
func NewWithURL(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// jsonRequest is a helper method to execute all requests to the API.
// It handles JSON serialization, HTTP calls, and error management.
func (c *Client) jsonRequest(method, endpoint string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}
	return c.do(method, endpoint, reqBody)
}

func (c *Client) do(method, endpoint string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequest(method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil // For 204 responses (e.g., DELETE).
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		if json.Unmarshal(respBody, &errResp) == nil {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: errResp["error"]}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	return respBody, nil
}

func (c *Client) call(method, endpoint string, payload, out any) error {
	respBody, err := c.jsonRequest(method, endpoint, payload)
	if err != nil {
		return err
	}
	if out == nil || respBody == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// --- Task Methods ---

// Refresh updates the task's status by querying the server.
func (t *Task) Refresh() error {
	if t.client == nil {
		return fmt.Errorf("client is not associated with the task")
	}
	updatedTask, err := t.client.GetTaskStatus(t.ID)
	if err != nil {
		return err
	}
	t.Status = updatedTask.Status
	t.Report = updatedTask.Report
	t.Error = updatedTask.Error
	return nil
}

// Wait blocks until the task is completed, checking its status at regular intervals.
func (t *Task) Wait(interval, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-timer.C:
			return fmt.Errorf("timeout exceeded while waiting for task %s", t.ID)
		case <-ticker.C:
			if err := t.Refresh(); err != nil {
				return err
			}
			switch t.Status {
			case "completed":
				return nil
			case "failed":
				return fmt.Errorf("task %s failed with error: %s", t.ID, t.Error)
			case "running", "started":
				// Continue waiting.
			default:
				return fmt.Errorf("unknown task status: %s", t.Status)
			}
		}
	}
}

// GetTaskStatus retrieves the current state of a background task.
func (c *Client) GetTaskStatus(taskID string) (*Task, error) {
	var task Task
	if err := c.call(http.MethodGet, "/graph/tasks/"+url.PathEscape(taskID), nil, &task); err != nil {
		return nil, err
	}
	task.client = c
	return &task, nil
}

// --- Query Methods ---

// Query runs a query in text form, e.g. "v(1).out('knows').take(5)".
func (c *Client) Query(text string, strict bool) (*QueryResult, error) {
	var res QueryResult
	if err := c.call(http.MethodPost, "/graph/query", queryRequest{Query: text, Strict: strict}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// QueryProgram runs a query given as a step program. Programs holding
// predicates cannot be sent.
func (c *Client) QueryProgram(p query.Program, strict bool) (*QueryResult, error) {
	var res QueryResult
	if err := c.call(http.MethodPost, "/graph/query", queryRequest{Program: p, Strict: strict}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// --- Vertex and Edge Methods ---

// AddVertex creates a vertex and returns its id. Set "_id" in record to
// choose the id.
func (c *Client) AddVertex(record graph.Props) (string, error) {
	if record == nil {
		record = graph.Props{}
	}
	var resp vertexResponse
	if err := c.call(http.MethodPost, "/graph/vertices", record, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// GetVertex returns the record of a vertex.
func (c *Client) GetVertex(id string) (graph.Props, error) {
	var record graph.Props
	if err := c.call(http.MethodGet, "/graph/vertices/"+url.PathEscape(id), nil, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteVertex removes a vertex and its edges.
func (c *Client) DeleteVertex(id string) error {
	return c.call(http.MethodDelete, "/graph/vertices/"+url.PathEscape(id), nil, nil)
}

// Neighbors lists the vertices one hop away from id. dir is "out", "in" or
// "both".
func (c *Client) Neighbors(id, dir string, labels ...string) ([]graph.Props, error) {
	params := url.Values{}
	if dir != "" {
		params.Set("dir", dir)
	}
	for _, l := range labels {
		params.Add("label", l)
	}
	endpoint := "/graph/vertices/" + url.PathEscape(id) + "/neighbors"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var resp neighborsResponse
	if err := c.call(http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Vertices, nil
}

// AddEdge creates an edge from out to in and returns the stored record.
// props may be nil.
func (c *Client) AddEdge(out, in, label string, props graph.Props) (graph.Props, error) {
	record := props.Clone()
	record[graph.KeyOut] = out
	record[graph.KeyIn] = in
	if label != "" {
		record[graph.KeyLabel] = label
	}

	var stored graph.Props
	if err := c.call(http.MethodPost, "/graph/edges", record, &stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// DeleteEdges removes the edges from out to in with the given label (any
// label when empty) and returns how many were removed.
func (c *Client) DeleteEdges(out, in, label string) (int, error) {
	var resp removedResponse
	if err := c.call(http.MethodDelete, "/graph/edges", edgeKey{Out: out, In: in, Label: label}, &resp); err != nil {
		return 0, err
	}
	return resp.Removed, nil
}

// --- Document Methods ---

// Export returns the graph document ({"V": [...], "E": [...]}).
func (c *Client) Export() ([]byte, error) {
	return c.do(http.MethodGet, "/graph/export", nil)
}

// Import replaces the server's graph with doc.
func (c *Client) Import(doc []byte) (*ImportReport, error) {
	respBody, err := c.do(http.MethodPost, "/graph/import", bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}
	var report ImportReport
	if err := json.Unmarshal(respBody, &report); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &report, nil
}

// ImportAsync starts a background import and returns its task.
func (c *Client) ImportAsync(doc []byte) (*Task, error) {
	respBody, err := c.do(http.MethodPost, "/graph/import?async=true", bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}
	var task Task
	if err := json.Unmarshal(respBody, &task); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	task.client = c
	return &task, nil
}

// --- Introspection ---

func (c *Client) Stats() (*graph.Stats, error) {
	var st graph.Stats
	if err := c.call(http.MethodGet, "/graph/stats", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Aliases returns the aliases registered on the server.
func (c *Client) Aliases() (map[string]query.Program, error) {
	var aliases map[string]query.Program
	if err := c.call(http.MethodGet, "/graph/aliases", nil, &aliases); err != nil {
		return nil, err
	}
	return aliases, nil
}

// Health checks that the server is up.
func (c *Client) Health() error {
	return c.call(http.MethodGet, "/healthz", nil, nil)
}
