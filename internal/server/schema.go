package server

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/jsonschema-go/jsonschema"
)

// requestSchemas holds the resolved JSON Schemas of the request bodies.
type requestSchemas struct {
	query  *jsonschema.Resolved
	vertex *jsonschema.Resolved
	edge   *jsonschema.Resolved
	key    *jsonschema.Resolved
}

func newRequestSchemas() (*requestSchemas, error) {
	querySchema, err := jsonschema.For[QueryRequest](nil)
	if err != nil {
		return nil, fmt.Errorf("query schema: %w", err)
	}
	keySchema, err := jsonschema.For[EdgeKey](nil)
	if err != nil {
		return nil, fmt.Errorf("edge key schema: %w", err)
	}
	vertexSchema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"_id": idSchema(),
		},
	}
	edgeSchema := &jsonschema.Schema{
		Type:     "object",
		Required: []string{"_out", "_in"},
		Properties: map[string]*jsonschema.Schema{
			"_out":   idSchema(),
			"_in":    idSchema(),
			"_label": {Type: "string"},
		},
	}

	s := &requestSchemas{}
	for _, item := range []struct {
		dst    **jsonschema.Resolved
		schema *jsonschema.Schema
	}{
		{&s.query, querySchema},
		{&s.vertex, vertexSchema},
		{&s.edge, edgeSchema},
		{&s.key, keySchema},
	} {
		resolved, err := item.schema.Resolve(nil)
		if err != nil {
			return nil, err
		}
		*item.dst = resolved
	}
	return s, nil
}

// idSchema accepts a vertex id. Resolve requires the schemas to form a tree,
// so every property gets its own instance.
func idSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Types: []string{"string", "number"}}
}

// decodeValidated reads a JSON body, validates it against schema and
// decodes it into dst.
func decodeValidated(r io.Reader, schema *jsonschema.Resolved, dst any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}
