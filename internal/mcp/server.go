// Package mcp exposes a graph engine as Model Context Protocol tools.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sanonone/kektorgraph/pkg/engine"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

func NewMCPServer(eng *engine.Engine) *mcp.Server {
	service := NewService(eng)

	s := mcp.NewServer(&mcp.Implementation{
		Name:    "KektorGraph",
		Version: Version,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name: "run_query",
		Description: "Run a graph traversal. Steps: v(ids...), out/in/both(labels...), property(key), " +
			"unique(), filter({key: value}), take(n), as(name), back(name), except(name), merge(names...).",
	}, service.RunQuery)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_vertex",
		Description: "Get the properties of a vertex by id.",
	}, service.GetVertex)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "add_vertex",
		Description: "Create a vertex with optional id and properties.",
	}, service.AddVertex)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "add_edge",
		Description: "Create a directed, labelled edge between two existing vertices.",
	}, service.AddEdge)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "neighbors",
		Description: "List the distinct vertices one hop away from a vertex.",
	}, service.Neighbors)

	return s
}
