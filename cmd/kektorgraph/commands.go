package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath string
	dataFile   string
	strictMode bool
	logLevel   string
	httpAddr   string
	authToken  string
	serverURL  string
	jsonOutput bool
	outPath    string

	rootCmd = &cobra.Command{
		Use:   "kektorgraph",
		Short: "An embedded property graph with a lazy traversal language",
		Long: `KektorGraph keeps a property graph in memory and answers traversal
queries such as v('alice').out('knows').unique().take(10), over HTTP,
over MCP or straight from the command line.`,
		SilenceUsage: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE:  runServe, // Defined in cmd_serve.go
	}

	queryCmd = &cobra.Command{
		Use:   "query [text]",
		Short: "Run one query against a data file or a running server",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery, // Defined in cmd_query.go
	}

	mcpCmd = &cobra.Command{
		Use:   "mcp",
		Short: "Serve the graph as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE:  runMCP, // Defined in cmd_mcp.go
	}

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Write the graph document to a file or stdout",
		Args:  cobra.NoArgs,
		RunE:  runExport, // Defined in cmd_export.go
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Print the size of the graph",
		Args:  cobra.NoArgs,
		RunE:  runStats, // Defined in cmd_stats.go
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	pf.StringVar(&dataFile, "data", "", "graph document to load (overrides engine.data_file)")
	pf.BoolVar(&strictMode, "strict", false, "reject queries with unusable steps")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides server.log_level)")

	serveCmd.Flags().StringVar(&httpAddr, "addr", "", "listen address (overrides server.http_addr)")
	serveCmd.Flags().StringVar(&authToken, "token", "", "bearer token required by the API (overrides server.auth_token)")

	for _, cmd := range []*cobra.Command{queryCmd, statsCmd, exportCmd} {
		cmd.Flags().StringVar(&serverURL, "server", "", "base URL of a running server; empty runs locally")
		cmd.Flags().StringVar(&authToken, "token", "", "bearer token for --server")
	}
	queryCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the full result as JSON")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "file to write; empty writes to stdout")

	rootCmd.AddCommand(serveCmd, queryCmd, mcpCmd, statsCmd, exportCmd)
}
