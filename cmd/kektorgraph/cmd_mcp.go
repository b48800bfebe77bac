package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	kgmcp "github.com/sanonone/kektorgraph/internal/mcp"
)

// runMCP serves the tools over stdin/stdout. Logs go to stderr or the log
// file, never to stdout.
func runMCP(cmd *cobra.Command, args []string) error {
	_, eng, closer, err := setup()
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return kgmcp.NewMCPServer(eng).Run(ctx, &mcp.StdioTransport{})
}
