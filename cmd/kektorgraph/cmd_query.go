package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sanonone/kektorgraph/pkg/client"
)

func runQuery(cmd *cobra.Command, args []string) error {
	text := args[0]
	out := cmd.OutOrStdout()

	if serverURL != "" {
		res, err := client.NewWithURL(serverURL, authToken).Query(text, strictMode)
		if err != nil {
			return err
		}
		return printResult(out, res.RunID, res.Results, res.Truncated)
	}

	_, eng, closer, err := setup()
	if err != nil {
		return err
	}
	defer closer.Close()

	res, err := eng.QueryText(text)
	if err != nil {
		return err
	}
	return printResult(out, res.RunID, res.Values, res.Truncated)
}

// printResult writes one JSON value per line, or the whole result as one
// JSON document with --json.
func printResult(w io.Writer, runID string, values []any, truncated bool) error {
	enc := json.NewEncoder(w)
	if jsonOutput {
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"run_id":    runID,
			"results":   values,
			"truncated": truncated,
		})
	}
	for _, v := range values {
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	if truncated {
		fmt.Fprintln(os.Stderr, "results truncated by max_results")
	}
	return nil
}
