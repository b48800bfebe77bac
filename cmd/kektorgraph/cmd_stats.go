package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sanonone/kektorgraph/pkg/client"
	"github.com/sanonone/kektorgraph/pkg/graph"
)

func runStats(cmd *cobra.Command, args []string) error {
	var st graph.Stats
	if serverURL != "" {
		remote, err := client.NewWithURL(serverURL, authToken).Stats()
		if err != nil {
			return err
		}
		st = *remote
	} else {
		_, eng, closer, err := setup()
		if err != nil {
			return err
		}
		defer closer.Close()
		st = eng.Stats()
	}

	printStats(cmd.OutOrStdout(), st)
	return nil
}

func printStats(w io.Writer, st graph.Stats) {
	fmt.Fprintf(w, "vertices: %s\n", humanize.Comma(int64(st.Vertices)))
	fmt.Fprintf(w, "edges:    %s\n", humanize.Comma(int64(st.Edges)))

	labels := make([]string, 0, len(st.Labels))
	for l := range st.Labels {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	for _, l := range labels {
		name := l
		if name == "" {
			name = "(none)"
		}
		fmt.Fprintf(w, "  %-20s %s\n", name, humanize.Comma(int64(st.Labels[l])))
	}
}
