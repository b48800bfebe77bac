// Command kektorgraph serves, queries and inspects an in-memory property
// graph.
//
//	kektorgraph serve --config kektorgraph.yaml
//	kektorgraph query --data family.json "v(1).out('parent').property('name')"
//	kektorgraph query --server http://localhost:9191 "v().take(3)"
//	kektorgraph mcp --data family.json
//	kektorgraph stats --data family.json
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
