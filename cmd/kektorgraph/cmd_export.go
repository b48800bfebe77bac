package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sanonone/kektorgraph/pkg/client"
	"github.com/sanonone/kektorgraph/pkg/engine"
)

func runExport(cmd *cobra.Command, args []string) error {
	if serverURL != "" {
		doc, err := client.NewWithURL(serverURL, authToken).Export()
		if err != nil {
			return err
		}
		return writeDocument(cmd.OutOrStdout(), outPath, doc)
	}

	_, eng, closer, err := setup()
	if err != nil {
		return err
	}
	defer closer.Close()
	return exportLocal(cmd.OutOrStdout(), eng, outPath)
}

// exportLocal saves the engine's graph to path, or streams it to w when
// path is empty.
func exportLocal(w io.Writer, eng *engine.Engine, path string) error {
	if path == "" {
		return eng.Export(w)
	}
	if err := eng.SaveFile(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func writeDocument(w io.Writer, path string, doc []byte) error {
	if path == "" {
		_, err := w.Write(doc)
		return err
	}
	return os.WriteFile(path, doc, 0o644)
}
