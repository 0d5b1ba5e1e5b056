package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ducat-dev/ducat/internal/lineage"
)

var lineageOutFile string

// lineageCmd renders the dependency graph as a mermaid flowchart.
var lineageCmd = &cobra.Command{
	Use:   "lineage <sql-dir>",
	Short: "Write the dependency graph as a mermaid diagram",
	Long: `Load the folder, infer the dependency graph, and write it as a
mermaid flowchart. By default the diagram is written to lineage.mmd inside
the folder; use --output to choose another path, or "-" for stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return lineageAction(args[0])
	},
}

func init() {
	rootCmd.AddCommand(lineageCmd)

	lineageCmd.Flags().StringVarP(&lineageOutFile, "output", "o", "", `Diagram file path ("-" for stdout)`)
}

func lineageAction(dir string) error {
	_, g, err := loadGraph(dir)
	if err != nil {
		return err
	}

	diagram := lineage.Mermaid(g)

	if lineageOutFile == "-" {
		fmt.Print(diagram)
		return nil
	}

	path := lineageOutFile
	if path == "" {
		path = filepath.Join(dir, "lineage.mmd")
	}
	if err := os.WriteFile(path, []byte(diagram), 0o644); err != nil {
		return fmt.Errorf("failed to write diagram: %w", err)
	}
	slog.Info("lineage diagram written", "path", path, "units", g.Len())
	return nil
}
