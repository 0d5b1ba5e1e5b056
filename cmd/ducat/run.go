package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ducat-dev/ducat/internal/duck"
	"github.com/ducat-dev/ducat/internal/engine"
	"github.com/ducat-dev/ducat/internal/output"
)

var (
	runDB      string
	runSchema  string
	runOnError string
	runFormat  string
	runOutFile string
)

// runCmd executes every transformation unit exactly once, in dependency
// order.
var runCmd = &cobra.Command{
	Use:   "run <sql-dir>",
	Short: "Run all transformations in dependency order",
	Long: `Load every SQL file (and registered routine) under the given folder,
infer the dependency graph from the queries, and run each unit exactly once
in an order that respects every dependency. Each unit's result is stored as
a table named after the unit, replacing any prior result.

Exits non-zero if any unit fails.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd); err != nil {
			return err
		}
		return runAction(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runDB, "db", "ducat.duckdb", "Path to the DuckDB database file")
	runCmd.Flags().StringVar(&runSchema, "schema", "transform", "Schema the results are stored in")
	runCmd.Flags().StringVar(&runOnError, "on-error", string(engine.FailFast), "Failure policy: fail-fast or continue")
	runCmd.Flags().StringVar(&runFormat, "format", "table", "Report format: table, json, yaml")
	runCmd.Flags().StringVarP(&runOutFile, "output", "o", "", "Report file path (default: stdout)")
}

// runAction implements the core logic for the run command.
func runAction(ctx context.Context, dir string) error {
	policy, err := engine.ParseFailurePolicy(runOnError)
	if err != nil {
		return err
	}

	slog.Info("loading transformations", "dir", dir)
	reg, g, err := loadGraph(dir)
	if err != nil {
		return err
	}

	plan, err := g.Schedule()
	if err != nil {
		return err
	}
	slog.Info("plan ready", "units", len(plan))

	db := viper.GetString("db")
	store, err := duck.Open(db)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close() // Best-effort cleanup
	}()

	executor := engine.NewExecutor(store, viper.GetString("schema"), policy)
	report, err := executor.Execute(ctx, plan, reg, g)
	if err != nil {
		return err
	}

	slog.Info("run complete",
		"run_id", report.RunID,
		"duration", report.Duration,
		"succeeded", report.Summary.Succeeded,
		"failed", report.Summary.Failed,
		"skipped", report.Summary.Skipped)

	writer := os.Stdout
	if runOutFile != "" {
		file, err := os.Create(runOutFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			_ = file.Close() // Best-effort cleanup
		}()
		writer = file
	}

	formatter, err := output.NewFormatter(writer, runFormat)
	if err != nil {
		return err
	}
	if err := formatter.Format(report); err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}

	if report.HasFailures() {
		return fmt.Errorf("run failed: %d succeeded, %d failed, %d skipped",
			report.Summary.Succeeded, report.Summary.Failed, report.Summary.Skipped)
	}
	return nil
}
