// Package output renders run reports for the CLI.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ducat-dev/ducat/internal/engine"
)

// Formatter renders a run report to a writer.
type Formatter interface {
	Format(report *engine.RunReport) error
}

// NewFormatter returns the formatter for a CLI format name.
func NewFormatter(w io.Writer, format string) (Formatter, error) {
	switch format {
	case "table":
		return NewTableFormatter(w), nil
	case "json":
		return NewJSONFormatter(w, true), nil
	case "yaml":
		return NewYAMLFormatter(w), nil
	default:
		return nil, fmt.Errorf("invalid format: %s (valid: table, json, yaml)", format)
	}
}

// TableFormatter formats a run report as a human-readable table.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// Format writes the run report as a table.
func (f *TableFormatter) Format(report *engine.RunReport) error {
	fmt.Fprintf(f.writer, "Run: %s\n", report.RunID)
	fmt.Fprintf(f.writer, "Schema: %s\n", report.Schema)
	fmt.Fprintf(f.writer, "Started: %s\n", report.StartTime.Format(time.RFC3339))
	fmt.Fprintf(f.writer, "Duration: %s\n", report.Duration.Round(time.Millisecond))
	fmt.Fprintln(f.writer)

	if len(report.Units) == 0 {
		fmt.Fprintln(f.writer, "No units executed.")
		return nil
	}

	fmt.Fprintln(f.writer, "Units:")
	fmt.Fprintln(f.writer, strings.Repeat("─", 60))
	for _, ur := range report.Units {
		fmt.Fprintf(f.writer, "%s %-30s %-8s %10s\n",
			statusSymbol(ur.Status), ur.Name, ur.Kind, ur.Duration.Round(time.Millisecond))
		if ur.Error != "" {
			fmt.Fprintf(f.writer, "    %s\n", ur.Error)
		}
	}
	fmt.Fprintln(f.writer, strings.Repeat("─", 60))
	fmt.Fprintln(f.writer)

	s := report.Summary
	fmt.Fprintf(f.writer, "Summary: %d units, %d succeeded, %d failed, %d skipped\n",
		s.TotalUnits, s.Succeeded, s.Failed, s.Skipped)
	return nil
}

func statusSymbol(status engine.Status) string {
	switch status {
	case engine.StatusSucceeded:
		return "✓"
	case engine.StatusFailed:
		return "✗"
	case engine.StatusSkipped:
		return "-"
	default:
		return "?"
	}
}
