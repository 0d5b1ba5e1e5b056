// Package engine drives the ordered execution of transformation units
// against the shared store and aggregates per-unit outcomes.
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ducat-dev/ducat/internal/unit"
)

// Status is the outcome of one unit within a run.
type Status string

const (
	// StatusSucceeded indicates the unit materialized its result.
	StatusSucceeded Status = "succeeded"
	// StatusFailed indicates the store or routine rejected the unit.
	StatusFailed Status = "failed"
	// StatusSkipped indicates the unit never ran, either because the walk
	// halted or because a dependency failed.
	StatusSkipped Status = "skipped"
)

// FailurePolicy selects how the executor reacts to a failed unit.
type FailurePolicy string

const (
	// FailFast stops the walk at the first failure and marks every
	// remaining unit skipped. The safer default: later units may read
	// partially-initialized state.
	FailFast FailurePolicy = "fail-fast"
	// ContinueOnError skips only units that transitively depend on the
	// failed unit and keeps running independent branches.
	ContinueOnError FailurePolicy = "continue"
)

// ParseFailurePolicy converts a CLI/config string into a FailurePolicy.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(s) {
	case FailFast, ContinueOnError:
		return FailurePolicy(s), nil
	default:
		return "", fmt.Errorf("invalid failure policy %q (valid: %s, %s)", s, FailFast, ContinueOnError)
	}
}

// UnitResult is the recorded outcome of a single unit.
type UnitResult struct {
	Name     string        `json:"name" yaml:"name"`
	Kind     unit.Kind     `json:"kind" yaml:"kind"`
	Status   Status        `json:"status" yaml:"status"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration time.Duration `json:"duration_ns" yaml:"duration_ns"`
}

// RunSummary provides aggregate statistics about a run.
type RunSummary struct {
	TotalUnits int `json:"total_units" yaml:"total_units"`
	Succeeded  int `json:"succeeded" yaml:"succeeded"`
	Failed     int `json:"failed" yaml:"failed"`
	Skipped    int `json:"skipped" yaml:"skipped"`
}

// RunReport is the structured result of one full run, built incrementally
// by the executor in plan order.
type RunReport struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	Schema    string        `json:"schema" yaml:"schema"`
	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	EndTime   time.Time     `json:"end_time" yaml:"end_time"`
	Duration  time.Duration `json:"duration_ns" yaml:"duration_ns"`
	Units     []UnitResult  `json:"units" yaml:"units"`
	Summary   RunSummary    `json:"summary" yaml:"summary"`
}

// NewRunReport creates an empty report stamped with a fresh run id.
func NewRunReport(schema string) *RunReport {
	return &RunReport{
		RunID:     uuid.NewString(),
		Schema:    schema,
		StartTime: time.Now(),
		Units:     make([]UnitResult, 0),
	}
}

// Add appends a unit outcome in plan order.
func (r *RunReport) Add(ur UnitResult) {
	r.Units = append(r.Units, ur)
}

// Finalize stamps the end time and computes the summary.
func (r *RunReport) Finalize() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)

	r.Summary = RunSummary{TotalUnits: len(r.Units)}
	for _, ur := range r.Units {
		switch ur.Status {
		case StatusSucceeded:
			r.Summary.Succeeded++
		case StatusFailed:
			r.Summary.Failed++
		case StatusSkipped:
			r.Summary.Skipped++
		}
	}
}

// HasFailures reports whether any unit failed. The CLI exits non-zero iff
// this is true.
func (r *RunReport) HasFailures() bool {
	for _, ur := range r.Units {
		if ur.Status == StatusFailed {
			return true
		}
	}
	return false
}
