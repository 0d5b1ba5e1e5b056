package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ducat-dev/ducat/internal/apperrors"
	"github.com/ducat-dev/ducat/internal/graph"
	"github.com/ducat-dev/ducat/internal/registry"
	"github.com/ducat-dev/ducat/internal/unit"
)

// Executor walks an execution plan strictly sequentially over a single
// shared store handle. No two units ever materialize concurrently: the
// embedded store offers no cross-statement isolation strong enough for
// unordered concurrent writers.
type Executor struct {
	store  Store
	schema string
	policy FailurePolicy
}

// NewExecutor creates an executor targeting the given schema with the
// given failure policy.
func NewExecutor(store Store, schema string, policy FailurePolicy) *Executor {
	return &Executor{
		store:  store,
		schema: schema,
		policy: policy,
	}
}

// Execute runs every unit in plan order, materializing each result under
// schema.name, and returns the run report. Run-time failures are recorded
// per unit and cascaded per the failure policy; they never abort the walk
// silently and are never retried.
func (e *Executor) Execute(ctx context.Context, plan []string, reg *registry.Registry, g *graph.Graph) (*RunReport, error) {
	report := NewRunReport(e.schema)

	if err := e.prepareSchema(ctx); err != nil {
		return nil, err
	}

	halted := false
	skipped := make(map[string]struct{})

	for _, name := range plan {
		u, ok := reg.Unit(name)
		if !ok {
			// Plan and registry come from the same snapshot; a miss here is
			// a programming error, not a unit failure.
			return nil, fmt.Errorf("plan references unknown unit %s", name)
		}

		if _, skip := skipped[name]; halted || skip {
			report.Add(UnitResult{Name: name, Kind: u.Kind, Status: StatusSkipped})
			slog.Debug("unit skipped", "unit", name)
			continue
		}

		start := time.Now()
		err := e.runUnit(ctx, u)
		elapsed := time.Since(start)

		if err != nil {
			report.Add(UnitResult{
				Name:     name,
				Kind:     u.Kind,
				Status:   StatusFailed,
				Error:    err.Error(),
				Duration: elapsed,
			})
			slog.Error("unit failed", "unit", name, "error", err)

			if e.policy == FailFast {
				halted = true
			} else {
				for dep := range g.TransitiveDependents(name) {
					skipped[dep] = struct{}{}
				}
			}
			continue
		}

		report.Add(UnitResult{
			Name:     name,
			Kind:     u.Kind,
			Status:   StatusSucceeded,
			Duration: elapsed,
		})
		slog.Info("unit completed", "unit", name, "kind", u.Kind, "duration", elapsed.Round(time.Millisecond))
	}

	report.Finalize()
	return report, nil
}

// prepareSchema creates and selects the target schema before the walk.
func (e *Executor) prepareSchema(ctx context.Context) error {
	if err := e.store.CreateSchema(ctx, e.schema); err != nil {
		return fmt.Errorf("preparing schema %s: %w", e.schema, err)
	}
	return nil
}

// runUnit materializes one unit. For SQL units, side-effecting statements
// go to the store in file order before the producing statement is
// persisted under the unit's name. For routine units, the routine runs
// with read access to its declared source and its returned table is
// persisted the same way.
func (e *Executor) runUnit(ctx context.Context, u *unit.Unit) error {
	switch u.Kind {
	case unit.KindRoutine:
		rc := &runContext{store: e.store, sourceSQL: u.SourceSQL}
		table, err := u.Routine.Run(ctx, rc)
		if err != nil {
			return apperrors.NewRoutineError(u.Name, err)
		}
		if err := e.store.MaterializeTable(ctx, e.schema, u.Name, table); err != nil {
			return apperrors.NewExecutionError(u.Name, "", err)
		}
		return nil

	default:
		for _, s := range u.Statements {
			if s.Producing {
				continue
			}
			if err := e.store.Execute(ctx, s.Text); err != nil {
				return apperrors.NewExecutionError(u.Name, s.Text, err)
			}
		}
		producing, ok := u.Producing()
		if !ok {
			return apperrors.NewParseError(u.Name, "no result-producing statement", nil)
		}
		if err := e.store.Materialize(ctx, producing.Text, e.schema, u.Name); err != nil {
			return apperrors.NewExecutionError(u.Name, producing.Text, err)
		}
		return nil
	}
}
