package engine

import (
	"context"

	"github.com/ducat-dev/ducat/internal/unit"
)

// Store is the shared analytical database every unit reads from and writes
// into. The handle is a single mutually-exclusive resource: acquired once
// per run, used by the executor under strictly sequential access, and
// released on every exit path. It is always passed explicitly, never held
// in a global.
type Store interface {
	// CreateSchema creates the target schema if needed and selects it for
	// the rest of the session.
	CreateSchema(ctx context.Context, schema string) error
	// Execute runs a side-effecting statement.
	Execute(ctx context.Context, sql string) error
	// Materialize runs a producing statement and persists its result as
	// schema.name, replacing any prior materialization.
	Materialize(ctx context.Context, sql, schema, name string) error
	// Query runs a read query and returns its result in memory.
	Query(ctx context.Context, sql string) (*unit.Table, error)
	// ReadTable returns the named relation's full contents.
	ReadTable(ctx context.Context, name string) (*unit.Table, error)
	// MaterializeTable persists an in-memory table as schema.name,
	// replacing any prior materialization.
	MaterializeTable(ctx context.Context, schema, name string, t *unit.Table) error
	// Close releases the store handle.
	Close() error
}
