// Package unit defines the core domain types for ducat: transformation
// units, their parsed statements, and the routine contract.
package unit

import "context"

// Kind distinguishes the two closed variants of a transformation unit.
type Kind string

const (
	// KindSQL is a unit whose logic is a declarative query text.
	KindSQL Kind = "sql"
	// KindRoutine is a unit whose logic is an imperative Go routine with an
	// optional declared source query used only for dependency inference.
	KindRoutine Kind = "routine"
)

// Statement is one parsed SQL statement from a unit definition.
type Statement struct {
	// Text is the literal statement text as it appeared in the definition.
	Text string
	// Producing reports whether this is the unit's result-producing query.
	// Exactly one statement per unit may be producing; the rest are
	// side-effecting setup statements executed in file order before it.
	Producing bool
	// Reads holds the names of the relations the statement reads from,
	// CTE aliases excluded, sorted and deduplicated.
	Reads []string
}

// Unit is one named transformation. Units are created once when the
// registry is loaded and are immutable thereafter; execution produces
// external state in the store, never in this value.
type Unit struct {
	// Name uniquely identifies the unit across the registry. It is derived
	// from the definition's base name and is case-sensitive.
	Name string
	// Kind is the unit's variant tag.
	Kind Kind
	// Path is the definition file the unit was loaded from. Empty for
	// registered routines and in-memory sources.
	Path string
	// Statements holds the unit's parsed statements in file order. For
	// routine units these come from the declared source query, if any.
	Statements []Statement
	// SourceSQL is a routine unit's declared source query, used only to
	// compute dependencies and to feed RunContext.Source. Empty when the
	// routine declares none (the unit is then a root of the graph).
	SourceSQL string
	// Routine is the registered implementation for routine units.
	Routine Routine
}

// Producing returns the unit's single result-producing statement. The
// second return is false for routine units and malformed units.
func (u *Unit) Producing() (Statement, bool) {
	for _, s := range u.Statements {
		if s.Producing {
			return s, true
		}
	}
	return Statement{}, false
}

// Table is an in-memory relation, the exchange format between routines and
// the store.
type Table struct {
	Columns []string
	Rows    [][]any
}

// RunContext gives a routine read access to the shared store while it runs.
type RunContext interface {
	// Source returns the materialized result of the unit's declared source
	// query. It fails if the unit declared none.
	Source(ctx context.Context) (*Table, error)
	// Query runs an arbitrary read query against the store.
	Query(ctx context.Context, sql string) (*Table, error)
}

// Routine is the capability contract every imperative unit implements.
// Routines are registered by name on a registry source, never discovered
// reflectively.
type Routine interface {
	// SourceSQL returns the declared source query, or "" if none.
	SourceSQL() string
	// Run computes the unit's result. The returned table is persisted
	// under the unit's name with create-or-replace semantics.
	Run(ctx context.Context, rc RunContext) (*Table, error)
}
