// Package sqlparse turns raw definition text into parsed statements with
// their read sets. The actual SQL parsing is delegated to a Postgres-dialect
// parser; DuckDB speaks a Postgres surface for everything ducat needs to
// see, and the graph layer only consumes the read sets, so graph logic
// stays testable with a fake Parser returning canned statements.
package sqlparse

import (
	"sort"

	"github.com/auxten/postgresql-parser/pkg/sql/parser"
	"github.com/auxten/postgresql-parser/pkg/sql/sem/tree"
	"github.com/auxten/postgresql-parser/pkg/walk"

	"github.com/ducat-dev/ducat/internal/unit"
)

// Parser splits a definition script into statements and extracts, for each
// statement, whether it produces a result and which relations it reads.
type Parser interface {
	ParseScript(script string) ([]unit.Statement, error)
}

// PostgresParser is the production Parser implementation.
type PostgresParser struct{}

// NewPostgresParser creates a new Postgres-dialect parser.
func NewPostgresParser() *PostgresParser {
	return &PostgresParser{}
}

// ParseScript parses a script into its statements in file order. A
// statement is producing iff it is a result-returning query; its read set
// holds every referenced relation except CTE aliases defined in the same
// statement, sorted and deduplicated.
func (p *PostgresParser) ParseScript(script string) ([]unit.Statement, error) {
	stmts, err := parser.Parse(script)
	if err != nil {
		return nil, err
	}

	out := make([]unit.Statement, 0, len(stmts))
	for _, stmt := range stmts {
		reads, err := extractReads(stmt)
		if err != nil {
			return nil, err
		}
		out = append(out, unit.Statement{
			Text:      stmt.SQL,
			Producing: isProducing(stmt.AST),
			Reads:     reads,
		})
	}
	return out, nil
}

// isProducing reports whether the statement returns a result set the store
// can materialize under a table name.
func isProducing(ast tree.Statement) bool {
	switch ast.(type) {
	case *tree.Select, *tree.ParenSelect:
		return true
	default:
		return false
	}
}

// extractReads walks a single statement's AST collecting relation names,
// then removes the aliases of CTEs defined within the statement.
func extractReads(stmt parser.Statement) ([]string, error) {
	tables := make(map[string]struct{})
	ctes := make(map[string]struct{})

	w := &walk.AstWalker{
		Fn: func(_ interface{}, node interface{}) (stop bool) {
			switch n := node.(type) {
			case *tree.TableName:
				tables[n.Table()] = struct{}{}
			case *tree.UnresolvedObjectName:
				// Parts are stored reversed; the object name comes first.
				tables[n.Parts[0]] = struct{}{}
			case *tree.CTE:
				ctes[string(n.Name.Alias)] = struct{}{}
			}
			return false
		},
	}
	if _, err := w.Walk(parser.Statements{stmt}, nil); err != nil {
		return nil, err
	}

	reads := make([]string, 0, len(tables))
	for name := range tables {
		if _, isCTE := ctes[name]; isCTE {
			continue
		}
		reads = append(reads, name)
	}
	sort.Strings(reads)
	return reads, nil
}
