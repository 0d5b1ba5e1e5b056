// Package duck implements the engine.Store contract on an embedded DuckDB
// database.
package duck

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2" // registers the duckdb driver

	"github.com/ducat-dev/ducat/internal/unit"
)

// Store is a single-session handle to one file-backed or in-memory DuckDB
// database.
type Store struct {
	db *sql.DB
}

// Open opens the database at path; an empty path opens an in-memory
// database. The connection pool is pinned to one connection so every
// statement of a run shares a single session, which the sequential
// executor relies on.
func Open(path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("opening duckdb database %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening duckdb database %q: %w", path, err)
	}
	return &Store{db: db}, nil
}

// CreateSchema creates the schema if needed and makes it the session
// default.
func (s *Store) CreateSchema(ctx context.Context, schema string) error {
	if _, err := s.db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+quoteIdent(schema)); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, "USE "+quoteIdent(schema))
	return err
}

// Execute runs a side-effecting statement.
func (s *Store) Execute(ctx context.Context, query string) error {
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// Materialize persists a producing statement's result as schema.name,
// replacing any prior table of that name.
func (s *Store) Materialize(ctx context.Context, query, schema, name string) error {
	stmt := fmt.Sprintf("CREATE OR REPLACE TABLE %s.%s AS %s", quoteIdent(schema), quoteIdent(name), query)
	_, err := s.db.ExecContext(ctx, stmt)
	return err
}

// Query runs a read query and returns its full result in memory.
func (s *Store) Query(ctx context.Context, query string) (*unit.Table, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	table := &unit.Table{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, values)
	}
	return table, rows.Err()
}

// ReadTable returns the named relation's full contents.
func (s *Store) ReadTable(ctx context.Context, name string) (*unit.Table, error) {
	return s.Query(ctx, "SELECT * FROM "+quoteIdent(name))
}

// MaterializeTable persists an in-memory table as schema.name. Column
// types are inferred from the first non-nil value in each column,
// defaulting to VARCHAR.
func (s *Store) MaterializeTable(ctx context.Context, schema, name string, t *unit.Table) error {
	if t == nil || len(t.Columns) == 0 {
		return fmt.Errorf("materializing %s.%s: table has no columns", schema, name)
	}

	cols := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		cols[i] = quoteIdent(col) + " " + columnType(t, i)
	}
	target := quoteIdent(schema) + "." + quoteIdent(name)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	create := fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s)", target, strings.Join(cols, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return err
	}

	if len(t.Rows) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.Columns)), ", ")
		insert, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", target, placeholders))
		if err != nil {
			return err
		}
		defer insert.Close()

		for _, row := range t.Rows {
			if _, err := insert.ExecContext(ctx, row...); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Export writes the whole database to dir as parquet plus load scripts.
func (s *Store) Export(ctx context.Context, dir string) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("EXPORT DATABASE %s (FORMAT 'parquet')", quoteString(dir)))
	return err
}

// Import loads a previously exported database from dir.
func (s *Store) Import(ctx context.Context, dir string) error {
	_, err := s.db.ExecContext(ctx, "IMPORT DATABASE "+quoteString(dir))
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func columnType(t *unit.Table, col int) string {
	for _, row := range t.Rows {
		switch row[col].(type) {
		case nil:
			continue
		case bool:
			return "BOOLEAN"
		case int, int32, int64:
			return "BIGINT"
		case float32, float64:
			return "DOUBLE"
		case time.Time:
			return "TIMESTAMP"
		case []byte:
			return "BLOB"
		default:
			return "VARCHAR"
		}
	}
	return "VARCHAR"
}

func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
