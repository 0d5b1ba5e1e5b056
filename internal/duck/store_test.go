package duck

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducat-dev/ducat/internal/unit"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	require.NoError(t, store.CreateSchema(context.Background(), "transform"))
	return store
}

func TestMaterializeReplacesPriorResult(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Materialize(ctx, "SELECT 1 AS x", "transform", "t"))
	table, err := store.ReadTable(ctx, "t")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	// A second materialization replaces the table, it does not append.
	require.NoError(t, store.Materialize(ctx, "SELECT 2 AS x UNION ALL SELECT 3 AS x", "transform", "t"))
	table, err = store.ReadTable(ctx, "t")
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
}

func TestMaterializeTableRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := &unit.Table{
		Columns: []string{"ok", "n", "ratio", "label"},
		Rows: [][]any{
			{true, int64(42), 0.5, "first"},
			{false, int64(7), 1.5, "second"},
		},
	}
	require.NoError(t, store.MaterializeTable(ctx, "transform", "routine_out", in))

	out, err := store.ReadTable(ctx, "routine_out")
	require.NoError(t, err)
	assert.Equal(t, []string{"ok", "n", "ratio", "label"}, out.Columns)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, true, out.Rows[0][0])
	assert.EqualValues(t, 42, out.Rows[0][1])
	assert.InDelta(t, 0.5, out.Rows[0][2], 1e-9)
	assert.EqualValues(t, "first", out.Rows[0][3])

	// Replacement semantics hold for in-memory tables too.
	require.NoError(t, store.MaterializeTable(ctx, "transform", "routine_out", in))
	out, err = store.ReadTable(ctx, "routine_out")
	require.NoError(t, err)
	assert.Len(t, out.Rows, 2)
}

func TestMaterializeTableRejectsEmpty(t *testing.T) {
	store := newTestStore(t)

	err := store.MaterializeTable(context.Background(), "transform", "t", &unit.Table{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns")
}

func TestQueryScansRows(t *testing.T) {
	store := newTestStore(t)

	table, err := store.Query(context.Background(), "SELECT 1 AS a, 'x' AS b UNION ALL SELECT 2, 'y' ORDER BY 1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.EqualValues(t, 1, table.Rows[0][0])
	assert.EqualValues(t, "y", table.Rows[1][1])
}

func TestColumnTypeInference(t *testing.T) {
	tests := []struct {
		name   string
		values []any
		want   string
	}{
		{name: "bool", values: []any{true}, want: "BOOLEAN"},
		{name: "int", values: []any{int64(1)}, want: "BIGINT"},
		{name: "float", values: []any{1.5}, want: "DOUBLE"},
		{name: "time", values: []any{time.Now()}, want: "TIMESTAMP"},
		{name: "bytes", values: []any{[]byte{1}}, want: "BLOB"},
		{name: "string", values: []any{"x"}, want: "VARCHAR"},
		{name: "nil then int", values: []any{nil, int64(1)}, want: "BIGINT"},
		{name: "all nil", values: []any{nil, nil}, want: "VARCHAR"},
		{name: "no rows", values: nil, want: "VARCHAR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &unit.Table{Columns: []string{"c"}}
			for _, v := range tt.values {
				table.Rows = append(table.Rows, []any{v})
			}
			assert.Equal(t, tt.want, columnType(table, 0))
		})
	}
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"plain"`, quoteIdent("plain"))
	assert.Equal(t, `"wei""rd"`, quoteIdent(`wei"rd`))
}
