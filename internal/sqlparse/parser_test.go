package sqlparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScriptSingleSelect(t *testing.T) {
	p := NewPostgresParser()

	stmts, err := p.ParseScript("SELECT id, amount FROM orders")
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	assert.True(t, stmts[0].Producing)
	assert.Equal(t, []string{"orders"}, stmts[0].Reads)
}

func TestParseScriptJoinReads(t *testing.T) {
	p := NewPostgresParser()

	stmts, err := p.ParseScript(`
		SELECT o.id, c.name
		FROM orders o
		JOIN customers c ON c.id = o.customer_id`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	assert.Equal(t, []string{"customers", "orders"}, stmts[0].Reads)
}

func TestParseScriptSubqueryReads(t *testing.T) {
	p := NewPostgresParser()

	stmts, err := p.ParseScript(`
		SELECT *
		FROM orders
		WHERE customer_id IN (SELECT id FROM customers)`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	assert.Equal(t, []string{"customers", "orders"}, stmts[0].Reads)
}

func TestParseScriptExcludesCTEAliases(t *testing.T) {
	p := NewPostgresParser()

	stmts, err := p.ParseScript(`
		WITH recent AS (
			SELECT * FROM events WHERE day > CURRENT_DATE - 7
		)
		SELECT recent.user_id, users.name
		FROM recent
		JOIN users ON users.id = recent.user_id`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	assert.Equal(t, []string{"events", "users"}, stmts[0].Reads)
	assert.NotContains(t, stmts[0].Reads, "recent")
}

func TestParseScriptMultipleStatements(t *testing.T) {
	p := NewPostgresParser()

	stmts, err := p.ParseScript(`
		CREATE TABLE scratch (id INT);
		INSERT INTO scratch VALUES (1);
		SELECT * FROM scratch`)
	require.NoError(t, err)
	require.Len(t, stmts, 3)

	assert.False(t, stmts[0].Producing)
	assert.False(t, stmts[1].Producing)
	assert.True(t, stmts[2].Producing)
}

func TestParseScriptStatementTextPreserved(t *testing.T) {
	p := NewPostgresParser()

	stmts, err := p.ParseScript("SELECT 1; SELECT 2")
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	assert.Contains(t, stmts[0].Text, "1")
	assert.Contains(t, stmts[1].Text, "2")
}

func TestParseScriptInvalidSQL(t *testing.T) {
	p := NewPostgresParser()

	_, err := p.ParseScript("SELEC oops FRM nowhere")
	require.Error(t, err)
}

func TestParseScriptDeterministic(t *testing.T) {
	p := NewPostgresParser()
	const sql = "SELECT * FROM b JOIN a ON a.id = b.id JOIN c ON c.id = b.id"

	first, err := p.ParseScript(sql)
	require.NoError(t, err)
	second, err := p.ParseScript(sql)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a", "b", "c"}, first[0].Reads)
}
