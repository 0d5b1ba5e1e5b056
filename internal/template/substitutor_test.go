package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducat-dev/ducat/internal/apperrors"
)

func lookupFrom(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestSubstitute(t *testing.T) {
	s := NewWithLookup(lookupFrom(map[string]string{
		"BUCKET": "analytics",
		"ENV":    "prod",
	}))

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no placeholders", "SELECT 1", "SELECT 1"},
		{"single", "SELECT * FROM read_parquet('s3://{{BUCKET}}/x.parquet')", "SELECT * FROM read_parquet('s3://analytics/x.parquet')"},
		{"whitespace inside braces", "SELECT '{{ ENV }}'", "SELECT 'prod'"},
		{"repeated", "{{ENV}}-{{ENV}}", "prod-prod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Substitute(tt.in, "u")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubstituteUndefinedVariable(t *testing.T) {
	s := NewWithLookup(lookupFrom(nil))

	_, err := s.Substitute("SELECT '{{ MISSING }}'", "orders")
	require.Error(t, err)

	var uerr *apperrors.UndefinedVariableError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "MISSING", uerr.Variable)
	assert.Equal(t, "orders", uerr.Unit)
}

func TestSubstituteLenientKeepsPlaceholder(t *testing.T) {
	s := NewWithLookup(lookupFrom(nil))
	s.Lenient = true

	got, err := s.Substitute("SELECT '{{ MISSING }}'", "orders")
	require.NoError(t, err)
	assert.Equal(t, "SELECT '{{ MISSING }}'", got)
}
