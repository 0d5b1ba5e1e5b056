package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducat-dev/ducat/internal/engine"
	"github.com/ducat-dev/ducat/internal/unit"
)

func sampleReport() *engine.RunReport {
	report := engine.NewRunReport("transform")
	report.Add(engine.UnitResult{Name: "orders", Kind: unit.KindSQL, Status: engine.StatusSucceeded, Duration: 12 * time.Millisecond})
	report.Add(engine.UnitResult{Name: "enriched", Kind: unit.KindRoutine, Status: engine.StatusFailed, Error: "routine failed for unit enriched: model not found"})
	report.Add(engine.UnitResult{Name: "report", Kind: unit.KindSQL, Status: engine.StatusSkipped})
	report.Finalize()
	return report
}

func TestNewFormatter(t *testing.T) {
	var buf bytes.Buffer
	for _, format := range []string{"table", "json", "yaml"} {
		f, err := NewFormatter(&buf, format)
		require.NoError(t, err, format)
		require.NotNil(t, f, format)
	}

	_, err := NewFormatter(&buf, "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestTableFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(&buf).Format(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "Schema: transform")
	assert.Contains(t, out, "✓ orders")
	assert.Contains(t, out, "✗ enriched")
	assert.Contains(t, out, "- report")
	assert.Contains(t, out, "model not found")
	assert.Contains(t, out, "Summary: 3 units, 1 succeeded, 1 failed, 1 skipped")
}

func TestTableFormatEmptyReport(t *testing.T) {
	report := engine.NewRunReport("transform")
	report.Finalize()

	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(&buf).Format(report))
	assert.Contains(t, buf.String(), "No units executed.")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf, true).Format(sampleReport()))

	var decoded engine.RunReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "transform", decoded.Schema)
	require.Len(t, decoded.Units, 3)
	assert.Equal(t, engine.StatusFailed, decoded.Units[1].Status)
	assert.Equal(t, 3, decoded.Summary.TotalUnits)
}

func TestYAMLFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter(&buf).Format(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "schema: transform")
	assert.Contains(t, out, "name: orders")
	assert.Contains(t, out, "status: failed")
}
