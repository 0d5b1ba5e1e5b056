package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducat-dev/ducat/internal/unit"
)

func TestReportDurationKeyMatchesEncoding(t *testing.T) {
	report := NewRunReport("transform")
	report.Add(UnitResult{
		Name:     "orders",
		Kind:     unit.KindSQL,
		Status:   StatusSucceeded,
		Duration: 1500 * time.Millisecond,
	})
	report.Finalize()

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	units := decoded["units"].([]any)
	first := units[0].(map[string]any)
	// time.Duration marshals as nanoseconds; the key says so.
	assert.Equal(t, float64((1500 * time.Millisecond).Nanoseconds()), first["duration_ns"])
	assert.NotContains(t, first, "duration_ms")
}
