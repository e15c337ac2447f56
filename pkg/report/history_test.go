package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/peakqc/pkg/core"
)

func TestHistoryRender(t *testing.T) {
	h := NewHistory("alanine", core.Raw, []core.Series{
		{Label: "20240105 (12)", Date: "20240105", ColumnID: "12", Values: []float64{10, 20, 30}},
		{Label: "New", Values: []float64{15}},
	})

	var buf bytes.Buffer
	require.NoError(t, h.Render(&buf))
	out := buf.String()
	assert.Contains(t, out, "alanine (raw)")
	assert.Contains(t, out, "20240105 (12)")
	assert.Contains(t, out, "1.00e+01-3.00e+01")
	assert.Contains(t, out, "1.000e+01 2.000e+01 3.000e+01")
	assert.Contains(t, out, "New")
}

func TestHistoryRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewHistory("glycine", core.Normalized, nil).Render(&buf))
	assert.Equal(t, "No normalized values for glycine.\n", buf.String())
}

func TestHistoryEncodeYAML(t *testing.T) {
	h := NewHistory("alanine", core.Normalized, []core.Series{{Label: "20240105 (12)", Values: []float64{1.5}}})

	var buf bytes.Buffer
	require.NoError(t, h.Encode(&buf, "yaml"))
	assert.Contains(t, buf.String(), "variant: normalized")
	assert.Contains(t, buf.String(), "label: 20240105 (12)")
}
