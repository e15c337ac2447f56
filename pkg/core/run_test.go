package core

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	return &Table{
		Columns: []string{"s1", "s2", "s3"},
		Rows: []Row{
			{Compound: "alanine", Values: []float64{100, 200, 300}},
			{Compound: DefaultReference, Values: []float64{10, 20, 0}},
		},
	}
}

func TestNormalize(t *testing.T) {
	normalized, err := Normalize(sampleTable(), DefaultReference)
	require.NoError(t, err)

	ala, ok := normalized.Row("alanine")
	require.True(t, ok)
	assert.Equal(t, 10.0, ala.Values[0])
	assert.Equal(t, 10.0, ala.Values[1])
	assert.True(t, math.IsNaN(ala.Values[2]), "zero reference cell should leave the cell missing")

	ref, ok := normalized.Row(DefaultReference)
	require.True(t, ok)
	assert.Equal(t, []float64{1, 1}, ref.Replicates())
}

func TestNormalizeMissingReference(t *testing.T) {
	_, err := Normalize(sampleTable(), "caffeine")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReferenceMissing))
}

func TestNewRun(t *testing.T) {
	run, err := NewRun("20240105", "12", sampleTable(), DefaultReference)
	require.NoError(t, err)
	assert.NotNil(t, run.Normalized)
	assert.Same(t, run.Raw, run.Table(Raw))
	assert.Same(t, run.Normalized, run.Table(Normalized))
	assert.Equal(t, "20240105 (12)", run.Label())

	run, err = NewRun("20240105", "12", sampleTable(), "caffeine")
	require.ErrorIs(t, err, ErrReferenceMissing)
	require.NotNil(t, run)
	assert.NotNil(t, run.Raw)
	assert.Nil(t, run.Normalized)
}

func TestParseRunFilename(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		wantDate string
		wantCol  string
		wantErr  bool
	}{
		{name: "stored run", file: "20240105_col_id_12_hek_area_edited.xlsx", wantDate: "20240105", wantCol: "12"},
		{name: "with directory", file: "/data/runs/20231130_col_id_3_hek_area_edited.csv", wantDate: "20231130", wantCol: "3"},
		{name: "minimal", file: "20231130_col_id_3.xlsx", wantDate: "20231130", wantCol: "3"},
		{name: "wrong marker", file: "20231130_column_3_x.xlsx", wantErr: true},
		{name: "too few tokens", file: "20231130.xlsx", wantErr: true},
		{name: "empty date", file: "_col_id_3_x.xlsx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, col, err := ParseRunFilename(tt.file)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDate, date)
			assert.Equal(t, tt.wantCol, col)
		})
	}
}

func TestRunFilenameRoundTrip(t *testing.T) {
	name := RunFilename("20240105", "7")
	assert.Equal(t, "20240105_col_id_7_hek_area_edited.xlsx", name)

	date, col, err := ParseRunFilename(name)
	require.NoError(t, err)
	assert.Equal(t, "20240105", date)
	assert.Equal(t, "7", col)
}

func TestVariantString(t *testing.T) {
	assert.Equal(t, "raw", Raw.String())
	assert.Equal(t, "normalized", Normalized.String())
}
