package score

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/peakqc/pkg/baseline"
	"github.com/ChrisMcGann/peakqc/pkg/core"
	"github.com/ChrisMcGann/peakqc/pkg/stats"
)

const tol = 1e-9

func TestComposeWorkedExample(t *testing.T) {
	s := stats.RunStat{N: 5, Mean: 120, IQR: 12, Variability: 0.1, OutlierFraction: 0}
	b := baseline.Baseline{Mean: 100, MeanIQR: 10}

	got := NewComposer(DefaultWeights).Compose(s, b)
	require.True(t, got.Determined)
	// 1.2*0.45 - 0.2*0.10 - 0.01*0.20 - 0*0.30
	assert.InDelta(t, 0.518, got.Value, tol)
	assert.Equal(t, "0.518", got.String())
}

func TestComposeSquaresVariabilityAndOutliers(t *testing.T) {
	b := baseline.Baseline{Mean: 100, MeanIQR: 10}
	s := stats.RunStat{N: 4, Mean: 100, IQR: 10, Variability: 0.5, OutlierFraction: 0.25}

	got := NewComposer(DefaultWeights).Compose(s, b)
	want := 1*0.45 - 0 - 0.25*0.20 - 0.0625*0.30
	assert.InDelta(t, want, got.Value, tol)
}

func TestComposeZeroBaselineFallbacks(t *testing.T) {
	s := stats.RunStat{N: 3, Mean: 2, IQR: 3}
	b := baseline.Baseline{Mean: 0, MeanIQR: 0}

	got := NewComposer(DefaultWeights).Compose(s, b)
	// peak falls back to the mean, IQR diff to the absolute difference.
	assert.InDelta(t, 2*0.45-3*0.10, got.Value, tol)
}

func TestComposeAdjusted(t *testing.T) {
	s := stats.RunStat{N: 3, Mean: 120, IQR: 10}
	b := baseline.Baseline{Mean: 100, MeanIQR: 10}

	got := NewComposer(DefaultWeights).ComposeAdjusted(s, b, 0.5)
	assert.InDelta(t, 0.6*0.45, got.Value, tol)
}

func TestComposeInsufficientData(t *testing.T) {
	got := NewComposer(DefaultWeights).Compose(stats.RunStat{}, baseline.Baseline{Mean: 1, MeanIQR: 1})
	assert.False(t, got.Determined)
	assert.Equal(t, "N/A", got.String())
}

func TestScoreString(t *testing.T) {
	assert.Equal(t, "N/A", Undetermined.String())
	assert.Equal(t, "-0.000", Of(-0.0001).String())
	text, err := Of(1.23456).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1.235", string(text))
}

func makeRun(t *testing.T, date string, rows ...core.Row) *core.Run {
	t.Helper()
	cols := make([]string, len(rows[0].Values))
	for i := range cols {
		cols[i] = date + "-" + string(rune('a'+i))
	}
	run, err := core.NewRun(date, "1", &core.Table{Columns: cols, Rows: rows}, core.DefaultReference)
	require.NoError(t, err)
	return run
}

func TestScoreRunUnknownCompoundUndetermined(t *testing.T) {
	corpus := core.NewCorpus()
	corpus.Add(makeRun(t, "20240101",
		core.Row{Compound: "alanine", Values: []float64{100, 100}},
		core.Row{Compound: core.DefaultReference, Values: []float64{10, 10}},
	))

	current := makeRun(t, "20240201",
		core.Row{Compound: "alanine", Values: []float64{100, 100}},
		core.Row{Compound: "novel", Values: []float64{5, 5}},
		core.Row{Compound: core.DefaultReference, Values: []float64{10, 10}},
	)

	scores := NewComposer(DefaultWeights).ScoreRun(current, corpus, core.DefaultReference)
	require.Len(t, scores, 3)

	novel := scores["novel"]
	assert.False(t, novel.Raw.Determined)
	assert.False(t, novel.Normalized.Determined)
	assert.Equal(t, "N/A", novel.Raw.String())

	ala := scores["alanine"]
	require.True(t, ala.Raw.Determined)
	require.True(t, ala.Normalized.Determined)
	// identical to history: ratio 1, zero IQR on both sides, no spread.
	assert.InDelta(t, 0.45, ala.Raw.Value, tol)
	assert.InDelta(t, 0.45, ala.Normalized.Value, tol)
}

func TestScoreRunEmptyCorpus(t *testing.T) {
	current := makeRun(t, "20240201",
		core.Row{Compound: "alanine", Values: []float64{100, 120}},
		core.Row{Compound: core.DefaultReference, Values: []float64{10, 10}},
	)
	scores := NewComposer(DefaultWeights).ScoreRun(current, core.NewCorpus(), core.DefaultReference)
	for compound, p := range scores {
		assert.False(t, p.Raw.Determined, compound)
		assert.False(t, p.Normalized.Determined, compound)
	}
}

func TestScoreRunEmptyReplicatesIsolated(t *testing.T) {
	corpus := core.NewCorpus()
	corpus.Add(makeRun(t, "20240101",
		core.Row{Compound: "alanine", Values: []float64{100, 100}},
		core.Row{Compound: "serine", Values: []float64{50, 50}},
		core.Row{Compound: core.DefaultReference, Values: []float64{10, 10}},
	))
	current := makeRun(t, "20240201",
		core.Row{Compound: "alanine", Values: []float64{math.NaN(), math.NaN()}},
		core.Row{Compound: "serine", Values: []float64{50, 50}},
		core.Row{Compound: core.DefaultReference, Values: []float64{10, 10}},
	)

	scores := NewComposer(DefaultWeights).ScoreRun(current, corpus, core.DefaultReference)
	assert.False(t, scores["alanine"].Raw.Determined)
	assert.True(t, scores["serine"].Raw.Determined)
}

func TestScoreRunReferenceAdjustment(t *testing.T) {
	// Stored normalized reference mean is 1 for every run, and so is the
	// current run's, so the adjustment leaves the normalized peak ratio alone.
	corpus := core.NewCorpus()
	corpus.Add(makeRun(t, "20240101",
		core.Row{Compound: "alanine", Values: []float64{100, 100}},
		core.Row{Compound: core.DefaultReference, Values: []float64{10, 10}},
	))
	current := makeRun(t, "20240201",
		core.Row{Compound: "alanine", Values: []float64{200, 200}},
		core.Row{Compound: core.DefaultReference, Values: []float64{10, 10}},
	)
	scores := NewComposer(DefaultWeights).ScoreRun(current, corpus, core.DefaultReference)
	assert.InDelta(t, 2*0.45, scores["alanine"].Normalized.Value, tol)
	assert.InDelta(t, 2*0.45, scores["alanine"].Raw.Value, tol)

	c := NewComposer(DefaultWeights)
	runStats := map[string]stats.RunStat{core.DefaultReference: {N: 2, Mean: 3}}
	assert.InDelta(t, 3.0, c.referenceRatio(runStats, corpus, core.DefaultReference), tol)
	assert.Equal(t, 1.0, c.referenceRatio(runStats, core.NewCorpus(), core.DefaultReference))
	assert.Equal(t, 1.0, c.referenceRatio(map[string]stats.RunStat{}, corpus, core.DefaultReference))
}
