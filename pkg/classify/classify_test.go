package classify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/peakqc/pkg/score"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		score score.Score
		want  Tag
	}{
		{name: "worked example", score: score.Of(0.518), want: High},
		{name: "exactly high threshold", score: score.Of(0.5), want: Neutral},
		{name: "just above high", score: score.Of(0.5000001), want: High},
		{name: "exactly zero", score: score.Of(0), want: Neutral},
		{name: "just below zero", score: score.Of(-0.0001), want: Low},
		{name: "strongly negative", score: score.Of(-3), want: Low},
		{name: "undetermined", score: score.Undetermined, want: Undetermined},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.score))
		})
	}
}

func TestCustomThresholds(t *testing.T) {
	th := Thresholds{High: 1, Low: 0.25}
	assert.Equal(t, Neutral, th.Classify(score.Of(0.75)))
	assert.Equal(t, Low, th.Classify(score.Of(0.2)))
	assert.Equal(t, High, th.Classify(score.Of(1.1)))
}

func TestTagColors(t *testing.T) {
	assert.Equal(t, "lightgreen", High.Color())
	assert.Equal(t, "yellow", Neutral.Color())
	assert.Equal(t, "lightcoral", Low.Color())
	assert.Equal(t, "", Undetermined.Color())
}

func TestSummarize(t *testing.T) {
	lookup := NewLookup([]Entry{
		{Compound: "alanine", Class: "amino acid", Ion: "pos"},
		{Compound: "serine", Class: "amino acid", Ion: "neg"},
		{Compound: "citrate", Class: "TCA", Ion: "neg"},
	})
	items := []Classification{
		{Compound: "alanine", Raw: High, Normalized: Neutral},
		{Compound: "serine", Raw: Low, Normalized: Neutral},
		{Compound: "citrate", Raw: Neutral, Normalized: Undetermined},
		{Compound: "mystery", Raw: Undetermined, Normalized: Low},
	}

	byClass := Summarize(items, lookup.Class)
	require.Len(t, byClass, 3)
	assert.Equal(t, "N/A", byClass[0].Group)
	assert.Equal(t, Counts{Undetermined: 1}, byClass[0].Raw)
	assert.Equal(t, Counts{Low: 1}, byClass[0].Normalized)
	assert.Equal(t, "TCA", byClass[1].Group)
	assert.Equal(t, "amino acid", byClass[2].Group)
	assert.Equal(t, Counts{High: 1, Low: 1}, byClass[2].Raw)
	assert.Equal(t, Counts{Neutral: 2}, byClass[2].Normalized)

	byIon := Summarize(items, lookup.Ion)
	groups := make([]string, len(byIon))
	for i, g := range byIon {
		groups[i] = g.Group
	}
	assert.Equal(t, []string{"N/A", "neg", "pos"}, groups)
}

func TestSummarizeEmptyKeyIsUnassigned(t *testing.T) {
	items := []Classification{{Compound: "x", Raw: High, Normalized: High}}
	out := Summarize(items, func(string) string { return "" })
	require.Len(t, out, 1)
	assert.Equal(t, Unassigned, out[0].Group)
}

func TestLookupCleansKeysOnBothSides(t *testing.T) {
	lookup := NewLookup([]Entry{{Compound: ` "leucine|isoleucine" `, Class: "amino acid", Ion: "pos"}})
	assert.Equal(t, 1, lookup.Len())
	assert.Equal(t, "amino acid", lookup.Class("leucine;isoleucine"))
	assert.Equal(t, "pos", lookup.Ion(`"leucine|isoleucine"`))
	assert.Equal(t, Unassigned, lookup.Class("glycine"))

	var nilLookup *Lookup
	assert.Equal(t, Unassigned, nilLookup.Ion("glycine"))
	assert.Equal(t, 0, nilLookup.Len())
}

func TestTagJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Tag{"a": High, "b": Undetermined})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"high","b":"undetermined"}`, string(data))
}
