// Package score composes the weighted drift score of a compound from its run
// statistics and its historical baseline.
package score

import (
	"fmt"
	"math"

	"github.com/ChrisMcGann/peakqc/pkg/baseline"
	"github.com/ChrisMcGann/peakqc/pkg/core"
	"github.com/ChrisMcGann/peakqc/pkg/stats"
)

// Weights are the impact magnitudes of the four score contributions. They
// need not sum to 1.
type Weights struct {
	Peak        float64 `json:"peak" yaml:"peak" mapstructure:"peak"`
	IQR         float64 `json:"iqr" yaml:"iqr" mapstructure:"iqr"`
	Variability float64 `json:"variability" yaml:"variability" mapstructure:"variability"`
	Outlier     float64 `json:"outlier" yaml:"outlier" mapstructure:"outlier"`
}

// DefaultWeights are the lab's scoring impacts.
var DefaultWeights = Weights{
	Peak:        0.45,
	IQR:         0.10,
	Variability: 0.20,
	Outlier:     0.30,
}

// Score is a drift score that may be undetermined when the compound has no
// history or no replicate values.
type Score struct {
	Value      float64
	Determined bool
}

// Undetermined is the score of a compound that could not be scored.
var Undetermined = Score{}

// Of returns a determined score.
func Of(v float64) Score {
	return Score{Value: v, Determined: true}
}

// String renders the score with three decimals, or N/A.
func (s Score) String() string {
	if !s.Determined {
		return "N/A"
	}
	return fmt.Sprintf("%.3f", s.Value)
}

// MarshalText serializes the score like String so exports never carry NaN
// or a zero for undetermined compounds.
func (s Score) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Pair holds the raw and normalized scores of a compound.
type Pair struct {
	Raw        Score `json:"raw" yaml:"raw"`
	Normalized Score `json:"normalized" yaml:"normalized"`
}

// Composer combines run statistics and baselines.
type Composer struct {
	Weights Weights
}

// NewComposer returns a composer using w.
func NewComposer(w Weights) *Composer {
	return &Composer{Weights: w}
}

// Compose scores one compound without reference adjustment.
func (c *Composer) Compose(s stats.RunStat, b baseline.Baseline) Score {
	return c.ComposeAdjusted(s, b, 1)
}

// ComposeAdjusted scores one compound, multiplying the peak-area ratio by
// referenceRatio before weighting. The variability and outlier terms are
// squared before their weights are applied.
func (c *Composer) ComposeAdjusted(s stats.RunStat, b baseline.Baseline, referenceRatio float64) Score {
	if !s.Sufficient() {
		return Undetermined
	}

	peakArea := s.Mean
	if b.Mean != 0 {
		peakArea = s.Mean / b.Mean
	}
	peakArea *= referenceRatio

	iqrDiff := math.Abs(s.IQR - b.MeanIQR)
	if b.MeanIQR != 0 {
		iqrDiff /= b.MeanIQR
	}

	w := c.Weights
	v := peakArea*w.Peak -
		iqrDiff*w.IQR -
		s.Variability*s.Variability*w.Variability -
		s.OutlierFraction*s.OutlierFraction*w.Outlier

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undetermined
	}
	return Of(v)
}

// ScoreRun scores every compound of run against the corpus, for both
// variants. Compounds without a baseline are undetermined. For the
// normalized variant the peak-area ratio is adjusted by the run's mean
// reference value over the historical reference mean when both exist.
func (c *Composer) ScoreRun(run *core.Run, corpus *core.Corpus, reference string) map[string]Pair {
	out := make(map[string]Pair, len(run.Raw.Rows))
	for _, compound := range run.Raw.Compounds() {
		out[compound] = Pair{Raw: Undetermined, Normalized: Undetermined}
	}

	for _, v := range []core.Variant{core.Raw, core.Normalized} {
		runStats := stats.Compute(run, v)
		if runStats == nil {
			continue
		}
		baselines := baseline.Compute(corpus, v)

		ratio := 1.0
		if v == core.Normalized {
			ratio = c.referenceRatio(runStats, corpus, reference)
		}

		for compound, s := range runStats {
			b, ok := baselines[compound]
			if !ok {
				continue
			}
			p := out[compound]
			if v == core.Normalized {
				p.Normalized = c.ComposeAdjusted(s, b, ratio)
			} else {
				p.Raw = c.ComposeAdjusted(s, b, 1)
			}
			out[compound] = p
		}
	}
	return out
}

func (c *Composer) referenceRatio(runStats map[string]stats.RunStat, corpus *core.Corpus, reference string) float64 {
	s, ok := runStats[reference]
	if !ok || !s.Sufficient() {
		return 1
	}
	historical, ok := baseline.ReferenceMean(corpus, core.Normalized, reference)
	if !ok || historical == 0 {
		return 1
	}
	return s.Mean / historical
}
