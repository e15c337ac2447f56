// Package baseline aggregates the stored runs into per-compound reference
// statistics for drift scoring.
package baseline

import (
	"github.com/ChrisMcGann/peakqc/pkg/core"
	"github.com/ChrisMcGann/peakqc/pkg/stats"
)

// Baseline is the historical reference for one compound.
type Baseline struct {
	Mean    float64 // Mean of every stored replicate, pooled across runs
	MeanIQR float64 // Mean of the per-run IQRs
	Values  int     // Number of pooled replicates
	Runs    int     // Number of runs contributing an IQR
}

// Compute builds baselines for every compound present in any stored run.
// The mean is pooled over individual replicates while the IQR is averaged
// at run level. Runs without the requested variant are skipped, as are
// compounds with no replicate values at all.
func Compute(corpus *core.Corpus, v core.Variant) map[string]Baseline {
	type acc struct {
		sum    float64
		n      int
		iqrSum float64
		runs   int
	}
	accs := make(map[string]*acc)

	for _, run := range corpus.Runs() {
		table := run.Table(v)
		if table == nil {
			continue
		}
		for _, row := range table.Rows {
			values := row.Replicates()
			if len(values) == 0 {
				continue
			}
			a, ok := accs[row.Compound]
			if !ok {
				a = &acc{}
				accs[row.Compound] = a
			}
			for _, x := range values {
				a.sum += x
			}
			a.n += len(values)
			a.iqrSum += stats.IQR(values)
			a.runs++
		}
	}

	out := make(map[string]Baseline, len(accs))
	for compound, a := range accs {
		out[compound] = Baseline{
			Mean:    a.sum / float64(a.n),
			MeanIQR: a.iqrSum / float64(a.runs),
			Values:  a.n,
			Runs:    a.runs,
		}
	}
	return out
}

// ReferenceMean returns the mean of the per-run means of the reference
// compound. It reports false when no stored run carries the compound.
func ReferenceMean(corpus *core.Corpus, v core.Variant, reference string) (float64, bool) {
	var means []float64
	for _, run := range corpus.Runs() {
		table := run.Table(v)
		if table == nil {
			continue
		}
		row, ok := table.Row(reference)
		if !ok {
			continue
		}
		values := row.Replicates()
		if len(values) == 0 {
			continue
		}
		means = append(means, stats.Mean(values))
	}
	if len(means) == 0 {
		return 0, false
	}
	return stats.Mean(means), true
}
