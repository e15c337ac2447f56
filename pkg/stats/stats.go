// Package stats computes the per-compound replicate statistics of a run.
package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ChrisMcGann/peakqc/pkg/core"
)

// tukeyK is the fence multiplier for outlier detection.
const tukeyK = 1.5

// RunStat summarizes the replicate values of one compound in one run.
type RunStat struct {
	N               int
	Mean            float64
	IQR             float64
	Min             float64
	Max             float64
	RSD             float64 // percent
	Variability     float64 // std/mean
	OutlierFraction float64
}

// Sufficient reports whether the statistics were computed from any data.
func (s RunStat) Sufficient() bool {
	return s.N > 0
}

// RangeString renders the min-max range as shown in the QC table.
func (s RunStat) RangeString() string {
	if !s.Sufficient() {
		return "N/A"
	}
	return fmt.Sprintf("%.2e-%.2e", s.Min, s.Max)
}

// Percentile returns the p-th percentile (0-100) using linear interpolation
// between the closest ranks. It returns 0 for empty input.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return percentileSorted(sorted, p)
}

func percentileSorted(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p / 100
	lo := math.Floor(h)
	i := int(lo)
	if i >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// Quartiles returns Q25 and Q75.
func Quartiles(values []float64) (q25, q75 float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return percentileSorted(sorted, 25), percentileSorted(sorted, 75)
}

// IQR returns the interquartile range Q75-Q25.
func IQR(values []float64) float64 {
	q25, q75 := Quartiles(values)
	return q75 - q25
}

// Mean returns the arithmetic mean, or 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// RSD returns the relative standard deviation in percent using the sample
// standard deviation. A zero mean or fewer than two values yield 0.
func RSD(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := stat.Mean(values, nil)
	if mean == 0 {
		return 0
	}
	return stat.StdDev(values, nil) / mean * 100
}

// Variability returns the population standard deviation over the mean, or
// the bare standard deviation when the mean is 0.
func Variability(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return std
	}
	return std / mean
}

// OutlierFraction returns the share of values outside the Tukey fences.
func OutlierFraction(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	q25, q75 := Quartiles(values)
	iqr := q75 - q25
	lower := q25 - tukeyK*iqr
	upper := q75 + tukeyK*iqr

	outliers := 0
	for _, v := range values {
		if v < lower || v > upper {
			outliers++
		}
	}
	return float64(outliers) / float64(len(values))
}

// Describe computes every statistic for one replicate set.
func Describe(values []float64) RunStat {
	if len(values) == 0 {
		return RunStat{}
	}
	return RunStat{
		N:               len(values),
		Mean:            Mean(values),
		IQR:             IQR(values),
		Min:             floats.Min(values),
		Max:             floats.Max(values),
		RSD:             RSD(values),
		Variability:     Variability(values),
		OutlierFraction: OutlierFraction(values),
	}
}

// Compute describes every compound of a run for the given variant. It
// returns nil when the run lacks that variant.
func Compute(run *core.Run, v core.Variant) map[string]RunStat {
	table := run.Table(v)
	if table == nil {
		return nil
	}
	out := make(map[string]RunStat, len(table.Rows))
	for _, row := range table.Rows {
		out[row.Compound] = Describe(row.Replicates())
	}
	return out
}
