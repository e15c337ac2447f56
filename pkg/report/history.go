package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ChrisMcGann/peakqc/pkg/core"
	"github.com/ChrisMcGann/peakqc/pkg/stats"
)

// History is the drill-down of one compound across runs.
type History struct {
	Compound string        `json:"compound" yaml:"compound"`
	Variant  string        `json:"variant" yaml:"variant"`
	Series   []core.Series `json:"series" yaml:"series"`
}

// NewHistory wraps the series of a compound.
func NewHistory(compound string, v core.Variant, series []core.Series) *History {
	return &History{Compound: compound, Variant: v.String(), Series: series}
}

// Render writes one line per run with the summary statistics and the
// replicate values.
func (h *History) Render(w io.Writer) error {
	if len(h.Series) == 0 {
		_, err := fmt.Fprintf(w, "No %s values for %s.\n", h.Variant, h.Compound)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s (%s)\n\n", h.Compound, h.Variant)
	fmt.Fprintln(tw, "Run\tN\tMean\tmin-max\tIQR\tValues")
	for _, s := range h.Series {
		st := stats.Describe(s.Values)
		mean, iqr := "N/A", "N/A"
		if st.Sufficient() {
			mean = fmt.Sprintf("%.3e", st.Mean)
			iqr = fmt.Sprintf("%.3e", st.IQR)
		}
		values := make([]string, len(s.Values))
		for i, v := range s.Values {
			values[i] = fmt.Sprintf("%.3e", v)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n", s.Label, st.N, mean, st.RangeString(), iqr, strings.Join(values, " "))
	}
	return tw.Flush()
}

// Encode writes the drill-down in the named format: text, yaml or json.
func (h *History) Encode(w io.Writer, format string) error {
	return encode(w, format, h, h.Render)
}
