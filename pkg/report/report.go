// Package report assembles the per-compound QC table and its class and ion
// summaries, and renders them as text, yaml or json.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"go.yaml.in/yaml/v3"

	"github.com/ChrisMcGann/peakqc/pkg/classify"
	"github.com/ChrisMcGann/peakqc/pkg/core"
	"github.com/ChrisMcGann/peakqc/pkg/score"
	"github.com/ChrisMcGann/peakqc/pkg/stats"
)

// SortBy selects the row order of a report.
type SortBy string

const (
	SortNone  SortBy = ""
	SortClass SortBy = "class"
	SortIon   SortBy = "ion"
)

// ParseSortBy accepts "", "none", "class" and "ion".
func ParseSortBy(s string) (SortBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "class":
		return SortClass, nil
	case "ion":
		return SortIon, nil
	default:
		return SortNone, fmt.Errorf("unknown sort '%s', expected class or ion", s)
	}
}

// Cells are the displayed statistics of one variant.
type Cells struct {
	Mean  string       `json:"mean" yaml:"mean"`
	Range string       `json:"min_max" yaml:"min_max"`
	RSD   string       `json:"rsd" yaml:"rsd"`
	IQR   string       `json:"iqr" yaml:"iqr"`
	Score score.Score  `json:"score" yaml:"score"`
	Tag   classify.Tag `json:"tag" yaml:"tag"`
	Color string       `json:"color,omitempty" yaml:"color,omitempty"`
}

// Row is one compound line of the QC table.
type Row struct {
	Compound   string `json:"compound" yaml:"compound"`
	Class      string `json:"class" yaml:"class"`
	Ion        string `json:"ion" yaml:"ion"`
	Raw        Cells  `json:"raw" yaml:"raw"`
	Normalized Cells  `json:"normalized" yaml:"normalized"`
}

// Report is the result of one evaluation pass.
type Report struct {
	Run          string                 `json:"run" yaml:"run"`
	HistoryRuns  int                    `json:"history_runs" yaml:"history_runs"`
	Rows         []Row                  `json:"rows" yaml:"rows"`
	ClassSummary []classify.GroupCounts `json:"class_summary" yaml:"class_summary"`
	IonSummary   []classify.GroupCounts `json:"ion_summary" yaml:"ion_summary"`
}

// Input gathers what Build needs from one evaluation pass.
type Input struct {
	Run         *core.Run
	HistoryRuns int
	Scores      map[string]score.Pair
	Lookup      *classify.Lookup
	Thresholds  classify.Thresholds
	SortBy      SortBy
}

// Build creates the report rows in run order, then stably sorts them by class
// or ion when requested. Summaries always cover every row.
func Build(in Input) (*Report, error) {
	if in.Run == nil || in.Run.Raw == nil {
		return nil, fmt.Errorf("no run to report")
	}

	rawStats := stats.Compute(in.Run, core.Raw)
	normStats := stats.Compute(in.Run, core.Normalized)

	rep := &Report{Run: in.Run.Label(), HistoryRuns: in.HistoryRuns}
	items := make([]classify.Classification, 0, len(in.Run.Raw.Rows))
	for _, compound := range in.Run.Raw.Compounds() {
		pair, ok := in.Scores[compound]
		if !ok {
			pair = score.Pair{Raw: score.Undetermined, Normalized: score.Undetermined}
		}
		row := Row{
			Compound:   compound,
			Class:      in.Lookup.Class(compound),
			Ion:        in.Lookup.Ion(compound),
			Raw:        cells(rawStats[compound], pair.Raw, in.Thresholds),
			Normalized: cells(normStats[compound], pair.Normalized, in.Thresholds),
		}
		rep.Rows = append(rep.Rows, row)
		items = append(items, classify.Classification{
			Compound:   compound,
			Raw:        row.Raw.Tag,
			Normalized: row.Normalized.Tag,
		})
	}

	// Sort on the stored lookup value so compounds without one come first.
	if in.SortBy != SortNone {
		keys := make(map[string]string, len(rep.Rows))
		for _, row := range rep.Rows {
			e, _ := in.Lookup.Get(row.Compound)
			keys[row.Compound] = e.Class
			if in.SortBy == SortIon {
				keys[row.Compound] = e.Ion
			}
		}
		sort.SliceStable(rep.Rows, func(i, j int) bool {
			return keys[rep.Rows[i].Compound] < keys[rep.Rows[j].Compound]
		})
	}

	rep.ClassSummary = classify.Summarize(items, in.Lookup.Class)
	rep.IonSummary = classify.Summarize(items, in.Lookup.Ion)
	return rep, nil
}

func cells(s stats.RunStat, sc score.Score, th classify.Thresholds) Cells {
	c := Cells{Score: sc, Tag: th.Classify(sc)}
	c.Color = c.Tag.Color()
	if !s.Sufficient() {
		c.Mean, c.Range, c.RSD, c.IQR = "N/A", "N/A", "N/A", "N/A"
		return c
	}
	c.Mean = fmt.Sprintf("%.3e", s.Mean)
	c.Range = s.RangeString()
	c.RSD = fmt.Sprintf("%.2f", s.RSD)
	c.IQR = fmt.Sprintf("%.3e", s.IQR)
	return c
}

// Headers are the QC table columns in display order.
var Headers = []string{
	"Compound", "Class", "Ion",
	"Mean", "min-max", "RSD", "IQR",
	"N Mean", "N min-max", "N RSD", "N IQR",
	"Score", "N Score",
}

// Fields returns the row's cells in Headers order.
func (r Row) Fields() []string {
	return []string{
		r.Compound, r.Class, r.Ion,
		r.Raw.Mean, r.Raw.Range, r.Raw.RSD, r.Raw.IQR,
		r.Normalized.Mean, r.Normalized.Range, r.Normalized.RSD, r.Normalized.IQR,
		r.Raw.Score.String(), r.Normalized.Score.String(),
	}
}

// Render writes the QC table and both summaries as aligned text. Score cells
// carry their tag in brackets since a terminal has no cell colours.
func (r *Report) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Run: %s\tHistory runs: %d\n\n", r.Run, r.HistoryRuns)
	fmt.Fprintln(tw, strings.Join(Headers, "\t"))
	for _, row := range r.Rows {
		fields := row.Fields()
		fields[11] = tagged(row.Raw)
		fields[12] = tagged(row.Normalized)
		fmt.Fprintln(tw, strings.Join(fields, "\t"))
	}

	for _, s := range []struct {
		title  string
		groups []classify.GroupCounts
	}{
		{"Class", r.ClassSummary},
		{"Ion", r.IonSummary},
	} {
		fmt.Fprintf(tw, "\n%s\tHigh\tNeutral\tLow\tN/A\tN High\tN Neutral\tN Low\tN N/A\n", s.title)
		for _, g := range s.groups {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n", g.Group,
				g.Raw.High, g.Raw.Neutral, g.Raw.Low, g.Raw.Undetermined,
				g.Normalized.High, g.Normalized.Neutral, g.Normalized.Low, g.Normalized.Undetermined)
		}
	}
	return tw.Flush()
}

func tagged(c Cells) string {
	if c.Tag == classify.Undetermined {
		return c.Score.String()
	}
	return fmt.Sprintf("%s [%s]", c.Score, c.Tag)
}

// Encode writes the report in the named format: text, yaml or json.
func (r *Report) Encode(w io.Writer, format string) error {
	return encode(w, format, r, r.Render)
}

func encode(w io.Writer, format string, v any, render func(io.Writer) error) error {
	switch strings.ToLower(format) {
	case "", "text":
		return render(w)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format '%s', expected text, yaml or json", format)
	}
}
