package core

import "sort"

// Corpus is the collection of stored runs, keyed by date label. Scoring reads
// it but never changes it.
type Corpus struct {
	runs map[string]*Run
}

// NewCorpus creates an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{runs: make(map[string]*Run)}
}

// Add stores a run under its date label and reports whether it replaced an
// earlier run with the same label.
func (c *Corpus) Add(run *Run) bool {
	_, replaced := c.runs[run.Date]
	c.runs[run.Date] = run
	return replaced
}

// Get returns the run stored under a date label.
func (c *Corpus) Get(date string) (*Run, bool) {
	run, ok := c.runs[date]
	return run, ok
}

// Len returns the number of stored runs.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.runs)
}

// Dates returns the date labels in ascending order.
func (c *Corpus) Dates() []string {
	if c == nil {
		return nil
	}
	dates := make([]string, 0, len(c.runs))
	for d := range c.runs {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Runs returns the stored runs in date order.
func (c *Corpus) Runs() []*Run {
	dates := c.Dates()
	runs := make([]*Run, len(dates))
	for i, d := range dates {
		runs[i] = c.runs[d]
	}
	return runs
}

// Series is the replicate set of one compound in one stored run.
type Series struct {
	Label    string    `json:"label" yaml:"label"`
	Date     string    `json:"date" yaml:"date"`
	ColumnID string    `json:"column_id" yaml:"column_id"`
	Values   []float64 `json:"values" yaml:"values"`
}

// Series returns the compound's replicates for every stored run that has
// them, in date order.
func (c *Corpus) Series(compound string, v Variant) []Series {
	var out []Series
	for _, run := range c.Runs() {
		table := run.Table(v)
		if table == nil {
			continue
		}
		row, ok := table.Row(compound)
		if !ok {
			continue
		}
		out = append(out, Series{
			Label:    run.Label(),
			Date:     run.Date,
			ColumnID: run.ColumnID,
			Values:   row.Replicates(),
		})
	}
	return out
}
