// Package core provides the validated run models shared by every stage of the
// peak-area quality check.
package core

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Table is a compound by sample matrix of peak areas.
type Table struct {
	Columns []string // Sample/replicate identifiers
	Rows    []Row
}

// Row holds one compound's values, aligned with Table.Columns.
// A missing cell is stored as NaN.
type Row struct {
	Compound string
	Values   []float64
}

// ValidationError represents an error found during table validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// CleanName normalizes a compound key so that names read from run tables and
// from the class/ion lookup compare equal.
func CleanName(s string) string {
	s = strings.ReplaceAll(s, "|", ";")
	s = strings.ReplaceAll(s, `"`, "")
	return strings.TrimSpace(norm.NFC.String(s))
}

// Replicates returns the non-missing values of the row.
func (r Row) Replicates() []float64 {
	out := make([]float64, 0, len(r.Values))
	for _, v := range r.Values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Validate checks that a table is well formed before it enters the pipeline.
func (t *Table) Validate() error {
	var errs []string

	if len(t.Columns) == 0 {
		errs = append(errs, "at least one sample column is required")
	}
	if len(t.Rows) == 0 {
		errs = append(errs, "at least one compound row is required")
	}

	seen := make(map[string]bool, len(t.Rows))
	for i, row := range t.Rows {
		if row.Compound == "" {
			errs = append(errs, fmt.Sprintf("row %d has no compound name", i+1))
			continue
		}
		if seen[row.Compound] {
			errs = append(errs, fmt.Sprintf("duplicate compound %q", row.Compound))
		}
		seen[row.Compound] = true

		if len(row.Values) != len(t.Columns) {
			errs = append(errs, fmt.Sprintf("compound %q has %d values for %d columns", row.Compound, len(row.Values), len(t.Columns)))
		}
		for j, v := range row.Values {
			if math.IsInf(v, 0) {
				errs = append(errs, fmt.Sprintf("compound %q column %d is infinite", row.Compound, j+1))
			}
			if v < 0 {
				errs = append(errs, fmt.Sprintf("compound %q column %d is negative", row.Compound, j+1))
			}
		}
	}

	if len(errs) > 0 {
		return &ValidationError{
			Field:   "Table",
			Message: strings.Join(errs, "; "),
		}
	}

	return nil
}

// Row returns the row for a compound.
func (t *Table) Row(compound string) (Row, bool) {
	for _, row := range t.Rows {
		if row.Compound == compound {
			return row, true
		}
	}
	return Row{}, false
}

// Compounds returns the compound names in row order.
func (t *Table) Compounds() []string {
	names := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		names[i] = row.Compound
	}
	return names
}

// CleanNames applies CleanName to every compound in place.
func (t *Table) CleanNames() {
	for i := range t.Rows {
		t.Rows[i].Compound = CleanName(t.Rows[i].Compound)
	}
}
