package core

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// DefaultReference is the internal standard spiked into every HEK standard run.
const DefaultReference = "trifluoromethanesulfonate"

// ErrReferenceMissing is returned when a table lacks the reference compound
// needed as the normalization denominator.
var ErrReferenceMissing = errors.New("reference compound missing")

// Variant selects raw or reference-normalized peak areas.
type Variant int

const (
	Raw Variant = iota
	Normalized
)

func (v Variant) String() string {
	if v == Normalized {
		return "normalized"
	}
	return "raw"
}

// Run is one acquisition of the standard mix.
type Run struct {
	Date       string // Date label, YYYYMMDD
	ColumnID   string // LC column / batch identifier
	Source     string // File the run was read from, if any
	Raw        *Table
	Normalized *Table // nil when the reference compound is absent
}

// NewRun builds a run with both variants. When the reference compound is not
// in raw, the run is still returned with a nil Normalized table together with
// an error wrapping ErrReferenceMissing.
func NewRun(date, columnID string, raw *Table, reference string) (*Run, error) {
	run := &Run{Date: date, ColumnID: columnID, Raw: raw}
	normalized, err := Normalize(raw, reference)
	if err != nil {
		return run, err
	}
	run.Normalized = normalized
	return run, nil
}

// Table returns the table for the requested variant, or nil.
func (r *Run) Table(v Variant) *Table {
	if v == Normalized {
		return r.Normalized
	}
	return r.Raw
}

// Label returns the run label used in history listings, "date (column)".
func (r *Run) Label() string {
	return fmt.Sprintf("%s (%s)", r.Date, r.ColumnID)
}

// Normalize divides every cell by the reference compound's value in the same
// column. Zero or missing reference cells leave the normalized cell missing.
func Normalize(raw *Table, reference string) (*Table, error) {
	ref, ok := raw.Row(reference)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrReferenceMissing, reference)
	}

	out := &Table{
		Columns: append([]string(nil), raw.Columns...),
		Rows:    make([]Row, len(raw.Rows)),
	}
	for i, row := range raw.Rows {
		values := make([]float64, len(row.Values))
		for j, v := range row.Values {
			if j >= len(ref.Values) || ref.Values[j] == 0 || math.IsNaN(ref.Values[j]) {
				values[j] = math.NaN()
				continue
			}
			values[j] = v / ref.Values[j]
		}
		out.Rows[i] = Row{Compound: row.Compound, Values: values}
	}
	return out, nil
}

// ParseRunFilename extracts the date label and column id from a stored run
// file name of the form {date}_col_id_{id}_....
func ParseRunFilename(name string) (date, columnID string, err error) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	parts := strings.Split(base, "_")
	if len(parts) < 4 || parts[1] != "col" || parts[2] != "id" {
		return "", "", fmt.Errorf("invalid run file name '%s', expected '{date}_col_id_{id}_...'", filepath.Base(name))
	}
	if parts[0] == "" || parts[3] == "" {
		return "", "", fmt.Errorf("invalid run file name '%s': empty date or column id", filepath.Base(name))
	}
	return parts[0], parts[3], nil
}

// RunFilename returns the stored file name for a run.
func RunFilename(date, columnID string) string {
	return fmt.Sprintf("%s_col_id_%s_hek_area_edited.xlsx", date, columnID)
}
