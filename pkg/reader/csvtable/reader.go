// Package csvtable reads run tables and the class/ion lookup from CSV exports.
package csvtable

import (
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ChrisMcGann/peakqc/pkg/classify"
	"github.com/ChrisMcGann/peakqc/pkg/core"
	"github.com/ChrisMcGann/peakqc/pkg/reader/records"
)

// ReadRun reads a run table with a Compound index column.
func ReadRun(r io.Reader) (*core.Table, error) {
	rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	return records.ParseTable(rows, records.IndexColumn)
}

// ReadLookup reads the compound class/ion lookup.
func ReadLookup(r io.Reader) (*classify.Lookup, error) {
	rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	return records.ParseLookup(rows)
}

// readAll strips a leading byte-order mark, as written by Excel's
// "CSV UTF-8" export; input without one passes through unchanged.
func readAll(r io.Reader) ([][]string, error) {
	r = transform.NewReader(r, unicode.BOMOverride(transform.Nop))
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}
	return rows, nil
}
