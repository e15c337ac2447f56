// Package records turns raw spreadsheet cells into validated peakqc models.
// The xlsx and csv readers share it so that both formats obey the same rules.
package records

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/peakqc/pkg/classify"
	"github.com/ChrisMcGann/peakqc/pkg/core"
)

// IndexColumn is the header of the compound name column in run tables.
const IndexColumn = "Compound"

// Lookup table headers.
const (
	lookupNameColumn  = "metabolite"
	lookupClassColumn = "class"
	lookupIonColumn   = "ion"
)

// ParseTable builds a run table from header and data rows. The column named
// indexColumn holds compound names; every other non-blank header is a sample
// column. Blank cells become missing values, fully blank rows are skipped.
func ParseTable(rows [][]string, indexColumn string) (*core.Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty table, expected a header row")
	}

	header := rows[0]
	index := -1
	var sampleIdx []int
	table := &core.Table{}
	for i, h := range header {
		h = strings.TrimSpace(h)
		switch {
		case h == indexColumn && index < 0:
			index = i
		case h != "":
			sampleIdx = append(sampleIdx, i)
			table.Columns = append(table.Columns, h)
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("missing index column '%s'", indexColumn)
	}

	for lineNum, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		values := make([]float64, len(sampleIdx))
		for j, col := range sampleIdx {
			v, err := parseCell(cell(row, col))
			if err != nil {
				return nil, fmt.Errorf("row %d column '%s': %w", lineNum+2, table.Columns[j], err)
			}
			values[j] = v
		}
		table.Rows = append(table.Rows, core.Row{
			Compound: cell(row, index),
			Values:   values,
		})
	}

	table.CleanNames()
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// ParseLookup reads the compound class/ion lookup. Header names are matched
// after trimming whitespace; compound keys are cleaned with core.CleanName.
func ParseLookup(rows [][]string) (*classify.Lookup, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty lookup table, expected a header row")
	}

	nameIdx, classIdx, ionIdx := -1, -1, -1
	for i, h := range rows[0] {
		switch strings.TrimSpace(h) {
		case lookupNameColumn:
			nameIdx = i
		case lookupClassColumn:
			classIdx = i
		case lookupIonColumn:
			ionIdx = i
		}
	}
	if nameIdx < 0 || classIdx < 0 || ionIdx < 0 {
		return nil, fmt.Errorf("lookup table needs '%s', '%s' and '%s' columns", lookupNameColumn, lookupClassColumn, lookupIonColumn)
	}

	var entries []classify.Entry
	for _, row := range rows[1:] {
		name := core.CleanName(cell(row, nameIdx))
		if name == "" {
			continue
		}
		entries = append(entries, classify.Entry{
			Compound: name,
			Class:    cleanTag(cell(row, classIdx)),
			Ion:      cleanTag(cell(row, ionIdx)),
		})
	}
	return classify.NewLookup(entries), nil
}

func cleanTag(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}

func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid peak area '%s'", s)
	}
	return v, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
