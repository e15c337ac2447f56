// Package xlsx reads run tables and the class/ion lookup from Excel workbooks.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ChrisMcGann/peakqc/pkg/classify"
	"github.com/ChrisMcGann/peakqc/pkg/core"
	"github.com/ChrisMcGann/peakqc/pkg/reader/records"
)

// RunSheet is the sheet holding standard peak areas in processed exports
// and in stored runs.
const RunSheet = "PoolAfterDF"

// ReadRun reads a run table from sheet. An empty sheet name selects the
// first sheet of the workbook.
func ReadRun(r io.Reader, sheet string) (*core.Table, error) {
	rows, err := readRows(r, sheet)
	if err != nil {
		return nil, err
	}
	return records.ParseTable(rows, records.IndexColumn)
}

// ReadLookup reads the compound class/ion lookup from the first sheet.
func ReadLookup(r io.Reader) (*classify.Lookup, error) {
	rows, err := readRows(r, "")
	if err != nil {
		return nil, err
	}
	return records.ParseLookup(rows)
}

func readRows(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !contains(sheets, sheet) {
		return nil, fmt.Errorf("'%s' sheet not present in workbook", sheet)
	}

	// Raw values keep full float precision instead of the display format.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet '%s': %w", sheet, err)
	}
	return rows, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
