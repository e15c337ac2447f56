// Package xlsx writes run tables to Excel workbooks in the stored-run layout.
package xlsx

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/ChrisMcGann/peakqc/pkg/core"
	"github.com/ChrisMcGann/peakqc/pkg/reader/records"
	xlsxreader "github.com/ChrisMcGann/peakqc/pkg/reader/xlsx"
)

// defaultSheet is the sheet excelize creates with every new workbook.
const defaultSheet = "Sheet1"

// WriteRun writes table to w as a workbook with a single PoolAfterDF sheet.
// The first column holds compound names under a Compound header; missing
// values are left as blank cells.
func WriteRun(w io.Writer, table *core.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := xlsxreader.RunSheet
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet(defaultSheet); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := setString(f, sheet, 1, 1, records.IndexColumn); err != nil {
		return err
	}
	for j, col := range table.Columns {
		if err := setString(f, sheet, j+2, 1, col); err != nil {
			return err
		}
	}

	for i, row := range table.Rows {
		r := i + 2
		if err := setString(f, sheet, 1, r, row.Compound); err != nil {
			return err
		}
		for j, v := range row.Values {
			if math.IsNaN(v) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+2, r)
			if err != nil {
				return err
			}
			// -1 precision keeps the shortest exact representation.
			if err := f.SetCellFloat(sheet, cell, v, -1, 64); err != nil {
				return fmt.Errorf("failed to write %s: %w", cell, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setString(f *excelize.File, sheet string, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellStr(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", cell, err)
	}
	return nil
}
