// Package reader opens run and lookup files by extension.
package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChrisMcGann/peakqc/pkg/classify"
	"github.com/ChrisMcGann/peakqc/pkg/core"
	"github.com/ChrisMcGann/peakqc/pkg/reader/csvtable"
	"github.com/ChrisMcGann/peakqc/pkg/reader/xlsx"
)

// Format identifies a supported table file type.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("cannot detect format from extension '%s', expected .xlsx or .csv", filepath.Ext(path))
	}
}

// ReadRunFile reads a run table. For workbooks, sheet selects the sheet; an
// empty sheet selects the first one. CSV files ignore sheet.
func ReadRunFile(path, sheet string) (*core.Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatXLSX:
		return xlsx.ReadRun(f, sheet)
	default:
		return csvtable.ReadRun(f)
	}
}

// ReadLookupFile reads the compound class/ion lookup.
func ReadLookupFile(path string) (*classify.Lookup, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatXLSX:
		return xlsx.ReadLookup(f)
	default:
		return csvtable.ReadLookup(f)
	}
}
