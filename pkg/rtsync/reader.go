// Package rtsync updates the retention-time repository from a standards
// export.
package rtsync

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ChrisMcGann/peakqc/pkg/core"
)

// NameColumn is the header of the compound name column in standards exports.
const NameColumn = "row identity (main ID)"

// nameSuffix holds the characters trimmed from the end of standard names.
const nameSuffix = " M0"

// nameSeparator joins compounds that share one standards row.
const nameSeparator = " / "

// Standard is one compound of a standards export with its averaged RT.
type Standard struct {
	Name   string
	RT     float64
	Values []float64
}

// Reader provides access to the standards of a CSV export. The whole file is
// read on the first call to Next, since column usability depends on every row.
type Reader struct {
	src       io.Reader
	standards []Standard
	pos       int
	loaded    bool
	current   *Standard
	err       error
}

// NewReader decodes r from the named charset, e.g. ISO-8859-1. An empty
// label reads r as UTF-8. A leading byte-order mark overrides the label.
func NewReader(r io.Reader, encoding string) (*Reader, error) {
	var fallback transform.Transformer = transform.Nop
	if encoding != "" {
		enc, _ := charset.Lookup(encoding)
		if enc == nil {
			return nil, fmt.Errorf("unsupported standards encoding '%s'", encoding)
		}
		fallback = enc.NewDecoder()
	}
	return &Reader{src: transform.NewReader(r, unicode.BOMOverride(fallback))}, nil
}

// Next advances to the next standard. Returns false when no more standards or error.
func (r *Reader) Next() bool {
	r.current = nil
	if !r.loaded {
		r.loaded = true
		r.standards, r.err = parse(r.src)
		if r.err != nil {
			return false
		}
	}
	if r.pos >= len(r.standards) {
		return false
	}
	r.current = &r.standards[r.pos]
	r.pos++
	return true
}

// Standard returns the current standard.
func (r *Reader) Standard() *Standard {
	return r.current
}

// Err returns any error encountered during reading.
func (r *Reader) Err() error {
	return r.err
}

// ReadAll drains r.
func ReadAll(r *Reader) ([]Standard, error) {
	var out []Standard
	for r.Next() {
		out = append(out, *r.Standard())
	}
	return out, r.Err()
}

type record struct {
	name  string
	cells []string
}

func parse(src io.Reader) ([]Standard, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read standards CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty standards file")
	}

	header := rows[0]
	nameIdx := -1
	for i, h := range header {
		if strings.TrimSpace(h) == NameColumn {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("standards file has no '%s' column", NameColumn)
	}

	// Names that appear more than once are dropped entirely.
	counts := make(map[string]int, len(rows))
	for _, row := range rows[1:] {
		counts[field(row, nameIdx)]++
	}
	var records []record
	for _, row := range rows[1:] {
		name := field(row, nameIdx)
		if counts[name] > 1 {
			continue
		}
		records = append(records, record{name: name, cells: row})
	}

	// A value column is used only when every kept row has a number in it.
	var valueCols []int
	for col := range header {
		if col != nameIdx && numericColumn(records, col) {
			valueCols = append(valueCols, col)
		}
	}

	var out []Standard
	for _, rec := range records {
		name := strings.TrimRight(rec.name, nameSuffix)
		if name == "" || name == NameColumn {
			continue
		}
		values := make([]float64, len(valueCols))
		for i, col := range valueCols {
			values[i], _ = strconv.ParseFloat(field(rec.cells, col), 64)
		}
		rt := meanRT(values)
		for _, part := range strings.Split(name, nameSeparator) {
			out = append(out, Standard{Name: part, RT: rt, Values: values})
		}
	}
	return out, nil
}

func numericColumn(records []record, col int) bool {
	for _, rec := range records {
		s := field(rec.cells, col)
		if s == "" {
			return false
		}
		if strings.TrimRight(rec.name, nameSuffix) == NameColumn {
			continue
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return false
		}
	}
	return true
}

// meanRT averages the non-zero values, rounded to two decimals. No non-zero
// values give 0.
func meanRT(values []float64) float64 {
	var sum float64
	var n int
	for _, v := range values {
		if v != 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return core.RoundFloat(sum/float64(n), 2)
}

func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
