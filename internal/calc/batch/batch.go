// Package batch runs one scenario over many rows of fields, either posted as
// JSON or imported from a spreadsheet.
package batch

import (
	"errors"
	"fmt"
	"strings"

	"TPSuite/internal/calc/session"

	"github.com/xuri/excelize/v2"
)

var ErrNoRows = errors.New("no rows")

// Row is the outcome for one input row. Error is set when the row failed
// validation; the remaining rows are still calculated.
type Row struct {
	Row     int               `json:"row"`
	Fields  map[string]string `json:"fields"`
	Summary string            `json:"summary,omitempty"`
	Result  session.Outcome   `json:"result,omitempty"`
	Error   string            `json:"error,omitempty"`
}

type Result struct {
	Scenario string `json:"scenario"`
	Count    int    `json:"count"`
	Failed   int    `json:"failed"`
	Rows     []Row  `json:"rows"`
}

// Run calculates every row with c. Rows are numbered from 1.
func Run(scenario string, c session.Calculator, rows []map[string]string) (Result, error) {
	if len(rows) == 0 {
		return Result{}, ErrNoRows
	}
	out := Result{Scenario: scenario, Rows: make([]Row, 0, len(rows))}
	for i, fields := range rows {
		fields = session.CanonicalFields(c, fields)
		row := Row{Row: i + 1, Fields: fields}
		res, err := session.Run(c, fields)
		if err != nil {
			row.Error = err.Error()
			out.Failed++
		} else {
			row.Result = res
			row.Summary = res.Summary()
		}
		out.Rows = append(out.Rows, row)
	}
	out.Count = len(out.Rows)
	return out, nil
}

// ReadSheet reads the first sheet of f. The header row names the fields
// and is matched case-insensitively against the calculator's field names;
// unknown columns are ignored and blank rows skipped.
func ReadSheet(f *excelize.File, c session.Calculator) ([]map[string]string, error) {
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, ErrNoRows
	}

	columns := make(map[int]string)
	for i, name := range rows[0] {
		for _, field := range c.Fields() {
			if strings.EqualFold(strings.TrimSpace(name), field) {
				columns[i] = field
			}
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("header row has none of %s", strings.Join(c.Fields(), ", "))
	}

	var out []map[string]string
	for _, row := range rows[1:] {
		fields := make(map[string]string, len(columns))
		blank := true
		for i, field := range columns {
			if i < len(row) {
				fields[field] = strings.TrimSpace(row[i])
				if fields[field] != "" {
					blank = false
				}
			}
		}
		if !blank {
			out = append(out, fields)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}
