package dosimetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v2"
)

type tablesDoc struct {
	TMR Table `yaml:"tmr"`
	PDD Table `yaml:"pdd"`
	SCP Table `yaml:"scp"`
}

// LoadTablesFile reads a site calibration from a .yaml/.yml or .xlsx file.
// Tables missing from the file keep their built-in values.
func LoadTablesFile(path string) (Tables, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return Tables{}, err
		}
		defer f.Close()
		return LoadTablesYAML(f)
	case ".xlsx":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return Tables{}, fmt.Errorf("open workbook: %w", err)
		}
		defer f.Close()
		return LoadTablesXLSX(f)
	}
	return Tables{}, fmt.Errorf("unsupported table file %q", path)
}

// LoadTablesYAML reads top-level "tmr", "pdd" and "scp" maps of series.
func LoadTablesYAML(r io.Reader) (Tables, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Tables{}, err
	}
	var doc tablesDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Tables{}, fmt.Errorf("parse tables: %w", err)
	}
	return merge(doc)
}

// LoadTablesXLSX reads sheets named TMR, PDD and SCP. The first row holds
// series names ("FS", depth labels, "SCP_SHEET", "sc", "sp") and each
// following row one field size.
func LoadTablesXLSX(f *excelize.File) (Tables, error) {
	var doc tablesDoc
	for _, sheet := range f.GetSheetList() {
		var dst *Table
		switch strings.ToUpper(sheet) {
		case "TMR":
			dst = &doc.TMR
		case "PDD":
			dst = &doc.PDD
		case "SCP":
			dst = &doc.SCP
		default:
			continue
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return Tables{}, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		t, err := tableFromRows(rows)
		if err != nil {
			return Tables{}, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		*dst = t
	}
	return merge(doc)
}

func tableFromRows(rows [][]string) (Table, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("need a header row and at least one data row")
	}
	header := rows[0]
	t := make(Table, len(header))
	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		for col, name := range header {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if col >= len(row) {
				return nil, fmt.Errorf("row %d: missing value for %s", i+2, name)
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: %s: %w", i+2, name, err)
			}
			t[name] = append(t[name], v)
		}
	}
	return t, nil
}

func merge(doc tablesDoc) (Tables, error) {
	out := DefaultTables()
	if doc.TMR != nil {
		out.TMR = doc.TMR
	}
	if doc.PDD != nil {
		out.PDD = doc.PDD
	}
	if doc.SCP != nil {
		out.SCP = doc.SCP
	}
	if err := out.Validate(); err != nil {
		return Tables{}, err
	}
	return out, nil
}
