// Package export writes the audit log for download.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	repo "TPSuite/internal/repo"

	"github.com/xuri/excelize/v2"
)

// Header is the column row shared by both formats.
var Header = []string{"ID", "Timestamp", "User", "Type", "Values", "Result"}

const sheetName = "Logs"

// WriteCSV writes the log in the format spreadsheets exported by earlier
// releases expect: the Values column is always quoted with its inner double
// quotes turned into single quotes, rows are joined by "\n" and the
// timestamp is milliseconds since the epoch.
func WriteCSV(w io.Writer, logs []repo.LogRecord) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(Header, ","))
	for _, l := range logs {
		bw.WriteString("\n")
		fmt.Fprintf(bw, "%d,%d,%s,%s,\"%s\",%s",
			l.ID,
			l.CreatedAt.UnixMilli(),
			l.Username,
			l.CalculationType,
			strings.ReplaceAll(l.CalculationValues, `"`, "'"),
			l.Result,
		)
	}
	return bw.Flush()
}

// WriteXLSX writes the log as a single-sheet workbook.
func WriteXLSX(w io.Writer, logs []repo.LogRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, l := range logs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			l.ID,
			l.CreatedAt.UTC().Format(time.RFC3339),
			l.Username,
			l.CalculationType,
			l.CalculationValues,
			l.Result,
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(sheetName, "E", "E", 60); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Filename returns a dated download name with the given extension.
func Filename(now time.Time, ext string) string {
	return "DosimetryLogsExport-" + now.Format("20060102") + "." + strings.TrimPrefix(ext, ".")
}

// ParseFormat maps a user-supplied format name to its extension.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "csv", "xlsx":
		return f, nil
	case "":
		return "csv", nil
	default:
		return "", fmt.Errorf("unknown export format %s", strconv.Quote(s))
	}
}
