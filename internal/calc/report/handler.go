package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"time"

	"TPSuite/internal/auth"
	"TPSuite/internal/calc/session"
	"TPSuite/internal/dosimetry"

	"github.com/phpdave11/gofpdf"
)

type Input struct {
	Scenario  string            `json:"scenario"`
	Fields    map[string]string `json:"fields"`
	PatientID string            `json:"patient_id"`
	Notes     string            `json:"notes"`
}

// Report is everything printed on the calculation sheet.
type Report struct {
	Title     string
	PatientID string
	Operator  string
	Date      time.Time
	Fields    map[string]string
	// FieldOrder is the display order of Fields.
	FieldOrder []string
	Parameters map[string]string
	Summary    string
	Notes      string
}

type Handler struct {
	Calculators map[string]session.Calculator
	Now         func() time.Time
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	c, ok := h.Calculators[input.Scenario]
	if !ok {
		http.Error(w, "Unknown scenario", http.StatusNotFound)
		return
	}
	input.Fields = session.CanonicalFields(c, input.Fields)
	res, err := session.Run(c, input.Fields)
	if err != nil {
		if errors.Is(err, dosimetry.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	op, _ := auth.OperatorFrom(r.Context())
	rep := Report{
		Title:      c.Label(),
		PatientID:  input.PatientID,
		Operator:   op.Username,
		Date:       now(),
		Fields:     input.Fields,
		FieldOrder: c.Fields(),
		Parameters: res.Parameters(),
		Summary:    res.Summary(),
		Notes:      input.Notes,
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"report.pdf\"")
	if err := Render(w, rep); err != nil {
		log.Printf("report %s: %v", input.Scenario, err)
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}

// Render writes rep as a one-page A4 PDF.
func Render(w io.Writer, rep Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(rep.Title))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	if rep.PatientID != "" {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Patient: %s", rep.PatientID)))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, tr(fmt.Sprintf("Calculated by: %s", rep.Operator)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", rep.Date.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	table := func(heading string, keys []string, values map[string]string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, heading)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, k := range keys {
			pdf.CellFormat(60, 7, tr(k), "1", 0, "L", false, 0, "")
			pdf.CellFormat(80, 7, tr(values[k]), "1", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}
	table("Inputs", rep.FieldOrder, rep.Fields)
	table("Derived values", sortedKeys(rep.Parameters), rep.Parameters)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, tr("Result: "+rep.Summary))
	pdf.Ln(12)
	if rep.Notes != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(rep.Notes), "", "L", false)
	}
	return pdf.Output(w)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
