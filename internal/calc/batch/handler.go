package batch

import (
	"encoding/json"
	"net/http"

	"TPSuite/internal/calc/session"

	"github.com/gorilla/mux"
	"github.com/xuri/excelize/v2"
)

const maxUpload = 10 << 20

type Handler struct {
	Calculators map[string]session.Calculator
}

type batchInput struct {
	Items []map[string]string `json:"items"`
}

func (h *Handler) calculator(w http.ResponseWriter, r *http.Request) (string, session.Calculator, bool) {
	slug := mux.Vars(r)["scenario"]
	c, ok := h.Calculators[slug]
	if !ok {
		http.Error(w, "Unknown scenario", http.StatusNotFound)
	}
	return slug, c, ok
}

// Calc runs a JSON batch.
func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	slug, c, ok := h.calculator(w, r)
	if !ok {
		return
	}
	var input batchInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Run(slug, c, input.Items)
	if err != nil {
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}
	session.WriteJSON(w, http.StatusOK, res)
}

// Import runs the rows of an uploaded workbook (form field "file").
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	slug, c, ok := h.calculator(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	defer f.Close()

	rows, err := ReadSheet(f, c)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := Run(slug, c, rows)
	if err != nil {
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}
	session.WriteJSON(w, http.StatusOK, res)
}
