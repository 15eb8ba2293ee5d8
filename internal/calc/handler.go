package calc

import (
	"encoding/json"
	"errors"
	"net/http"

	"TPSuite/internal/calc/session"
	"TPSuite/internal/dosimetry"

	"github.com/gorilla/mux"
)

// Handler runs one-shot calculations without keeping a session.
type Handler struct {
	Calculators map[string]session.Calculator
}

type calcResponse struct {
	Scenario string          `json:"scenario"`
	Label    string          `json:"label"`
	Summary  string          `json:"summary"`
	Result   session.Outcome `json:"result"`
}

type scenarioInfo struct {
	Scenario string   `json:"scenario"`
	Label    string   `json:"label"`
	Fields   []string `json:"fields"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var out []scenarioInfo
	for _, slug := range Scenarios(h.Calculators) {
		c := h.Calculators[slug]
		out = append(out, scenarioInfo{Scenario: slug, Label: c.Label(), Fields: c.Fields()})
	}
	session.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["scenario"]
	c, ok := h.Calculators[slug]
	if !ok {
		http.Error(w, "Unknown scenario", http.StatusNotFound)
		return
	}
	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := session.Run(c, fields)
	if err != nil {
		if errors.Is(err, dosimetry.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}
	session.WriteJSON(w, http.StatusOK, calcResponse{
		Scenario: slug,
		Label:    c.Label(),
		Summary:  res.Summary(),
		Result:   res,
	})
}
