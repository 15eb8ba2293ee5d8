package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"TPSuite/internal/auth"

	"github.com/gorilla/mux"
)

// Handler exposes sessions under /sessions.
type Handler struct {
	Calculators map[string]Calculator
	Registry    *Registry
	Store       LogAppender
	SaveTimeout time.Duration
	Saves       *sync.WaitGroup
}

type createRequest struct {
	Scenario string            `json:"scenario"`
	Fields   map[string]string `json:"fields"`
}

type createResponse struct {
	ID string `json:"id"`
	Snapshot
}

type saveRequest struct {
	PatientID string `json:"patient_id"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	op, _ := auth.OperatorFrom(r.Context())
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	calc, ok := h.Calculators[req.Scenario]
	if !ok {
		http.Error(w, "Unknown scenario", http.StatusNotFound)
		return
	}
	s := New(calc, h.Store, WithSaveTimeout(h.SaveTimeout), WithWaitGroup(h.Saves))
	for name, text := range req.Fields {
		if err := s.SetField(name, text); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	id := h.Registry.Create(s, op.Username)
	WriteJSON(w, http.StatusCreated, createResponse{ID: id, Snapshot: s.Snapshot()})
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	op, _ := auth.OperatorFrom(r.Context())
	s, ok := h.Registry.Get(mux.Vars(r)["id"], op.Username)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
	}
	return s, ok
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) SetFields(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	for name, text := range fields {
		if err := s.SetField(name, text); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	WriteJSON(w, http.StatusOK, s.Snapshot())
}

// Calculate answers 422 with the session snapshot when validation fails.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	status := http.StatusOK
	if err := s.Calculate(); err != nil {
		status = http.StatusUnprocessableEntity
	}
	WriteJSON(w, status, s.Snapshot())
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	s.Clear()
	WriteJSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	op, _ := auth.OperatorFrom(r.Context())
	var req saveRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}
	}

	err := <-s.SaveToHistory(r.Context(), op.Username, req.PatientID)
	switch {
	case errors.Is(err, ErrNoResult):
		http.Error(w, "Nothing to save", http.StatusConflict)
	case err != nil:
		WriteJSON(w, http.StatusBadGateway, s.Snapshot())
	default:
		WriteJSON(w, http.StatusOK, s.Snapshot())
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	op, _ := auth.OperatorFrom(r.Context())
	if !h.Registry.Delete(mux.Vars(r)["id"], op.Username) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// WriteJSON encodes v before committing status, so an unencodable value
// becomes a 500 rather than an empty success.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
