// Package history serves the audit log of saved calculations.
package history

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"TPSuite/internal/auth"
	"TPSuite/internal/export"
	repo "TPSuite/internal/repo"
)

type Handler struct {
	Repo repo.LogRepository
	Now  func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// List returns every record, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logs, err := h.Repo.ListLogs(r.Context())
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if logs == nil {
		logs = []repo.LogRecord{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(logs)
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "csv", "text/csv; charset=utf-8", export.WriteCSV)
}

func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.WriteXLSX)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request, ext, contentType string, write func(io.Writer, []repo.LogRecord) error) {
	logs, err := h.Repo.ListLogs(r.Context())
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(h.now(), ext)+`"`)
	if err := write(w, logs); err != nil {
		log.Printf("export %s: %v", ext, err)
	}
}

// DeleteAll purges the log. Administrators only.
func (h *Handler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	op, _ := auth.OperatorFrom(r.Context())
	n, err := h.Repo.DeleteAllLogs(r.Context())
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	log.Printf("history purged by %s: %d records", op.Username, n)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"deleted": n})
}
