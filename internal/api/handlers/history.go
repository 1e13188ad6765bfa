package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/echoscribe/backend/internal/history"
)

type HistoryHandler struct {
	store *history.Store
}

func NewHistoryHandler(store *history.Store) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// List returns all records newest first, optionally filtered by a ?q=
// substring over file name and transcript text.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		records = filterRecords(records, q)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"records": records, "count": len(records)})
}

func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Delete removes one record. Deleting an unknown id is a no-op, not an
// error.
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// Export streams one record's transcript as a plain-text file download.
func (h *HistoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookup(w, r)
	if !ok {
		return
	}

	att := history.Export(rec)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(att.Body)
}

func (h *HistoryHandler) lookup(w http.ResponseWriter, r *http.Request) (history.Record, bool) {
	rec, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, history.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "record not found"})
		} else {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return history.Record{}, false
	}
	return rec, true
}

func filterRecords(records []history.Record, q string) []history.Record {
	q = strings.ToLower(q)
	matched := make([]history.Record, 0, len(records))
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.FileName), q) ||
			strings.Contains(strings.ToLower(rec.Text), q) {
			matched = append(matched, rec)
		}
	}
	return matched
}
