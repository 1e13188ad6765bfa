package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echoscribe/backend/internal/history"
	"github.com/echoscribe/backend/internal/kv"
)

func newHistoryRouter(t *testing.T) (*chi.Mux, *history.Store) {
	t.Helper()
	store := history.NewStore(kv.NewMemoryStore(), "", 0)
	h := NewHistoryHandler(store)

	r := chi.NewRouter()
	r.Route("/history", func(r chi.Router) {
		r.Get("/", h.List)
		r.Delete("/", h.Clear)
		r.Get("/{id}", h.Get)
		r.Delete("/{id}", h.Delete)
		r.Get("/{id}/export", h.Export)
	})
	return r, store
}

func saveRecord(t *testing.T, store *history.Store, fileName, text string) history.Record {
	t.Helper()
	rec, err := store.Save(context.Background(), history.Input{
		FileName: fileName,
		Date:     "2026-08-30 10:15",
		Duration: "0:42",
		FileSize: "100 B",
		Text:     text,
	})
	require.NoError(t, err)
	return rec
}

func doRequest(r http.Handler, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestHistoryList(t *testing.T) {
	r, store := newHistoryRouter(t)
	saveRecord(t, store, "first.mp3", "alpha transcript")
	saveRecord(t, store, "second.mp3", "beta transcript")

	rr := doRequest(r, http.MethodGet, "/history")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Records []history.Record `json:"records"`
		Count   int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	require.Len(t, body.Records, 2)
	assert.Equal(t, "second.mp3", body.Records[0].FileName)
}

func TestHistoryList_Filter(t *testing.T) {
	r, store := newHistoryRouter(t)
	saveRecord(t, store, "standup.mp3", "we discussed the roadmap")
	saveRecord(t, store, "retro.wav", "what went well")

	rr := doRequest(r, http.MethodGet, "/history?q=roadmap")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Records []history.Record `json:"records"`
		Count   int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Records, 1)
	assert.Equal(t, "standup.mp3", body.Records[0].FileName)
}

func TestHistoryGet(t *testing.T) {
	r, store := newHistoryRouter(t)
	rec := saveRecord(t, store, "call.mp3", "hello there")

	rr := doRequest(r, http.MethodGet, "/history/"+rec.ID)
	require.Equal(t, http.StatusOK, rr.Code)

	var got history.Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, rec, got)
}

func TestHistoryGet_NotFound(t *testing.T) {
	r, _ := newHistoryRouter(t)

	rr := doRequest(r, http.MethodGet, "/history/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHistoryDelete(t *testing.T) {
	r, store := newHistoryRouter(t)
	rec := saveRecord(t, store, "a.mp3", "one")
	keep := saveRecord(t, store, "b.mp3", "two")

	rr := doRequest(r, http.MethodDelete, "/history/"+rec.ID)
	require.Equal(t, http.StatusOK, rr.Code)

	records, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, keep.ID, records[0].ID)
}

func TestHistoryDelete_UnknownID(t *testing.T) {
	r, store := newHistoryRouter(t)
	saveRecord(t, store, "a.mp3", "one")

	rr := doRequest(r, http.MethodDelete, "/history/unknown")
	assert.Equal(t, http.StatusOK, rr.Code)

	records, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestHistoryClear(t *testing.T) {
	r, store := newHistoryRouter(t)
	saveRecord(t, store, "a.mp3", "one")
	saveRecord(t, store, "b.mp3", "two")

	rr := doRequest(r, http.MethodDelete, "/history")
	require.Equal(t, http.StatusOK, rr.Code)

	records, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHistoryExport(t *testing.T) {
	r, store := newHistoryRouter(t)
	rec := saveRecord(t, store, "team call.mp3", "the full transcript body")

	rr := doRequest(r, http.MethodGet, "/history/"+rec.ID+"/export")
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="team_call_transcript.txt"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "the full transcript body", rr.Body.String())
}

func TestHistoryExport_NotFound(t *testing.T) {
	r, _ := newHistoryRouter(t)

	rr := doRequest(r, http.MethodGet, "/history/nope/export")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
