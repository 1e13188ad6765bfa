package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/echoscribe/backend/internal/jobs"
	"github.com/echoscribe/backend/internal/queue"
	"github.com/echoscribe/backend/internal/transcribe"
)

type TranscribeHandler struct {
	svc      *transcribe.Service
	queue    *queue.Client
	tracker  *jobs.Tracker
	spoolDir string
	maxBytes int64
}

func NewTranscribeHandler(svc *transcribe.Service, qc *queue.Client, tracker *jobs.Tracker, spoolDir string, maxBytes int64) *TranscribeHandler {
	return &TranscribeHandler{
		svc:      svc,
		queue:    qc,
		tracker:  tracker,
		spoolDir: spoolDir,
		maxBytes: maxBytes,
	}
}

// Create transcribes the uploaded file synchronously and returns the
// transcript together with the saved history record.
func (h *TranscribeHandler) Create(w http.ResponseWriter, r *http.Request) {
	file, header, ok := h.formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	res, err := h.svc.Transcribe(r.Context(), transcribe.Upload{
		FileName: header.Filename,
		Size:     header.Size,
		Data:     file,
		Language: r.FormValue("language"),
		Prompt:   r.FormValue("prompt"),
	})
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, res)
}

// Submit spools the upload to disk and enqueues a background transcription
// job, returning its id for polling.
func (h *TranscribeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	file, header, ok := h.formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	path, size, err := h.spool(file, header.Filename)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to store upload"})
		return
	}

	jobID := jobs.NewID()
	if _, err := h.tracker.Create(r.Context(), jobID, header.Filename); err != nil {
		os.Remove(path)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	err = h.queue.EnqueueTranscription(queue.TranscriptionProcessPayload{
		JobID:    jobID,
		FilePath: path,
		FileName: header.Filename,
		FileSize: size,
		Language: r.FormValue("language"),
		Prompt:   r.FormValue("prompt"),
	})
	if err != nil {
		os.Remove(path)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"job_id": jobID,
		"status": string(jobs.StatusPending),
	})
}

// Status reports a queued job's progress.
func (h *TranscribeHandler) Status(w http.ResponseWriter, r *http.Request) {
	job, err := h.tracker.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "job not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func (h *TranscribeHandler) formFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return nil, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file required"})
		return nil, nil, false
	}
	return file, header, true
}

func (h *TranscribeHandler) spool(src io.Reader, name string) (string, int64, error) {
	if err := os.MkdirAll(h.spoolDir, 0o755); err != nil {
		return "", 0, err
	}

	dst, err := os.CreateTemp(h.spoolDir, "upload-*"+filepath.Ext(name))
	if err != nil {
		return "", 0, err
	}
	defer dst.Close()

	n, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(dst.Name())
		return "", 0, err
	}
	return dst.Name(), n, nil
}
