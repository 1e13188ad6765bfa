package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/echoscribe/backend/internal/jobs"
	"github.com/echoscribe/backend/internal/queue"
	"github.com/echoscribe/backend/internal/transcribe"
)

// TranscriptionWorker processes queued uploads: transcribe the spooled
// file, save the outcome into history, record the job status.
type TranscriptionWorker struct {
	svc     *transcribe.Service
	tracker *jobs.Tracker
}

func NewTranscriptionWorker(svc *transcribe.Service, tracker *jobs.Tracker) *TranscriptionWorker {
	return &TranscriptionWorker{svc: svc, tracker: tracker}
}

func (w *TranscriptionWorker) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload queue.TranscriptionProcessPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	if err := w.tracker.SetRunning(ctx, payload.JobID); err != nil {
		slog.Warn("job status update failed", "job", payload.JobID, "error", err)
	}

	res, err := w.svc.Transcribe(ctx, transcribe.Upload{
		FileName: payload.FileName,
		Size:     payload.FileSize,
		FilePath: payload.FilePath,
		Language: payload.Language,
		Prompt:   payload.Prompt,
	})
	if err != nil {
		if terr := w.tracker.SetFailed(ctx, payload.JobID, err); terr != nil {
			slog.Warn("job status update failed", "job", payload.JobID, "error", terr)
		}
		// Keep the spooled file so asynq retries can read it.
		return err
	}

	if err := os.Remove(payload.FilePath); err != nil && !os.IsNotExist(err) {
		slog.Warn("spool cleanup failed", "path", payload.FilePath, "error", err)
	}

	recordID := ""
	if res.Record != nil {
		recordID = res.Record.ID
	}
	if err := w.tracker.SetDone(ctx, payload.JobID, recordID); err != nil {
		slog.Warn("job status update failed", "job", payload.JobID, "error", err)
	}

	slog.Info("transcription job completed",
		"job", payload.JobID, "file", payload.FileName, "saved", res.Saved)
	return nil
}
