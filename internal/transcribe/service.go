package transcribe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/echoscribe/backend/internal/history"
	"github.com/echoscribe/backend/internal/stt"
)

// Upload describes one incoming media file. Data is used when the upload is
// streamed directly; FilePath when it was spooled to disk first.
type Upload struct {
	FileName string
	Size     int64
	Data     io.Reader
	FilePath string
	Language string
	Prompt   string
}

// Result is the outcome of a completed transcription.
type Result struct {
	Text     string          `json:"text"`
	Language string          `json:"language,omitempty"`
	Duration string          `json:"duration"`
	FileName string          `json:"fileName"`
	FileSize string          `json:"fileSize"`
	Date     string          `json:"date"`
	Saved    bool            `json:"saved"`
	Record   *history.Record `json:"record,omitempty"`
}

// Service runs uploads through a speech-to-text provider and files the
// outcome into the history store.
type Service struct {
	provider stt.Provider
	store    *history.Store
	now      func() time.Time
}

func NewService(provider stt.Provider, store *history.Store) *Service {
	return &Service{provider: provider, store: store, now: time.Now}
}

// Transcribe converts the upload to text and saves a history record.
// History is a convenience cache: a failed save is logged and reported via
// Result.Saved, but the transcription itself still succeeds.
func (s *Service) Transcribe(ctx context.Context, up Upload) (*Result, error) {
	out, err := s.provider.Transcribe(ctx, stt.Request{
		FilePath: up.FilePath,
		Reader:   up.Data,
		FileName: up.FileName,
		Language: up.Language,
		Prompt:   up.Prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("transcribe %s: %w", up.FileName, err)
	}

	res := &Result{
		Text:     out.Text,
		Language: out.Language,
		Duration: FormatDuration(out.Duration),
		FileName: up.FileName,
		FileSize: FormatSize(up.Size),
		Date:     s.now().Format("2006-01-02 15:04"),
	}

	rec, err := s.store.Save(ctx, history.Input{
		FileName: res.FileName,
		Date:     res.Date,
		Duration: res.Duration,
		FileSize: res.FileSize,
		Text:     res.Text,
	})
	if err != nil {
		slog.Error("history save failed", "file", up.FileName, "error", err)
		return res, nil
	}

	res.Saved = true
	res.Record = &rec
	return res, nil
}
