package history

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	previewLength = 150
	previewMarker = "..."
	exportSuffix  = "_transcript.txt"
)

// Record is one persisted transcription entry. Every field is captured at
// save time and never modified afterwards.
type Record struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	Date     string `json:"date"`
	Duration string `json:"duration"`
	FileSize string `json:"fileSize"`
	Text     string `json:"text"`
	Preview  string `json:"preview"`
}

// Input is the transcription result shape the store consumes.
type Input struct {
	FileName string
	Date     string
	Duration string
	FileSize string
	Text     string
}

func newRecord(in Input) Record {
	return Record{
		ID:       newID(),
		FileName: in.FileName,
		Date:     in.Date,
		Duration: in.Duration,
		FileSize: in.FileSize,
		Text:     in.Text,
		Preview:  makePreview(in.Text),
	}
}

// newID is a millisecond timestamp plus a random suffix. Uniqueness is
// best-effort, which is enough for a per-user history list.
func newID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// makePreview keeps the first 150 runes of text, appending a marker when
// anything was cut off.
func makePreview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + previewMarker
}

// Attachment is an exportable plain-text rendition of a record.
type Attachment struct {
	Filename string
	Body     []byte
}

// Export materializes the record's transcript as a downloadable text file
// named after the original upload. No storage or network involved.
func Export(rec Record) Attachment {
	return Attachment{
		Filename: sanitizeFileName(rec.FileName) + exportSuffix,
		Body:     []byte(rec.Text),
	}
}

// sanitizeFileName strips the extension and replaces characters that are
// unsafe in download filenames.
func sanitizeFileName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "transcript"
	}
	return b.String()
}
