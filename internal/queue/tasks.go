package queue

const TypeTranscriptionProcess = "transcription:process"

// TranscriptionProcessPayload points the worker at a spooled upload.
type TranscriptionProcessPayload struct {
	JobID    string `json:"job_id"`
	FilePath string `json:"file_path"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	Language string `json:"language,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
}
