package stt

import (
	"context"
	"io"
)

// Request identifies the audio to transcribe. Either FilePath or Reader
// must be set; when Reader is used, FileName names the upload for the
// provider.
type Request struct {
	FilePath string
	Reader   io.Reader
	FileName string
	Language string
	Prompt   string
}

// Result holds the transcription output.
type Result struct {
	Text     string
	Language string
	Duration float64 // seconds
}

// Provider is the interface for speech-to-text backends.
type Provider interface {
	Transcribe(ctx context.Context, req Request) (*Result, error)
	Name() string
}

// NewProvider selects a backend by name: "local" or "openai" (default).
func NewProvider(backend string, openaiCfg OpenAIConfig, localCfg LocalConfig) Provider {
	if backend == "local" {
		return NewLocalProvider(localCfg)
	}
	return NewOpenAIProvider(openaiCfg)
}
