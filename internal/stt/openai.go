package stt

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig holds configuration for the OpenAI transcription backend.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // default: "https://api.openai.com/v1"
	Model   string // default: "whisper-1"
}

// OpenAIProvider transcribes audio using OpenAI's Whisper API (or a
// compatible endpoint).
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates an OpenAIProvider with sensible defaults applied.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string { return "openai-whisper" }

// Transcribe sends the audio to the Whisper API and returns the verbose
// result (text plus detected language and duration).
func (p *OpenAIProvider) Transcribe(ctx context.Context, req Request) (*Result, error) {
	audioReq := openai.AudioRequest{
		Model:    p.model,
		FilePath: req.FilePath,
		Language: req.Language,
		Prompt:   req.Prompt,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}
	if req.Reader != nil {
		// The SDK uses FilePath only as the multipart file name here.
		audioReq.Reader = req.Reader
		audioReq.FilePath = req.FileName
	}

	resp, err := p.client.CreateTranscription(ctx, audioReq)
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}

	return &Result{
		Text:     resp.Text,
		Language: resp.Language,
		Duration: resp.Duration,
	}, nil
}
