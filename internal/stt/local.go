package stt

// LocalConfig holds configuration for the local whisper.cpp backend.
type LocalConfig struct {
	BaseURL string // default: "http://localhost:8178"
}

// LocalProvider wraps OpenAIProvider pointing at a local whisper.cpp server.
// Start the server with: ./server -m models/ggml-base.en.bin --port 8178
type LocalProvider struct {
	*OpenAIProvider
}

// NewLocalProvider creates a LocalProvider backed by a local whisper.cpp
// HTTP server.
func NewLocalProvider(cfg LocalConfig) *LocalProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8178"
	}
	return &LocalProvider{
		OpenAIProvider: NewOpenAIProvider(OpenAIConfig{
			BaseURL: baseURL,
			// No API key needed for local server
		}),
	}
}

func (l *LocalProvider) Name() string { return "local-whisper" }
