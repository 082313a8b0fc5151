package embedding

import (
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client wraps an OpenAI-compatible embeddings endpoint. Pointing
// BaseURL at a local inference server works as long as it speaks the
// OpenAI embeddings API.
type Client struct {
	client openai.Client
}

// ClientConfig holds connection details for the embedding backend.
type ClientConfig struct {
	// BaseURL overrides the API endpoint. Empty means api.openai.com.
	BaseURL string
	// APIKey authenticates requests. Required.
	APIKey string
}

// NewClient creates an embedding API client. The client is intended to
// be constructed once at startup and shared for the process lifetime.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: embedding API key not set", ErrBackendUnavailable)
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{client: openai.NewClient(opts...)}, nil
}
