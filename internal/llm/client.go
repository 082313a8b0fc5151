// Package llm generates grounded answers from retrieved context using
// an OpenAI-compatible chat completion backend.
package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// qaPromptTemplate instructs the model to answer strictly from the
// supplied context.
const qaPromptTemplate = "Context information is below.\n" +
	"---------------------\n" +
	"%s\n" +
	"---------------------\n" +
	"Given the context information above I want you to think step by step " +
	"to answer the query in a crisp manner, in case you don't know the " +
	"answer say 'I don't know!'.\n" +
	"Query: %s\n" +
	"Answer: "

// Client wraps the chat completion backend.
type Client struct {
	client openai.Client
	model  string
}

// ClientConfig holds connection details for the completion backend.
type ClientConfig struct {
	// BaseURL of an OpenAI-compatible API, e.g. Groq.
	BaseURL string
	// APIKey authenticates requests. Required.
	APIKey string
	// Model is the completion model name.
	Model string
}

// NewClient creates a completion client, built once at startup and
// shared.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("completion API key not set")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

// Answer completes the QA prompt over the assembled grounding context
// and the raw query.
func (c *Client) Answer(ctx context.Context, contextStr, query string) (string, error) {
	prompt := fmt.Sprintf(qaPromptTemplate, contextStr, query)

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(c.model),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
