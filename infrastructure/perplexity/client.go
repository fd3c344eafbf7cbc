// Package perplexity implements the chat-completion port against the
// Perplexity API, which speaks the OpenAI chat-completions protocol.
package perplexity

import (
	"context"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	apperrors "papergraph/pkg/errors"
)

// DefaultBaseURL is the Perplexity chat-completions endpoint.
const DefaultBaseURL = "https://api.perplexity.ai"

// DefaultModel is the model used for outline generation.
const DefaultModel = "llama-3.1-sonar-large-128k-online"

// Summarization calls can run long; the timeout is deliberately wider
// than the metadata source's.
const requestTimeout = 30 * time.Second

// Client wraps the OpenAI-compatible chat-completions API.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
	logger      *zap.Logger
}

// NewClient creates a client. Empty baseURL and model fall back to the
// Perplexity defaults.
func NewClient(apiKey, baseURL, model string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	cfg.HTTPClient = &http.Client{Timeout: requestTimeout}

	return &Client{
		api:         openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: 0.2,
		maxTokens:   2000,
		logger:      logger,
	}
}

// Complete sends one user prompt and returns the completion text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		c.logger.Error("Chat completion failed", zap.Error(err))
		return "", apperrors.NewExternalError("perplexity", err)
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.NewExternalError("perplexity", nil).WithCode("EMPTY_RESPONSE")
	}

	return resp.Choices[0].Message.Content, nil
}
