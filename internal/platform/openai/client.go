package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dhruvat/astra-api/internal/generation"
)

const (
	// DefaultBaseURL is the OpenAI API endpoint used unless overridden.
	DefaultBaseURL = "https://api.openai.com/v1"

	// defaultTimeout bounds a single completion call end to end.
	defaultTimeout = 120 * time.Second

	providerID = "openai"
)

// Client calls the OpenAI chat completions API. The API key is bound at
// construction; a Client built without one reports ErrNotConfigured on
// every call rather than failing at startup, so the process can run with a
// partial provider set.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests to point the client
// at a local server.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates an OpenAI completion client. An empty apiKey is
// permitted; the resulting client fails every call with ErrNotConfigured.
func NewClient(apiKey string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger.With(slog.String("component", "openai_client")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ generation.CompletionClient = (*Client)(nil)

// ProviderID implements generation.CompletionClient.
func (c *Client) ProviderID() string { return providerID }

// chatMessage is one entry in the chat completions messages array.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the wire request for POST /chat/completions.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatResponse is the subset of the chat completions response we consume.
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete implements generation.CompletionClient.
func (c *Client) Complete(ctx context.Context, req generation.Request) (*generation.Result, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openai: %w", generation.ErrNotConfigured)
	}

	model := req.Model
	if model == "" {
		model = "gpt-3.5-turbo"
	}

	messages := make([]chatMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openai: building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("sending chat completion request",
		slog.String("model", model),
		slog.Int("max_tokens", req.MaxTokens))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("openai: reading response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("openai: decoding response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return nil, fmt.Errorf("openai: api error (status %d, type %s): %s",
				resp.StatusCode, parsed.Error.Type, parsed.Error.Message)
		}
		return nil, fmt.Errorf("openai: unexpected status %d", resp.StatusCode)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("openai: %w", generation.ErrEmptyCompletion)
	}

	reportedModel := parsed.Model
	if reportedModel == "" {
		reportedModel = model
	}

	c.logger.Debug("chat completion succeeded",
		slog.String("model", reportedModel),
		slog.Int("total_tokens", parsed.Usage.TotalTokens))

	return &generation.Result{
		Content:  parsed.Choices[0].Message.Content,
		Provider: providerID,
		Model:    reportedModel,
		Usage: generation.Usage{
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
			TotalTokens:      parsed.Usage.TotalTokens,
		},
	}, nil
}
