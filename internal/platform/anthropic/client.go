package anthropic

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
	// DefaultBaseURL is the Anthropic API endpoint used unless overridden.
	DefaultBaseURL = "https://api.anthropic.com/v1"

	// apiVersion is the required anthropic-version header value.
	apiVersion = "2023-06-01"

	// defaultSystemPrompt is used when a request carries no system prompt;
	// the messages API requires the assistant persona to live in the
	// top-level system field rather than the messages array.
	defaultSystemPrompt = "You are a helpful AI assistant."

	defaultTimeout = 120 * time.Second

	providerID = "claude"
)

// Client calls the Anthropic messages API. The API key is bound at
// construction; a Client built without one reports ErrNotConfigured on
// every call.
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

// NewClient creates an Anthropic completion client. An empty apiKey is
// permitted; the resulting client fails every call with ErrNotConfigured.
func NewClient(apiKey string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger.With(slog.String("component", "anthropic_client")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ generation.CompletionClient = (*Client)(nil)

// ProviderID implements generation.CompletionClient.
func (c *Client) ProviderID() string { return providerID }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system"`
	Messages    []message `json:"messages"`
}

type messagesResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete implements generation.CompletionClient.
func (c *Client) Complete(ctx context.Context, req generation.Request) (*generation.Result, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("anthropic: %w", generation.ErrNotConfigured)
	}

	model := req.Model
	if model == "" {
		model = "claude-3-sonnet-20240229"
	}

	system := req.SystemPrompt
	if system == "" {
		system = defaultSystemPrompt
	}

	body, err := json.Marshal(messagesRequest{
		Model:       model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		System:      system,
		Messages:    []message{{Role: "user", Content: req.Prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic: marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("anthropic: building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	c.logger.Debug("sending messages request",
		slog.String("model", model),
		slog.Int("max_tokens", req.MaxTokens))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("anthropic: reading response: %w", err)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("anthropic: decoding response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return nil, fmt.Errorf("anthropic: api error (status %d, type %s): %s",
				resp.StatusCode, parsed.Error.Type, parsed.Error.Message)
		}
		return nil, fmt.Errorf("anthropic: unexpected status %d", resp.StatusCode)
	}

	if len(parsed.Content) == 0 || parsed.Content[0].Text == "" {
		return nil, fmt.Errorf("anthropic: %w", generation.ErrEmptyCompletion)
	}

	reportedModel := parsed.Model
	if reportedModel == "" {
		reportedModel = model
	}

	c.logger.Debug("messages request succeeded",
		slog.String("model", reportedModel),
		slog.Int("output_tokens", parsed.Usage.OutputTokens))

	return &generation.Result{
		Content:  parsed.Content[0].Text,
		Provider: providerID,
		Model:    reportedModel,
		Usage: generation.Usage{
			PromptTokens:     parsed.Usage.InputTokens,
			CompletionTokens: parsed.Usage.OutputTokens,
			TotalTokens:      parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
		},
	}, nil
}
