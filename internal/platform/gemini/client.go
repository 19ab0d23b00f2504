package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/dhruvat/astra-api/internal/generation"
)

const providerID = "gemini"

// Client calls the Gemini API through the genai SDK. Construction without a
// credential yields a client whose calls fail with ErrNotConfigured; the
// SDK client itself is only created when a key is present.
type Client struct {
	genaiClient *genai.Client
	logger      *slog.Logger
}

// NewClient creates a Gemini completion client. An empty apiKey is
// permitted and produces a client that reports ErrNotConfigured on every
// call. A non-empty key that the SDK rejects surfaces as a construction
// error.
func NewClient(ctx context.Context, apiKey string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "gemini_client"))

	if apiKey == "" {
		return &Client{logger: logger}, nil
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: creating genai client: %w", err)
	}

	return &Client{genaiClient: genaiClient, logger: logger}, nil
}

var _ generation.CompletionClient = (*Client)(nil)

// ProviderID implements generation.CompletionClient.
func (c *Client) ProviderID() string { return providerID }

// Complete implements generation.CompletionClient.
func (c *Client) Complete(ctx context.Context, req generation.Request) (*generation.Result, error) {
	if c.genaiClient == nil {
		return nil, fmt.Errorf("gemini: %w", generation.ErrNotConfigured)
	}

	model := req.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}

	c.logger.Debug("sending generate content request",
		slog.String("model", model),
		slog.Int("max_tokens", req.MaxTokens))

	resp, err := c.genaiClient.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("gemini: %w", generation.ErrEmptyCompletion)
	}

	var usage generation.Usage
	if resp.UsageMetadata != nil {
		usage = generation.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	reportedModel := resp.ModelVersion
	if reportedModel == "" {
		reportedModel = model
	}

	c.logger.Debug("generate content succeeded",
		slog.String("model", reportedModel),
		slog.Int("total_tokens", usage.TotalTokens))

	return &generation.Result{
		Content:  text,
		Provider: providerID,
		Model:    reportedModel,
		Usage:    usage,
	}, nil
}
