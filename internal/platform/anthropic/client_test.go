package anthropic_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvat/astra-api/internal/generation"
	"github.com/dhruvat/astra-api/internal/platform/anthropic"
)

func TestCompleteSuccess(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "claude-3-sonnet-20240229",
			"content": [{"type": "text", "text": "{\"ok\": true}"}],
			"usage": {"input_tokens": 150, "output_tokens": 50}
		}`))
	}))
	defer server.Close()

	client := anthropic.NewClient("test-key", nil, anthropic.WithBaseURL(server.URL))

	result, err := client.Complete(context.Background(), generation.Request{
		Prompt:       "generate vastu content",
		SystemPrompt: "you are a vastu expert",
		Temperature:  0.7,
		MaxTokens:    3000,
	})
	require.NoError(t, err)

	assert.Equal(t, `{"ok": true}`, result.Content)
	assert.Equal(t, "claude", result.Provider)
	assert.Equal(t, "claude-3-sonnet-20240229", result.Model)
	assert.Equal(t, 150, result.Usage.PromptTokens)
	assert.Equal(t, 50, result.Usage.CompletionTokens)
	assert.Equal(t, 200, result.Usage.TotalTokens)

	// The system prompt travels in the top-level system field, not the
	// messages array.
	assert.Equal(t, "you are a vastu expert", captured["system"])
	messages := captured["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
}

func TestCompleteDefaultSystemPrompt(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"content": [{"type": "text", "text": "hi"}]}`))
	}))
	defer server.Close()

	client := anthropic.NewClient("test-key", nil, anthropic.WithBaseURL(server.URL))

	_, err := client.Complete(context.Background(), generation.Request{Prompt: "hello"})
	require.NoError(t, err)

	assert.Equal(t, "You are a helpful AI assistant.", captured["system"])
}

func TestCompleteNotConfigured(t *testing.T) {
	t.Parallel()

	client := anthropic.NewClient("", nil)

	result, err := client.Complete(context.Background(), generation.Request{Prompt: "hello"})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, generation.ErrNotConfigured)
}

func TestCompleteAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": {"type": "overloaded_error", "message": "Overloaded"}}`))
	}))
	defer server.Close()

	client := anthropic.NewClient("test-key", nil, anthropic.WithBaseURL(server.URL))

	result, err := client.Complete(context.Background(), generation.Request{Prompt: "hello"})
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overloaded_error")
}

func TestCompleteEmptyContent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content": []}`))
	}))
	defer server.Close()

	client := anthropic.NewClient("test-key", nil, anthropic.WithBaseURL(server.URL))

	_, err := client.Complete(context.Background(), generation.Request{Prompt: "hello"})
	assert.ErrorIs(t, err, generation.ErrEmptyCompletion)
}

func TestProviderID(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "claude", anthropic.NewClient("k", nil).ProviderID())
}
