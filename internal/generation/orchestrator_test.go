package generation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvat/astra-api/internal/generation"
)

// stubClient is a scripted CompletionClient that records the requests it
// receives.
type stubClient struct {
	id       string
	result   *generation.Result
	err      error
	calls    int
	requests []generation.Request
}

func (c *stubClient) ProviderID() string { return c.id }

func (c *stubClient) Complete(ctx context.Context, req generation.Request) (*generation.Result, error) {
	c.calls++
	c.requests = append(c.requests, req)
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

func okResult(provider string) *generation.Result {
	return &generation.Result{
		Content:  "generated text",
		Provider: provider,
		Model:    "model-" + provider,
	}
}

func allCredentials() generation.CredentialLookup {
	return func(string) string { return "present" }
}

func TestOrchestratorFirstProviderSucceeds(t *testing.T) {
	t.Parallel()

	openai := &stubClient{id: "openai", result: okResult("openai")}
	claude := &stubClient{id: "claude", result: okResult("claude")}

	orch := generation.NewOrchestrator(
		generation.NewRegistry(allCredentials()),
		[]generation.CompletionClient{openai, claude},
		"openai",
		nil,
	)

	result, err := orch.GenerateCompletion(context.Background(), generation.Request{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "openai", result.Provider)
	assert.Equal(t, 1, openai.calls)
	assert.Equal(t, 0, claude.calls)
}

func TestOrchestratorFallsBackInRegistryOrder(t *testing.T) {
	t.Parallel()

	openai := &stubClient{id: "openai", err: errors.New("rate limited")}
	claude := &stubClient{id: "claude", err: errors.New("overloaded")}
	gemini := &stubClient{id: "gemini", result: okResult("gemini")}

	orch := generation.NewOrchestrator(
		generation.NewRegistry(allCredentials()),
		[]generation.CompletionClient{openai, claude, gemini},
		"openai",
		nil,
	)

	result, err := orch.GenerateCompletion(context.Background(), generation.Request{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "gemini", result.Provider)

	// Each backend is attempted exactly once.
	assert.Equal(t, 1, openai.calls)
	assert.Equal(t, 1, claude.calls)
	assert.Equal(t, 1, gemini.calls)
}

func TestOrchestratorAllProvidersFail(t *testing.T) {
	t.Parallel()

	openai := &stubClient{id: "openai", err: errors.New("down")}
	claude := &stubClient{id: "claude", err: errors.New("down")}
	gemini := &stubClient{id: "gemini", err: errors.New("down")}

	orch := generation.NewOrchestrator(
		generation.NewRegistry(allCredentials()),
		[]generation.CompletionClient{openai, claude, gemini},
		"openai",
		nil,
	)

	result, err := orch.GenerateCompletion(context.Background(), generation.Request{Prompt: "hello"})
	require.Nil(t, result)
	assert.ErrorIs(t, err, generation.ErrAllProvidersFailed)

	assert.Equal(t, 1, openai.calls)
	assert.Equal(t, 1, claude.calls)
	assert.Equal(t, 1, gemini.calls)
}

func TestOrchestratorRequestedProviderNotRetried(t *testing.T) {
	t.Parallel()

	// The default provider fails; the fallback walk must skip it even
	// though its credential is present.
	claude := &stubClient{id: "claude", err: errors.New("down")}
	openai := &stubClient{id: "openai", result: okResult("openai")}
	gemini := &stubClient{id: "gemini", result: okResult("gemini")}

	orch := generation.NewOrchestrator(
		generation.NewRegistry(allCredentials()),
		[]generation.CompletionClient{openai, claude, gemini},
		"claude",
		nil,
	)

	result, err := orch.GenerateCompletion(context.Background(), generation.Request{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "openai", result.Provider)
	assert.Equal(t, 1, claude.calls)
}

func TestOrchestratorModelOverrideClearedOnFallback(t *testing.T) {
	t.Parallel()

	openai := &stubClient{id: "openai", err: errors.New("down")}
	claude := &stubClient{id: "claude", result: okResult("claude")}

	orch := generation.NewOrchestrator(
		generation.NewRegistry(allCredentials()),
		[]generation.CompletionClient{openai, claude, &stubClient{id: "gemini"}},
		"openai",
		nil,
	)

	_, err := orch.GenerateCompletion(context.Background(), generation.Request{
		Prompt: "hello",
		Model:  "gpt-4",
	})
	require.NoError(t, err)

	require.Len(t, openai.requests, 1)
	assert.Equal(t, "gpt-4", openai.requests[0].Model)

	// The model override was meaningful only for the requested backend.
	require.Len(t, claude.requests, 1)
	assert.Empty(t, claude.requests[0].Model)
}

func TestOrchestratorUnknownProviderFallsBack(t *testing.T) {
	t.Parallel()

	openai := &stubClient{id: "openai", result: okResult("openai")}

	orch := generation.NewOrchestrator(
		generation.NewRegistry(allCredentials()),
		[]generation.CompletionClient{openai},
		"openai",
		nil,
	)

	// A provider with no registered adapter fails its attempt, then the
	// usable walk finds openai.
	result, err := orch.GenerateCompletion(context.Background(), generation.Request{
		Prompt:   "hello",
		Provider: "no-such-provider",
	})
	require.NoError(t, err)
	assert.Equal(t, "openai", result.Provider)
}

func TestOrchestratorSkipsProvidersWithoutCredentials(t *testing.T) {
	t.Parallel()

	lookup := func(name string) string {
		if name == "GEMINI_API_KEY" {
			return "present"
		}
		return ""
	}

	openai := &stubClient{id: "openai", err: errors.New("not configured")}
	claude := &stubClient{id: "claude", err: errors.New("not configured")}
	gemini := &stubClient{id: "gemini", result: okResult("gemini")}

	orch := generation.NewOrchestrator(
		generation.NewRegistry(lookup),
		[]generation.CompletionClient{openai, claude, gemini},
		"openai",
		nil,
	)

	result, err := orch.GenerateCompletion(context.Background(), generation.Request{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "gemini", result.Provider)

	// openai was attempted as the default, but claude has no credential
	// and is never tried during fallback.
	assert.Equal(t, 1, openai.calls)
	assert.Equal(t, 0, claude.calls)
}

func TestOrchestratorAppliesDefaultParameters(t *testing.T) {
	t.Parallel()

	openai := &stubClient{id: "openai", result: okResult("openai")}

	orch := generation.NewOrchestrator(
		generation.NewRegistry(allCredentials()),
		[]generation.CompletionClient{openai},
		"openai",
		nil,
	)

	_, err := orch.GenerateCompletion(context.Background(), generation.Request{Prompt: "hello"})
	require.NoError(t, err)

	require.Len(t, openai.requests, 1)
	assert.Equal(t, generation.DefaultTemperature, openai.requests[0].Temperature)
	assert.Equal(t, generation.DefaultMaxTokens, openai.requests[0].MaxTokens)
}
