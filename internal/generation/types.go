package generation

import "context"

// Default generation parameters, applied when a Request leaves them unset.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 4000
)

// Request describes one completion to generate. It is constructed fresh per
// call and never persisted.
type Request struct {
	// Prompt is the task description sent as the user turn.
	Prompt string

	// SystemPrompt optionally sets the persona/constraints. Backends that
	// use a separate system field receive it there; chat-style backends
	// receive it as a leading system message.
	SystemPrompt string

	// Provider optionally names the backend to try first. Empty means the
	// orchestrator's configured default, falling back to the registry's
	// first provider.
	Provider string

	// Model optionally overrides the provider's default model.
	Model string

	// Temperature controls sampling randomness. Zero means
	// DefaultTemperature.
	Temperature float64

	// MaxTokens caps the generated output. Zero means DefaultMaxTokens.
	MaxTokens int
}

// withDefaults returns a copy of the request with zero-valued generation
// parameters replaced by package defaults.
func (r Request) withDefaults() Request {
	if r.Temperature == 0 {
		r.Temperature = DefaultTemperature
	}
	if r.MaxTokens == 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	return r
}

// Usage holds the token accounting a backend reports for one completion.
// All counters are zero when the backend does not report usage.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Result is one successful completion. Provider is the backend that
// actually produced the text, which may differ from the one requested when
// fallback occurred; Model is the identifier the backend reported, not
// necessarily the one requested.
type Result struct {
	Content  string `json:"content"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Usage    Usage  `json:"usage"`
}

// CompletionClient wraps one backend's request/response shape behind a
// single uniform call. Implementations do not retry; retry across backends
// is the orchestrator's job.
type CompletionClient interface {
	// ProviderID returns the stable backend identifier, e.g. "openai".
	ProviderID() string

	// Complete issues one completion call. An adapter whose credential was
	// absent at process start fails immediately with ErrNotConfigured.
	// Network, auth, and malformed-response failures all surface as plain
	// errors; the caller treats them uniformly as a backend failure.
	Complete(ctx context.Context, req Request) (*Result, error)
}

// CompletionService is the orchestration surface consumed by the content
// generator. *Orchestrator is the production implementation.
type CompletionService interface {
	GenerateCompletion(ctx context.Context, req Request) (*Result, error)
}
