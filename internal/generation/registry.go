package generation

// ProviderInfo is the static description of one generation backend:
// identity, supported models, and the credential that must be present for
// the backend to be usable. Descriptors are defined at process start and
// never mutated.
type ProviderInfo struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Models       []string `json:"models"`
	DefaultModel string   `json:"defaultModel"`

	// CredentialVar names the credential variable whose presence makes
	// this provider usable.
	CredentialVar string `json:"-"`
}

// defaultProviders is the fixed provider catalogue, in fallback priority
// order.
var defaultProviders = []ProviderInfo{
	{
		ID:            "openai",
		Name:          "OpenAI",
		Models:        []string{"gpt-4-turbo-preview", "gpt-4", "gpt-3.5-turbo"},
		DefaultModel:  "gpt-3.5-turbo",
		CredentialVar: "OPENAI_API_KEY",
	},
	{
		ID:            "claude",
		Name:          "Anthropic Claude",
		Models:        []string{"claude-3-opus-20240229", "claude-3-sonnet-20240229", "claude-3-haiku-20240307"},
		DefaultModel:  "claude-3-sonnet-20240229",
		CredentialVar: "CLAUDE_API_KEY",
	},
	{
		ID:            "gemini",
		Name:          "Google Gemini",
		Models:        []string{"gemini-2.0-flash", "gemini-1.5-pro", "gemini-1.5-flash"},
		DefaultModel:  "gemini-2.0-flash",
		CredentialVar: "GEMINI_API_KEY",
	},
}

// CredentialLookup resolves a credential variable name to its value.
// Production wires this to the loaded LLM configuration so availability
// checks read the same keys the adapters were built with; tests inject a
// map-backed lookup.
type CredentialLookup func(name string) string

// Registry answers which backends exist and which are currently usable.
// Credentials are read live on every query, never cached, so a credential
// set after process start is picked up without a restart.
type Registry struct {
	providers []ProviderInfo
	lookup    CredentialLookup
}

// NewRegistry creates a Registry over the fixed provider catalogue using
// the given credential lookup. A nil lookup is invalid.
func NewRegistry(lookup CredentialLookup) *Registry {
	return &Registry{
		providers: defaultProviders,
		lookup:    lookup,
	}
}

// All returns every registered provider descriptor in priority order,
// regardless of credential presence.
func (r *Registry) All() []ProviderInfo {
	out := make([]ProviderInfo, len(r.providers))
	copy(out, r.providers)
	return out
}

// ListUsable returns the providers whose credential is currently present,
// in registry order.
func (r *Registry) ListUsable() []ProviderInfo {
	var usable []ProviderInfo
	for _, p := range r.providers {
		if r.lookup(p.CredentialVar) != "" {
			usable = append(usable, p)
		}
	}
	return usable
}

// Describe returns the descriptor for the given identifier. Unknown
// identifiers never fail here; they degrade to the first (highest
// priority) provider.
func (r *Registry) Describe(id string) ProviderInfo {
	for _, p := range r.providers {
		if p.ID == id {
			return p
		}
	}
	return r.providers[0]
}

// IsUsable reports whether the identifier names a known provider whose
// credential is present.
func (r *Registry) IsUsable(id string) bool {
	for _, p := range r.providers {
		if p.ID == id {
			return r.lookup(p.CredentialVar) != ""
		}
	}
	return false
}

// First returns the highest-priority provider descriptor.
func (r *Registry) First() ProviderInfo {
	return r.providers[0]
}
