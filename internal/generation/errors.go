package generation

import "errors"

// Common errors returned by the generation package.
var (
	// ErrNotConfigured is returned by an adapter whose credential was not
	// supplied at process start. It is never retried against the same
	// backend; the orchestrator falls back to another one.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrUnsupportedProvider is returned when a requested backend
	// identifier has no registered adapter. Distinct from ErrNotConfigured:
	// the backend does not exist at all. The orchestrator still falls back
	// to other usable backends.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrAllProvidersFailed is the terminal orchestration failure: every
	// usable backend was tried and none produced a completion.
	ErrAllProvidersFailed = errors.New("all AI providers failed")

	// ErrEmptyCompletion is returned when a backend call succeeds at the
	// transport level but carries no generated text.
	ErrEmptyCompletion = errors.New("provider returned an empty completion")
)
