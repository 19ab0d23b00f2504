// Package generation is the provider-agnostic text-generation core. It
// defines the uniform completion request/result types, the provider
// registry that gates backends on credential presence, the orchestrator
// that falls back across backends on failure, and the normalizer that turns
// raw model output into a stable content shape.
//
// This package serves as a boundary between the application core and
// external LLM services: backend-specific adapters live under
// internal/platform and implement the CompletionClient interface declared
// here.
package generation
