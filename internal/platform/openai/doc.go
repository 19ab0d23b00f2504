// Package openai implements the generation.CompletionClient interface for
// the OpenAI chat completions API.
package openai
