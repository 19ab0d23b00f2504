// Package anthropic implements the generation.CompletionClient interface
// for the Anthropic messages API.
package anthropic
