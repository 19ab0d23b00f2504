// Package gemini implements the generation.CompletionClient interface for
// the Google Gemini API using the google.golang.org/genai SDK.
package gemini
