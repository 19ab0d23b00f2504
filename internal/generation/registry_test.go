package generation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvat/astra-api/internal/generation"
)

func lookupFrom(env map[string]string) generation.CredentialLookup {
	return func(name string) string {
		return env[name]
	}
}

func TestRegistryAll(t *testing.T) {
	t.Parallel()

	registry := generation.NewRegistry(lookupFrom(nil))
	all := registry.All()

	require.Len(t, all, 3)
	assert.Equal(t, "openai", all[0].ID)
	assert.Equal(t, "claude", all[1].ID)
	assert.Equal(t, "gemini", all[2].ID)

	// Descriptors are listed regardless of credentials.
	for _, p := range all {
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Models)
		assert.Contains(t, p.Models, p.DefaultModel)
	}
}

func TestRegistryListUsable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		env      map[string]string
		expected []string
	}{
		{
			name:     "no credentials",
			env:      nil,
			expected: nil,
		},
		{
			name:     "all credentials",
			env:      map[string]string{"OPENAI_API_KEY": "a", "CLAUDE_API_KEY": "b", "GEMINI_API_KEY": "c"},
			expected: []string{"openai", "claude", "gemini"},
		},
		{
			name:     "subset keeps priority order",
			env:      map[string]string{"GEMINI_API_KEY": "c", "OPENAI_API_KEY": "a"},
			expected: []string{"openai", "gemini"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			registry := generation.NewRegistry(lookupFrom(tc.env))
			var ids []string
			for _, p := range registry.ListUsable() {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tc.expected, ids)
		})
	}
}

func TestRegistryLiveCredentialReads(t *testing.T) {
	t.Parallel()

	env := map[string]string{}
	registry := generation.NewRegistry(lookupFrom(env))

	assert.False(t, registry.IsUsable("claude"))

	// Credentials set after construction are picked up on the next query.
	env["CLAUDE_API_KEY"] = "secret"
	assert.True(t, registry.IsUsable("claude"))

	delete(env, "CLAUDE_API_KEY")
	assert.False(t, registry.IsUsable("claude"))
}

func TestRegistryDescribeUnknownDegradesToFirst(t *testing.T) {
	t.Parallel()

	registry := generation.NewRegistry(lookupFrom(nil))

	assert.Equal(t, "claude", registry.Describe("claude").ID)
	assert.Equal(t, "openai", registry.Describe("no-such-provider").ID)
	assert.Equal(t, "openai", registry.Describe("").ID)
}

func TestRegistryIsUsableUnknownProvider(t *testing.T) {
	t.Parallel()

	registry := generation.NewRegistry(lookupFrom(map[string]string{"OPENAI_API_KEY": "a"}))
	assert.False(t, registry.IsUsable("no-such-provider"))
}
