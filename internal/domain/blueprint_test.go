package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvat/astra-api/internal/domain"
)

func TestIsBlueprintPage(t *testing.T) {
	t.Parallel()

	for _, page := range domain.BlueprintPages {
		assert.True(t, domain.IsBlueprintPage(page), page)
	}

	assert.False(t, domain.IsBlueprintPage("romance"))
	assert.False(t, domain.IsBlueprintPage(""))
	assert.False(t, domain.IsBlueprintPage("Career"))
}

func TestBlueprintPagesOrder(t *testing.T) {
	t.Parallel()

	require.Len(t, domain.BlueprintPages, 11)
	assert.Equal(t, domain.PageCareer, domain.BlueprintPages[0])
	assert.Equal(t, domain.PageLifestyle, domain.BlueprintPages[1])
	assert.Equal(t, domain.PagePilgrimage, domain.BlueprintPages[10])
}

func TestPageContentMarshalStructured(t *testing.T) {
	t.Parallel()

	content := domain.StructuredContent(map[string]any{
		"careerPaths": []any{"engineering"},
	})

	data, err := json.Marshal(content)
	require.NoError(t, err)

	// Structured content serializes as the document itself, with no
	// wrapper.
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, []any{"engineering"}, doc["careerPaths"])
	assert.NotContains(t, doc, "raw")
	assert.NotContains(t, doc, "error")
}

func TestPageContentMarshalRaw(t *testing.T) {
	t.Parallel()

	content := domain.RawTextContent("plain prose output")

	data, err := json.Marshal(content)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "plain prose output", doc["raw"])
	assert.Equal(t, true, doc["formatted"])
}

func TestPageContentMarshalFailed(t *testing.T) {
	t.Parallel()

	content := domain.FailedContent("Failed to generate career content", "all AI providers failed")

	data, err := json.Marshal(content)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Failed to generate career content", doc["error"])
	assert.Equal(t, "all AI providers failed", doc["message"])
}

func TestPageContentRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content domain.PageContent
	}{
		{"structured", domain.StructuredContent(map[string]any{"key": "value"})},
		{"raw", domain.RawTextContent("some prose")},
		{"failed", domain.FailedContent("Failed to generate vastu content", "timeout")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			data, err := json.Marshal(tc.content)
			require.NoError(t, err)

			var decoded domain.PageContent
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tc.content.Kind, decoded.Kind)

			switch tc.content.Kind {
			case domain.ContentRawText:
				assert.Equal(t, tc.content.Raw, decoded.Raw)
			case domain.ContentFailed:
				assert.Equal(t, tc.content.ErrorSummary, decoded.ErrorSummary)
				assert.Equal(t, tc.content.ErrorDetail, decoded.ErrorDetail)
			}
		})
	}
}

func TestPageContentUnmarshalStructuredWithFormattedField(t *testing.T) {
	t.Parallel()

	// A structured document that happens to carry a "formatted" key but no
	// "raw" string stays structured.
	var content domain.PageContent
	require.NoError(t, json.Unmarshal([]byte(`{"formatted": true, "sections": []}`), &content))
	assert.Equal(t, domain.ContentStructured, content.Kind)
}

func TestBlueprintContentPageStatus(t *testing.T) {
	t.Parallel()

	content := domain.BlueprintContent{
		domain.PageCareer: domain.StructuredContent(map[string]any{"a": "b"}),
		domain.PageVastu:  domain.FailedContent("Failed to generate vastu content", "x"),
	}

	status := content.PageStatus()
	require.Len(t, status, len(domain.BlueprintPages))
	assert.True(t, status[domain.PageCareer])
	// A failure record still counts as generated content.
	assert.True(t, status[domain.PageVastu])
	assert.False(t, status[domain.PageHealth])
}

func TestIsFailed(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.FailedContent("e", "m").IsFailed())
	assert.False(t, domain.RawTextContent("x").IsFailed())
	assert.False(t, domain.StructuredContent(nil).IsFailed())
}
