package generation

import (
	"encoding/json"
	"strings"

	"github.com/dhruvat/astra-api/internal/domain"
)

// Normalize converts raw model output into a stable content shape. Models
// asked for JSON frequently wrap it in a fenced code block or return prose
// instead; this is the last line of defense that guarantees callers always
// receive something renderable.
//
// The text is trimmed, an optional single fence wrapper is stripped, and a
// JSON-object parse is attempted. On success the parsed document is
// returned; on any failure the original input is wrapped as raw text.
// Normalize never fails.
func Normalize(text string) domain.PageContent {
	candidate := stripCodeFence(strings.TrimSpace(text))

	var doc map[string]any
	if err := json.Unmarshal([]byte(candidate), &doc); err != nil || doc == nil {
		return domain.RawTextContent(text)
	}

	return domain.StructuredContent(doc)
}

// stripCodeFence removes one surrounding ``` fence, including an optional
// language tag on the opening line. Text without a leading fence is
// returned unchanged.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}

	// Drop the opening fence and its language tag by cutting through the
	// first line break.
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
