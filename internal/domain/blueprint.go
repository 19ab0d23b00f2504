package domain

import "encoding/json"

// Blueprint page identifiers, in the fixed order generate-all walks them.
const (
	PageCareer           = "career"
	PageLifestyle        = "lifestyle"
	PageHealth           = "health"
	PageFamily           = "family"
	PageFinance          = "finance"
	PageSpiritual        = "spiritual"
	PageRemedies         = "remedies"
	PageVastu            = "vastu"
	PagePastKarma        = "past-karma"
	PageMedicalAstrology = "medical-astrology"
	PagePilgrimage       = "pilgrimage"
)

// BlueprintPages lists all page identifiers in generation order.
// Callers must not mutate the returned slice.
var BlueprintPages = []string{
	PageCareer,
	PageLifestyle,
	PageHealth,
	PageFamily,
	PageFinance,
	PageSpiritual,
	PageRemedies,
	PageVastu,
	PagePastKarma,
	PageMedicalAstrology,
	PagePilgrimage,
}

// IsBlueprintPage reports whether name is a known page identifier.
func IsBlueprintPage(name string) bool {
	for _, p := range BlueprintPages {
		if p == name {
			return true
		}
	}
	return false
}

// ContentKind discriminates the three shapes a generated page can take.
type ContentKind string

const (
	// ContentStructured marks content the model returned as a parseable
	// JSON object; Structured holds the decoded document.
	ContentStructured ContentKind = "structured"

	// ContentRawText marks content that could not be parsed as JSON and is
	// carried verbatim for prose rendering.
	ContentRawText ContentKind = "raw"

	// ContentFailed marks a page whose generation failed after all
	// providers were exhausted; it carries the failure summary instead of
	// content so sibling pages can still render.
	ContentFailed ContentKind = "failed"
)

// PageContent is the tagged union of the three result shapes a page's
// generation can produce. Exactly one of the payload fields is meaningful,
// selected by Kind. The zero value is not valid; use one of the
// constructors.
type PageContent struct {
	Kind ContentKind

	// Structured is set when Kind == ContentStructured.
	Structured map[string]any

	// Raw is set when Kind == ContentRawText. It holds the model output
	// exactly as received, before any fence stripping.
	Raw string

	// ErrorSummary and ErrorDetail are set when Kind == ContentFailed.
	ErrorSummary string
	ErrorDetail  string
}

// StructuredContent wraps a parsed document.
func StructuredContent(doc map[string]any) PageContent {
	return PageContent{Kind: ContentStructured, Structured: doc}
}

// RawTextContent wraps model output that should be treated as prose.
func RawTextContent(raw string) PageContent {
	return PageContent{Kind: ContentRawText, Raw: raw}
}

// FailedContent records a per-page generation failure.
func FailedContent(summary, detail string) PageContent {
	return PageContent{Kind: ContentFailed, ErrorSummary: summary, ErrorDetail: detail}
}

// IsFailed reports whether this content is a failure record.
func (c PageContent) IsFailed() bool {
	return c.Kind == ContentFailed
}

// rawWrapper and failureWrapper are the wire shapes the frontend renderers
// probe for. Structured content is serialized as the document itself.
type rawWrapper struct {
	Raw       string `json:"raw"`
	Formatted bool   `json:"formatted"`
}

type failureWrapper struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MarshalJSON serializes the union into its wire shape: the structured
// document as-is, {"raw": ..., "formatted": true} for prose, or
// {"error": ..., "message": ...} for failures.
func (c PageContent) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ContentRawText:
		return json.Marshal(rawWrapper{Raw: c.Raw, Formatted: true})
	case ContentFailed:
		return json.Marshal(failureWrapper{Error: c.ErrorSummary, Message: c.ErrorDetail})
	default:
		if c.Structured == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(c.Structured)
	}
}

// UnmarshalJSON reverses MarshalJSON by probing the wire shape: an "error"
// key means a failure record, "raw" plus "formatted" means prose, anything
// else is a structured document.
func (c *PageContent) UnmarshalJSON(data []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	if msg, ok := doc["error"].(string); ok {
		detail, _ := doc["message"].(string)
		*c = FailedContent(msg, detail)
		return nil
	}

	if formatted, ok := doc["formatted"].(bool); ok && formatted {
		if raw, ok := doc["raw"].(string); ok {
			*c = RawTextContent(raw)
			return nil
		}
	}

	*c = StructuredContent(doc)
	return nil
}

// BlueprintContent maps page identifiers to their generated content. Pages
// that have not been generated yet are simply absent.
type BlueprintContent map[string]PageContent

// PageStatus reports, for every known page, whether content exists.
func (b BlueprintContent) PageStatus() map[string]bool {
	status := make(map[string]bool, len(BlueprintPages))
	for _, page := range BlueprintPages {
		_, ok := b[page]
		status[page] = ok
	}
	return status
}
