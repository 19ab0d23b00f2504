// Package redact scrubs sensitive material from strings before they reach
// logs or API error responses: credentials, tokens, SQL statement values,
// user identifiers, email addresses, and filesystem paths.
package redact

import "regexp"

// rule pairs a pattern with the placeholder that replaces its matches.
// Rules apply in a fixed order; an earlier rule may consume text a later
// rule would otherwise match, so ordering is part of the contract.
type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// credentialRules remove secret-bearing fragments. They run before the
// SQL step so a credential inside a statement never survives.
var credentialRules = []rule{
	// Whole stack traces go first: they embed paths, addresses, and
	// source locations that would otherwise leak piecemeal.
	{regexp.MustCompile(`(?s)(?:panic:|goroutine \d+).*`), "[STACK_TRACE_REDACTED]"},

	// Connection strings carry credentials up to the @.
	{regexp.MustCompile(`(?i)\b(?:postgres(?:ql)?|mysql|mongodb)://[^@\s]+@`), "[REDACTED_CREDENTIAL]"},

	// Three-part JWTs, before the generic token rule sees the word
	// "token" next to one.
	{regexp.MustCompile(`\beyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\b`), "[REDACTED_JWT]"},

	{regexp.MustCompile(`(?i)\b(?:password|passwd|pwd)\s*[=:]\s*['"]?[^'"&\s]+`), "[REDACTED_CREDENTIAL]"},
	{regexp.MustCompile(`(?i)\b(?:api[_-]?key|secret|token)\s*[=:]\s*['"]?[A-Za-z0-9_\-.~+/]{8,}`), "[REDACTED_KEY]"},
	{regexp.MustCompile(`\bAKIA[A-Z0-9]{8,}\b`), "[REDACTED_KEY]"},
}

// SQL statements keep their shape up to the first values-bearing keyword;
// everything after WHERE, VALUES, or SET is data.
var (
	sqlVerbRegex = regexp.MustCompile(`(?i)\b(?:SELECT|INSERT|UPDATE|DELETE)\b`)
	sqlTailRegex = regexp.MustCompile(`(?is)\b(?:WHERE|VALUES|SET)\b.*`)
)

// identifierRules remove values that identify a person or a machine. They
// run last, on whatever the earlier steps left standing.
var identifierRules = []rule{
	{regexp.MustCompile(`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`), "[REDACTED_UUID]"},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[REDACTED_EMAIL]"},
	{regexp.MustCompile(`(/[\w.-]+){2,}`), "[REDACTED_PATH]"},
	{regexp.MustCompile(`[A-Za-z]:\\[^\\]+(\\[^\\]+)+`), "[REDACTED_PATH]"},
	{regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`), "[REDACTED_HOST]"},
}

// String returns the input with all recognized sensitive fragments
// replaced by placeholders.
func String(input string) string {
	if input == "" {
		return input
	}

	out := input
	for _, r := range credentialRules {
		out = r.pattern.ReplaceAllString(out, r.placeholder)
	}
	if sqlVerbRegex.MatchString(out) {
		out = sqlTailRegex.ReplaceAllString(out, "[SQL_VALUES_REDACTED]")
	}
	for _, r := range identifierRules {
		out = r.pattern.ReplaceAllString(out, r.placeholder)
	}
	return out
}

// Error redacts an error's message. A nil error yields the empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
