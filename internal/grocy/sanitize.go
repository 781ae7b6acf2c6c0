package grocy

import (
	"net/http"
	"strings"
)

// Redacted replaces secret header values in diagnostic output.
const Redacted = "[REDACTED]"

// safeHeaders may show their configured value in diagnostics.
var safeHeaders = map[string]bool{
	"accept":              true,
	"accept-language":     true,
	"content-type":        true,
	"user-agent":          true,
	"cache-control":       true,
	"if-match":            true,
	"if-none-match":       true,
	"if-modified-since":   true,
	"if-unmodified-since": true,
}

// Sanitizer produces header copies that are safe to echo back to a caller.
type Sanitizer struct {
	apiKeyHeader string
	custom       Headers
}

// NewSanitizer builds a sanitizer that knows the API key header name and the
// process-wide custom headers.
func NewSanitizer(apiKeyHeader string, custom map[string]string) *Sanitizer {
	c := make(Headers, len(custom))
	c.Merge(custom)
	return &Sanitizer{apiKeyHeader: strings.ToLower(apiKeyHeader), custom: c}
}

// Sanitize returns a redacted copy of headers. Headers supplied per call are
// the caller's own and come back unchanged when fromOptional is set. Otherwise
// auth headers are redacted, custom headers keep their value only when on the
// safe list, and everything else is omitted.
func (s *Sanitizer) Sanitize(headers map[string]string, fromOptional bool) map[string]string {
	out := make(map[string]string, len(headers))
	for name, value := range headers {
		if fromOptional {
			out[name] = value
			continue
		}

		lower := strings.ToLower(name)
		if lower == "authorization" || (s.apiKeyHeader != "" && lower == s.apiKeyHeader) {
			out[name] = Redacted
			continue
		}

		if _, ok := s.custom.Get(name); ok {
			if safeHeaders[lower] {
				out[name] = value
			} else {
				out[name] = Redacted
			}
		}
	}
	return out
}

// FlattenHeader converts an http.Header into single-valued entries.
func FlattenHeader(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		out[name] = strings.Join(values, ", ")
	}
	return out
}
