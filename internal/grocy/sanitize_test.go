package grocy

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_AuthorizationRedacted(t *testing.T) {
	s := NewSanitizer("GROCY-API-KEY", nil)

	got := s.Sanitize(map[string]string{"Authorization": "Bearer xyz"}, false)
	assert.Equal(t, map[string]string{"Authorization": Redacted}, got)

	got = s.Sanitize(map[string]string{"Authorization": "Bearer xyz"}, true)
	assert.Equal(t, map[string]string{"Authorization": "Bearer xyz"}, got)
}

func TestSanitize_APIKeyHeaderCaseInsensitive(t *testing.T) {
	s := NewSanitizer("GROCY-API-KEY", nil)
	got := s.Sanitize(map[string]string{"grocy-api-key": "secret"}, false)
	assert.Equal(t, Redacted, got["grocy-api-key"])
}

func TestSanitize_CustomHeaders(t *testing.T) {
	s := NewSanitizer("GROCY-API-KEY", map[string]string{
		"Accept-Language": "de",
		"X-Tenant":        "home",
		"User-Agent":      "grocy-mcp",
	})

	got := s.Sanitize(map[string]string{
		"Accept-Language": "de",
		"x-tenant":        "home",
		"User-Agent":      "grocy-mcp",
		"Content-Type":    "application/json",
		"Date":            "Mon",
	}, false)

	assert.Equal(t, map[string]string{
		"Accept-Language": "de",
		"x-tenant":        Redacted,
		"User-Agent":      "grocy-mcp",
	}, got)
}

func TestFlattenHeader(t *testing.T) {
	h := http.Header{}
	h.Add("Set-Cookie", "a=1")
	h.Add("Set-Cookie", "b=2")
	h.Set("Content-Type", "application/json")

	got := FlattenHeader(h)
	assert.Equal(t, "a=1, b=2", got["Set-Cookie"])
	assert.Equal(t, "application/json", got["Content-Type"])
}
