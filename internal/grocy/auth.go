package grocy

import (
	"encoding/base64"
	"slices"
	"strings"

	"github.com/bobmcallan/grocy-mcp/internal/config"
)

// Authentication method names reported in diagnostics.
const (
	AuthNone   = "none"
	AuthBasic  = config.SchemeBasic
	AuthBearer = config.SchemeBearer
	AuthAPIKey = config.SchemeAPIKey
)

// Headers is a header set whose names match case-insensitively. The first
// spelling written for a name is replaced when a later Set uses another case.
type Headers map[string]string

// Set stores value under name, dropping any entry that differs only by case.
func (h Headers) Set(name, value string) {
	for k := range h {
		if k != name && strings.EqualFold(k, name) {
			delete(h, k)
		}
	}
	h[name] = value
}

// Get returns the value for name, ignoring case.
func (h Headers) Get(name string) (string, bool) {
	if v, ok := h[name]; ok {
		return v, true
	}
	for k, v := range h {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// Merge applies every entry of other on top of h.
func (h Headers) Merge(other map[string]string) {
	for k, v := range other {
		h.Set(k, v)
	}
}

// Clone returns a copy of h.
func (h Headers) Clone() Headers {
	out := make(Headers, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// Authenticator holds the single active authentication scheme. It is built
// once from configuration and only read afterwards.
type Authenticator struct {
	method       string
	header       string
	value        string
	apiKeyHeader string
	username     string
}

// NewAuthenticator picks the first configured scheme in the order
// basic, bearer, apikey, considering only schemes listed in cfg.Schemes.
func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	apiKeyHeader := cfg.APIKeyHeader
	if apiKeyHeader == "" {
		apiKeyHeader = config.DefaultAPIKeyHeader
	}
	a := &Authenticator{method: AuthNone, apiKeyHeader: apiKeyHeader}

	enabled := func(scheme string) bool { return slices.Contains(cfg.Schemes, scheme) }

	switch {
	case enabled(config.SchemeBasic) && cfg.BasicUsername != "" && cfg.BasicPassword != "":
		creds := base64.StdEncoding.EncodeToString([]byte(cfg.BasicUsername + ":" + cfg.BasicPassword))
		a.method, a.header, a.value = AuthBasic, "Authorization", "Basic "+creds
		a.username = cfg.BasicUsername
	case enabled(config.SchemeBearer) && cfg.BearerToken != "":
		a.method, a.header, a.value = AuthBearer, "Authorization", "Bearer "+cfg.BearerToken
	case enabled(config.SchemeAPIKey) && cfg.APIKeyValue != "":
		a.method, a.header, a.value = AuthAPIKey, apiKeyHeader, cfg.APIKeyValue
	}
	return a
}

// Method returns the active scheme name or "none".
func (a *Authenticator) Method() string { return a.method }

// APIKeyHeader returns the configured API key header name, active or not.
func (a *Authenticator) APIKeyHeader() string { return a.apiKeyHeader }

// Apply writes the auth header into h, overwriting any same-named entry.
func (a *Authenticator) Apply(h Headers) {
	if a.method == AuthNone {
		return
	}
	h.Set(a.header, a.value)
}

// Describe summarises the active scheme for tool descriptions.
func (a *Authenticator) Describe() string {
	switch a.method {
	case AuthBasic:
		return "Basic Auth with username: " + a.username
	case AuthBearer:
		return "Bearer token authentication"
	case AuthAPIKey:
		return "API Key using header: " + a.apiKeyHeader
	default:
		return "No authentication configured"
	}
}
