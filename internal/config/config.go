package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/grocy-mcp/internal/common"
)

// Auth scheme names accepted in grocy.auth.schemes.
const (
	SchemeBasic  = "basic"
	SchemeBearer = "bearer"
	SchemeAPIKey = "apikey"
)

// Transport names accepted in server.transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// headerEnvPrefix marks environment variables that become outbound headers.
const headerEnvPrefix = "HEADER_"

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig         `toml:"server"`
	Grocy     GrocyConfig          `toml:"grocy"`
	Logging   common.LoggingConfig `toml:"logging"`
	Telemetry TelemetryConfig      `toml:"telemetry"`
}

// ServerConfig contains MCP server settings.
type ServerConfig struct {
	Name      string `toml:"name"`
	Transport string `toml:"transport"`
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
}

// GrocyConfig describes the upstream Grocy instance.
type GrocyConfig struct {
	BaseURL               string            `toml:"base_url"`
	ResponseSizeLimit     int               `toml:"response_size_limit"`
	EnableSSLVerify       bool              `toml:"enable_ssl_verify"`
	ConvertNumericStrings bool              `toml:"convert_numeric_strings"`
	CheckVersion          bool              `toml:"check_version"`
	Headers               map[string]string `toml:"headers"`
	Auth                  AuthConfig        `toml:"auth"`
}

// AuthConfig holds credentials for every supported scheme. Schemes lists the
// ones this deployment allows; at most one ends up active.
type AuthConfig struct {
	Schemes       []string `toml:"schemes"`
	APIKeyHeader  string   `toml:"apikey_header"`
	APIKeyValue   string   `toml:"apikey_value"`
	BasicUsername string   `toml:"basic_username"`
	BasicPassword string   `toml:"basic_password"`
	BearerToken   string   `toml:"bearer_token"`
}

// TelemetryConfig toggles prometheus metrics and OpenTelemetry tracing.
type TelemetryConfig struct {
	MetricsEnabled bool    `toml:"metrics_enabled"`
	TracingEnabled bool    `toml:"tracing_enabled"`
	OTLPEndpoint   string  `toml:"otlp_endpoint"`
	Environment    string  `toml:"environment"`
	SampleRate     float64 `toml:"sample_rate"`
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are skipped and real environment values win.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return nil
}

// LoadFromFiles loads configuration with priority defaults -> file1 -> file2 -> ... -> env,
// then validates the result.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies GROCY_*, HEADER_* and OTEL_* environment overrides.
func applyEnvOverrides(config *Config) error {
	if v := os.Getenv("GROCY_BASE_URL"); v != "" {
		config.Grocy.BaseURL = v
	}
	if v := os.Getenv("REST_RESPONSE_SIZE_LIMIT"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("REST_RESPONSE_SIZE_LIMIT must be a positive number, got %q", v)
		}
		config.Grocy.ResponseSizeLimit = n
	}
	if v, ok := os.LookupEnv("GROCY_ENABLE_SSL_VERIFY"); ok {
		config.Grocy.EnableSSLVerify = v != "false"
	}
	if v := os.Getenv("GROCY_CONVERT_NUMERIC_STRINGS"); v != "" {
		config.Grocy.ConvertNumericStrings = v == "true"
	}
	if v := os.Getenv("GROCY_CHECK_VERSION"); v != "" {
		config.Grocy.CheckVersion = v != "false"
	}

	auth := &config.Grocy.Auth
	if v := os.Getenv("GROCY_APIKEY_VALUE"); v != "" {
		auth.APIKeyValue = v
	}
	if v := os.Getenv("GROCY_APIKEY_HEADER"); v != "" {
		auth.APIKeyHeader = v
	}
	if v := os.Getenv("GROCY_AUTH_BASIC_USERNAME"); v != "" {
		auth.BasicUsername = v
	}
	if v := os.Getenv("GROCY_AUTH_BASIC_PASSWORD"); v != "" {
		auth.BasicPassword = v
	}
	if v := os.Getenv("GROCY_AUTH_BEARER"); v != "" {
		auth.BearerToken = v
	}
	if v := os.Getenv("GROCY_AUTH_SCHEMES"); v != "" {
		auth.Schemes = splitList(v)
	}

	for name, value := range headersFromEnv(os.Environ()) {
		if config.Grocy.Headers == nil {
			config.Grocy.Headers = make(map[string]string)
		}
		config.Grocy.Headers[name] = value
	}

	if v := os.Getenv("GROCY_MCP_NAME"); v != "" {
		config.Server.Name = v
	}
	if v := os.Getenv("GROCY_MCP_TRANSPORT"); v != "" {
		config.Server.Transport = strings.ToLower(v)
	}
	if v := os.Getenv("GROCY_MCP_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("GROCY_MCP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			config.Server.Port = p
		}
	}
	if v := os.Getenv("GROCY_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("GROCY_METRICS_ENABLED"); v != "" {
		config.Telemetry.MetricsEnabled = v == "true"
	}
	if os.Getenv("OTEL_ENABLED") == "true" {
		config.Telemetry.TracingEnabled = true
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		config.Telemetry.OTLPEndpoint = v
		config.Telemetry.TracingEnabled = true
	}
	if v := os.Getenv("OTEL_ENVIRONMENT"); v != "" {
		config.Telemetry.Environment = v
	}
	return nil
}

// headersFromEnv collects HEADER_<Name>=value pairs. The prefix match ignores
// case; the header name keeps the case it was written with.
func headersFromEnv(environ []string) map[string]string {
	headers := make(map[string]string)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || len(key) <= len(headerEnvPrefix) {
			continue
		}
		if !strings.EqualFold(key[:len(headerEnvPrefix)], headerEnvPrefix) {
			continue
		}
		headers[key[len(headerEnvPrefix):]] = value
	}
	return headers
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the settings that would otherwise fail on the first tool call.
// It also trims trailing slashes from the base URL.
func (c *Config) Validate() error {
	if c.Grocy.ResponseSizeLimit <= 0 {
		return fmt.Errorf("REST_RESPONSE_SIZE_LIMIT must be a positive number, got %d", c.Grocy.ResponseSizeLimit)
	}

	c.Grocy.BaseURL = strings.TrimRight(strings.TrimSpace(c.Grocy.BaseURL), "/")
	u, err := url.Parse(c.Grocy.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("grocy base_url %q must be an absolute http(s) URL", c.Grocy.BaseURL)
	}

	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("server transport %q must be %q or %q", c.Server.Transport, TransportStdio, TransportHTTP)
	}

	for _, s := range c.Grocy.Auth.Schemes {
		switch s {
		case SchemeBasic, SchemeBearer, SchemeAPIKey:
		default:
			return fmt.Errorf("unknown auth scheme %q", s)
		}
	}
	if c.Grocy.Auth.APIKeyHeader == "" {
		return errors.New("grocy auth apikey_header must not be empty")
	}
	return nil
}

// Address returns host:port for the HTTP transport.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
