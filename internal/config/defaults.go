package config

import "github.com/bobmcallan/grocy-mcp/internal/common"

// Defaults mirrored in the config resource document.
const (
	DefaultBaseURL           = "http://localhost:9283"
	DefaultResponseSizeLimit = 10000
	DefaultAPIKeyHeader      = "GROCY-API-KEY"
	DefaultServerName        = "grocy-mcp"
)

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:      DefaultServerName,
			Transport: TransportStdio,
			Host:      "localhost",
			Port:      4243,
		},
		Grocy: GrocyConfig{
			BaseURL:           DefaultBaseURL,
			ResponseSizeLimit: DefaultResponseSizeLimit,
			EnableSSLVerify:   true,
			CheckVersion:      true,
			Headers:           map[string]string{},
			Auth: AuthConfig{
				Schemes:      []string{SchemeBasic, SchemeBearer, SchemeAPIKey},
				APIKeyHeader: DefaultAPIKeyHeader,
			},
		},
		Logging: common.LoggingConfig{
			Level:   "info",
			Outputs: []string{"console"},
		},
		Telemetry: TelemetryConfig{
			MetricsEnabled: true,
			Environment:    "development",
			SampleRate:     1.0,
		},
	}
}
