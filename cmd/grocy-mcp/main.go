package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/grocy-mcp/internal/common"
	"github.com/bobmcallan/grocy-mcp/internal/config"
	"github.com/bobmcallan/grocy-mcp/internal/grocy"
	"github.com/bobmcallan/grocy-mcp/internal/mcp"
	"github.com/bobmcallan/grocy-mcp/internal/server"
	"github.com/bobmcallan/grocy-mcp/internal/tracing"
)

// configPaths is a custom flag type that allows multiple -config flags.
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	envFile     = flag.String("env", ".env", "Dotenv file loaded before configuration")
	useStdio    = flag.Bool("stdio", false, "Serve MCP over stdin/stdout (overrides config)")
	useHTTP     = flag.Bool("http", false, "Serve MCP over streamable HTTP (overrides config)")
	serverPort  = flag.Int("port", 0, "HTTP port (overrides config)")
	serverHost  = flag.String("host", "", "HTTP host (overrides config)")
	showVersion = flag.Bool("version", false, "Print version information")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()
	common.LoadVersionFromFile()

	if *showVersion {
		fmt.Printf("grocy-mcp version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	if err := config.LoadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", *envFile, err)
		os.Exit(1)
	}

	// Auto-discover config file if not specified.
	if len(configFiles) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				configFiles = append(configFiles, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Values can be set via TOML file, GROCY_* environment variables, or CLI flags.")
		fmt.Fprintln(os.Stderr, "")
		os.Exit(1)
	}
	applyFlagOverrides(cfg)

	logger := common.NewLoggerFromConfig(cfg.Logging)
	logger.Info().
		Str("transport", cfg.Server.Transport).
		Str("grocy_url", cfg.Grocy.BaseURL).
		Bool("ssl_verify", cfg.Grocy.EnableSSLVerify).
		Int("response_size_limit", cfg.Grocy.ResponseSizeLimit).
		Str("config_files", fmt.Sprintf("%v", configFiles)).
		Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		ServiceName:    cfg.Server.Name,
		ServiceVersion: common.GetVersion(),
		Environment:    cfg.Telemetry.Environment,
		Enabled:        cfg.Telemetry.TracingEnabled,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialise tracing")
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn().Err(err).Msg("tracing shutdown failed")
		}
	}()

	client := grocy.NewClient(cfg.Grocy, logger)
	if cfg.Grocy.CheckVersion {
		go checkVersion(ctx, client, logger)
	}

	mcpSrv := mcp.NewServer(cfg, client, logger)

	if cfg.Server.Transport == config.TransportStdio {
		runStdio(ctx, mcpSrv, logger)
		return
	}
	runHTTP(ctx, cfg, mcpSrv, logger)
}

// runStdio serves MCP on stdin/stdout until the client disconnects or a signal arrives.
func runStdio(ctx context.Context, mcpSrv *mcpserver.MCPServer, logger *common.Logger) {
	logger.Info().Msg("serving MCP over stdio")

	errCh := make(chan error, 1)
	go func() { errCh <- mcpserver.ServeStdio(mcpSrv) }()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("stdio server failed")
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}
	logger.Info().Msg("server stopped")
}

// runHTTP serves MCP over streamable HTTP and shuts down gracefully on a signal.
func runHTTP(ctx context.Context, cfg *config.Config, mcpSrv *mcpserver.MCPServer, logger *common.Logger) {
	srv := server.New(cfg, mcp.NewHandler(mcpSrv, logger), logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("server failed to start")
			os.Exit(1)
		}
		return
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
}

// checkVersion logs whether the configured Grocy release is supported.
func checkVersion(ctx context.Context, client *grocy.Client, logger *common.Logger) {
	ctx, cancel := context.WithTimeout(ctx, grocy.RequestTimeout)
	defer cancel()

	compat, err := client.SystemVersion(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("could not determine Grocy version")
		return
	}
	for _, issue := range compat.CriticalIssues {
		logger.Error().Str("grocy_version", compat.Version).Msg(issue)
	}
	for _, warning := range compat.Warnings {
		logger.Warn().Str("grocy_version", compat.Version).Msg(warning)
	}
	if compat.IsCompatible {
		logger.Info().Str("grocy_version", compat.Version).Msg("Grocy version is supported")
	}
}

func applyFlagOverrides(cfg *config.Config) {
	switch {
	case *useStdio:
		cfg.Server.Transport = config.TransportStdio
	case *useHTTP:
		cfg.Server.Transport = config.TransportHTTP
	}
	if *serverPort != 0 {
		cfg.Server.Port = *serverPort
	}
	if *serverHost != "" {
		cfg.Server.Host = *serverHost
	}
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried first.
func configSearchPaths() []string {
	candidates := []string{
		"grocy-mcp.toml",
		filepath.Join("config", "grocy-mcp.toml"),
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	return append([]string{
		filepath.Join(binDir, "grocy-mcp.toml"),
		filepath.Join(binDir, "config", "grocy-mcp.toml"),
	}, candidates...)
}
