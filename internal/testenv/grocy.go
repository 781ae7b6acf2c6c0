// Package testenv starts a disposable Grocy instance for integration tests.
package testenv

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// GrocyImage is the container image used for integration runs.
const GrocyImage = "lscr.io/linuxserver/grocy:latest"

// EnvIntegration opts a test run into starting containers.
const EnvIntegration = "GROCY_INTEGRATION"

var (
	grocyOnce      sync.Once
	grocyContainer *GrocyContainer
	grocyStartErr  error
)

// GrocyContainer wraps a running Grocy container.
type GrocyContainer struct {
	container testcontainers.Container
	url       string
}

// URL returns the base URL of the running Grocy instance.
func (g *GrocyContainer) URL() string {
	return g.url
}

// CollectLogs saves container stdout/stderr to dir/grocy.log.
func (g *GrocyContainer) CollectLogs(dir string) {
	if g == nil || g.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reader, err := g.container.Logs(ctx)
	if err != nil {
		return
	}
	defer reader.Close()

	logs, err := io.ReadAll(reader)
	if err != nil {
		return
	}
	_ = os.MkdirAll(dir, 0o755)
	_ = os.WriteFile(filepath.Join(dir, "grocy.log"), logs, 0o644)
}

// Cleanup terminates the container with a fresh context.
func (g *GrocyContainer) Cleanup() {
	if g == nil || g.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = g.container.Terminate(ctx)
}

// StartGrocy runs Grocy with authentication disabled and waits for the API.
func StartGrocy(ctx context.Context) (*GrocyContainer, error) {
	c, err := testcontainers.Run(ctx, GrocyImage,
		testcontainers.WithExposedPorts("80/tcp"),
		testcontainers.WithEnv(map[string]string{
			"PUID":                 "1000",
			"PGID":                 "1000",
			"TZ":                   "Etc/UTC",
			"GROCY_DISABLE_AUTH":   "true",
			"GROCY_CURRENCY":       "EUR",
			"GROCY_DEFAULT_LOCALE": "en",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/api/system/info").
				WithPort("80/tcp").
				WithStatusCodeMatcher(func(status int) bool { return status == 200 }).
				WithStartupTimeout(120*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start grocy: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("grocy host: %w", err)
	}
	port, err := c.MappedPort(ctx, "80/tcp")
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("grocy port: %w", err)
	}

	return &GrocyContainer{
		container: c,
		url:       fmt.Sprintf("http://%s:%s", host, port.Port()),
	}, nil
}

// Grocy returns a container shared by every test in the process, skipping
// the test unless GROCY_INTEGRATION=1.
func Grocy(t *testing.T) *GrocyContainer {
	t.Helper()
	if os.Getenv(EnvIntegration) != "1" {
		t.Skipf("set %s=1 to run Grocy integration tests", EnvIntegration)
	}

	grocyOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)
		defer cancel()
		grocyContainer, grocyStartErr = StartGrocy(ctx)
	})
	if grocyStartErr != nil {
		t.Fatalf("failed to start Grocy: %v", grocyStartErr)
	}
	return grocyContainer
}
