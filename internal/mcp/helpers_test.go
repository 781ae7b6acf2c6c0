package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/grocy-mcp/internal/common"
	"github.com/bobmcallan/grocy-mcp/internal/config"
	"github.com/bobmcallan/grocy-mcp/internal/grocy"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// recorded is one request seen by the fake Grocy.
type recorded struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     map[string]any
}

// fakeGrocy records requests and answers with respond.
type fakeGrocy struct {
	mu       sync.Mutex
	requests []recorded
	srv      *httptest.Server
}

func newFakeGrocy(t *testing.T, respond http.HandlerFunc) *fakeGrocy {
	t.Helper()
	f := &fakeGrocy{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
		}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.Body)
		}
		f.mu.Lock()
		f.requests = append(f.requests, rec)
		f.mu.Unlock()

		if respond == nil {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ok":true}`))
			return
		}
		respond(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeGrocy) calls() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recorded, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *fakeGrocy) last(t *testing.T) recorded {
	t.Helper()
	calls := f.calls()
	if len(calls) == 0 {
		t.Fatal("expected at least one request to Grocy")
	}
	return calls[len(calls)-1]
}

func testGrocyConfig(baseURL string) config.GrocyConfig {
	cfg := config.NewDefaultConfig().Grocy
	cfg.BaseURL = baseURL
	cfg.Auth.APIKeyValue = "secret-key"
	return cfg
}

func newTestDispatcher(t *testing.T, f *fakeGrocy, mutate func(*config.GrocyConfig)) *Dispatcher {
	t.Helper()
	cfg := testGrocyConfig(f.srv.URL)
	if mutate != nil {
		mutate(&cfg)
	}
	d := NewDispatcher(grocy.NewClient(cfg, common.NewSilentLogger()), common.NewSilentLogger())
	d.now = func() time.Time { return fixedNow }
	return d
}

func callTool(t *testing.T, d *Dispatcher, name string, args map[string]any) (*mcp.CallToolResult, error) {
	t.Helper()
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args
	return d.handler(name)(context.Background(), request)
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("expected result content")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
		t.Fatalf("result is not a JSON object: %v", err)
	}
	return out
}
