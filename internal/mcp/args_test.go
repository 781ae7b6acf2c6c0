package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	dto "github.com/prometheus/client_model/go"

	"github.com/bobmcallan/grocy-mcp/internal/grocy"
	"github.com/bobmcallan/grocy-mcp/internal/metrics"
)

func TestExpandPath(t *testing.T) {
	tests := []struct {
		template string
		args     Args
		want     string
	}{
		{"/stock/products/{productId}/add", Args{"productId": float64(12)}, "/stock/products/12/add"},
		{"/recipes/{recipeId}/consume", Args{"recipeId": json.Number("3")}, "/recipes/3/consume"},
		{"stock?location_id={locationId}", Args{"locationId": 2.5}, "stock?location_id=2.5"},
		{"/objects/{name}", Args{"name": "a/b c"}, "/objects/a%2Fb%20c"},
		{"/objects/{missing}", Args{}, "/objects/"},
		{"/plain", Args{"x": 1}, "/plain"},
	}
	for _, tt := range tests {
		if got := expandPath(tt.template, tt.args); got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.template, got, tt.want)
		}
	}
}

func TestArgsTruthy(t *testing.T) {
	a := Args{
		"zero":  float64(0),
		"one":   float64(1),
		"empty": "",
		"text":  "x",
		"no":    false,
		"yes":   true,
		"nil":   nil,
	}
	for name, want := range map[string]bool{
		"zero": false, "one": true, "empty": false, "text": true,
		"no": false, "yes": true, "nil": false, "absent": false,
	} {
		if got := a.truthy(name); got != want {
			t.Errorf("truthy(%s) = %v, want %v", name, got, want)
		}
	}
	if !a.present("zero") || a.present("empty") || a.present("nil") {
		t.Error("present should accept zero and reject empty or nil values")
	}
}

func TestDateDefaults(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	now := time.Date(2024, 2, 29, 23, 30, 0, 0, time.FixedZone("EST", -5*60*60))
	if got := today(now); got != "2024-03-01" {
		t.Errorf("today = %s", got)
	}
	if got := nextYear(now); got != "2025-03-01" {
		t.Errorf("nextYear = %s", got)
	}
	if got := timestamp(now); got != "2024-03-01 04:30:00" {
		t.Errorf("timestamp = %s", got)
	}
}

func TestHandler_RecoversPanics(t *testing.T) {
	f := newFakeGrocy(t, nil)
	d := newTestDispatcher(t, f, nil)
	d.tools["explode"] = Tool{
		Name:       "explode",
		Normalizer: grocy.Strict,
		Handler: func(context.Context, *Dispatcher, Tool, Args) (*mcp.CallToolResult, error) {
			panic("kaboom")
		},
	}
	before := panicCount(t, "explode")

	result, err := callTool(t, d, "explode", nil)
	if err != nil {
		t.Fatalf("panics should become error results, got %v", err)
	}
	if !result.IsError || !strings.Contains(resultText(t, result), "kaboom") {
		t.Errorf("unexpected result %s", resultText(t, result))
	}
	if after := panicCount(t, "explode"); after != before+1 {
		t.Errorf("panic counter = %v, want %v", after, before+1)
	}
}

func panicCount(t *testing.T, tool string) float64 {
	t.Helper()
	var m dto.Metric
	if err := metrics.PanicsRecovered.WithLabelValues(tool).Write(&m); err != nil {
		t.Fatalf("failed to read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}
