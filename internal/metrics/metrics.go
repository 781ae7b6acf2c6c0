// Package metrics provides Prometheus metrics for the Grocy MCP server.
// It tracks tool calls, upstream Grocy requests, truncations and recovered panics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const (
	Namespace = "grocy_mcp"
)

var (
	// ToolCallsTotal counts MCP tool calls by tool name and status
	ToolCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "tool_calls_total",
		Help:      "Total number of MCP tool calls",
	}, []string{"tool", "status"})

	// ToolCallDuration measures tool latency
	ToolCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "tool_call_duration_seconds",
		Help:      "Tool call latency distribution by tool",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"tool"})

	// ToolCallsInFlight tracks currently executing tool calls
	ToolCallsInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "tool_calls_in_flight",
		Help:      "Number of tool calls currently being processed",
	}, []string{"tool"})

	// UpstreamRequestsTotal counts requests sent to Grocy by method and status class
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "upstream_requests_total",
		Help:      "Total Grocy API requests by method and status",
	}, []string{"method", "status"})

	// UpstreamLatency measures Grocy API latency
	UpstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "upstream_latency_seconds",
		Help:      "Grocy API request latency by method",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	// UpstreamErrors counts transport failures by error kind
	UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "upstream_errors_total",
		Help:      "Grocy API transport failures by kind",
	}, []string{"kind"})

	// ResponsesTruncated counts responses cut to the size limit
	ResponsesTruncated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "responses_truncated_total",
		Help:      "Responses truncated to the configured size limit",
	}, []string{"tool"})

	// ResponseSize tracks upstream body sizes
	ResponseSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "response_size_bytes",
		Help:      "Grocy response body size distribution in bytes",
		Buckets:   []float64{100, 1000, 10000, 50000, 100000, 250000, 500000, 1000000},
	})

	// PanicsRecovered counts recovered panics
	PanicsRecovered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "panics_recovered_total",
		Help:      "Number of panics recovered in tool handlers",
	}, []string{"tool"})

	// HTTPRequestsTotal counts HTTP transport requests
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method and status",
	}, []string{"method", "status"})
)

// RecordToolCall records a completed tool call with its duration and status
func RecordToolCall(tool string, duration float64, success bool) {
	ToolCallsTotal.WithLabelValues(tool, statusLabel(success)).Inc()
	ToolCallDuration.WithLabelValues(tool).Observe(duration)
}

// RecordUpstream records one Grocy API round trip. status is the HTTP status
// code, or 0 when no response arrived; errorKind names the transport failure.
func RecordUpstream(method string, status int, duration float64, size int, errorKind string) {
	UpstreamRequestsTotal.WithLabelValues(method, statusClass(status)).Inc()
	UpstreamLatency.WithLabelValues(method).Observe(duration)
	if errorKind != "" {
		UpstreamErrors.WithLabelValues(errorKind).Inc()
		return
	}
	ResponseSize.Observe(float64(size))
}

// RecordTruncation records a response cut to the size limit
func RecordTruncation(tool string) {
	ResponsesTruncated.WithLabelValues(tool).Inc()
}

// RecordPanic records a recovered panic
func RecordPanic(tool string) {
	PanicsRecovered.WithLabelValues(tool).Inc()
}

// RecordHTTPRequest records an HTTP transport request
func RecordHTTPRequest(method string, status int) {
	HTTPRequestsTotal.WithLabelValues(method, statusClass(status)).Inc()
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

func statusClass(status int) string {
	switch {
	case status <= 0:
		return "none"
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
