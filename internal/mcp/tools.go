package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/grocy-mcp/internal/metrics"
	"github.com/bobmcallan/grocy-mcp/internal/tracing"
)

// Register adds every tool in the table to s and returns how many were added.
func (d *Dispatcher) Register(s *server.MCPServer) int {
	tools := d.Tools()
	for _, t := range tools {
		s.AddTool(t.MCPTool(d.client), d.handler(t.Name))
	}
	return len(tools)
}

// handler wraps Call with a correlation id, a span, metrics and panic recovery.
func (d *Dispatcher) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		correlationID := uuid.NewString()
		logger := d.logger.WithCorrelationId(correlationID)

		ctx, span := tracing.StartSpan(ctx, "tool/"+name)
		defer span.End()
		tracing.AddToolAttributes(span, name, correlationID)

		inFlight := metrics.ToolCallsInFlight.WithLabelValues(name)
		inFlight.Inc()
		defer inFlight.Dec()

		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				metrics.RecordPanic(name)
				logger.Error().Str("tool", name).Str("panic", fmt.Sprint(r)).Msg("tool handler panicked")
				result, err = errorResult(fmt.Sprintf("Internal error while running %s: %v", name, r)), nil
			}

			elapsed := time.Since(start)
			success := err == nil && result != nil && !result.IsError
			metrics.RecordToolCall(name, elapsed.Seconds(), success)

			if err != nil {
				tracing.RecordError(span, err)
				logger.Warn().Str("tool", name).Dur("elapsed", elapsed).Err(err).Msg("tool call rejected")
				return
			}
			logger.Info().Str("tool", name).Dur("elapsed", elapsed).Bool("is_error", !success).Msg("tool call completed")
		}()

		return d.Call(ctx, name, req.GetArguments())
	}
}
