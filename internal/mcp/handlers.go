package mcp

import (
	"bytes"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// errorResult creates an MCP error result carrying {"error": message}.
func errorResult(message string) *mcp.CallToolResult {
	return errorPayload(map[string]any{"error": message})
}

// errorPayload creates an MCP error result from an arbitrary JSON payload.
func errorPayload(payload any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(renderJSON(payload)),
		},
		IsError: true,
	}
}

// jsonResult creates a successful MCP result holding pretty-printed JSON.
func jsonResult(payload any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(renderJSON(payload)),
		},
	}
}

// renderJSON indents with two spaces and leaves HTML characters alone.
func renderJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		b, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(b)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
