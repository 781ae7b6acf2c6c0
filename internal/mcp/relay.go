package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/grocy-mcp/internal/grocy"
)

// handleCallAPI relays an arbitrary endpoint through the raw normalizer.
func handleCallAPI(ctx context.Context, d *Dispatcher, t Tool, args Args) (*mcp.CallToolResult, error) {
	endpoint, err := grocy.EndpointArg(args)
	if err != nil {
		return nil, err
	}
	path, err := t.Normalizer(d.client.BaseURL(), endpoint)
	if err != nil {
		return nil, err
	}

	method := strings.ToUpper(args.str("method"))
	var body any
	if obj, ok := args["body"].(map[string]any); ok {
		body = obj
	}
	return d.send(ctx, t, method, endpoint, path, body)
}

// handleUndoAction reverts a chore execution, battery charge or task completion.
func handleUndoAction(ctx context.Context, d *Dispatcher, _ Tool, args Args) (*mcp.CallToolResult, error) {
	data, err := d.client.Undo(ctx, args.str("entityType"), args.str("id"))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return errorResult(err.Error()), nil
	}
	return jsonResult(data), nil
}
