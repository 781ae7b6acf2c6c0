package grocy

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// UndoPath maps an entity type to its Grocy undo endpoint.
func UndoPath(entityType, id string) (string, error) {
	escaped := url.PathEscape(id)
	switch strings.ToLower(entityType) {
	case "chore", "chores":
		return "/api/chores/executions/" + escaped + "/undo", nil
	case "battery", "batteries":
		return "/api/batteries/charge-cycles/" + escaped + "/undo", nil
	case "task", "tasks":
		return "/api/tasks/" + escaped + "/undo", nil
	}
	return "", fmt.Errorf("Unsupported entity type: %s", entityType) //nolint:staticcheck // user-facing message
}

// Undo reverts a chore execution, battery charge cycle or task completion.
// Unsupported entity types fail before any request is made.
func (c *Client) Undo(ctx context.Context, entityType, id string) (any, error) {
	path, err := UndoPath(entityType, id)
	if err != nil {
		return nil, err
	}
	data, err := c.Call(ctx, http.MethodPost, path, nil)
	if err != nil {
		return nil, fmt.Errorf("Failed to undo %s action: %w", entityType, err) //nolint:staticcheck // user-facing message
	}
	return data, nil
}
