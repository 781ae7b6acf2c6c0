package grocy

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUndo_Endpoints(t *testing.T) {
	tests := []struct {
		entity string
		id     string
		want   string
	}{
		{"chores", "42", "/api/chores/executions/42/undo"},
		{"chore", "1", "/api/chores/executions/1/undo"},
		{"Batteries", "7", "/api/batteries/charge-cycles/7/undo"},
		{"battery", "7", "/api/batteries/charge-cycles/7/undo"},
		{"tasks", "3", "/api/tasks/3/undo"},
		{"TASK", "3", "/api/tasks/3/undo"},
	}
	for _, tt := range tests {
		t.Run(tt.entity, func(t *testing.T) {
			var calls []string
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls = append(calls, r.Method+" "+r.URL.Path)
				w.WriteHeader(http.StatusNoContent)
			}, nil)

			data, err := c.Undo(context.Background(), tt.entity, tt.id)
			require.NoError(t, err)
			assert.Nil(t, data)
			assert.Equal(t, []string{"POST " + tt.want}, calls)
		})
	}
}

func TestUndo_UnsupportedMakesNoCall(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	}, nil)

	_, err := c.Undo(context.Background(), "unsupported", "1")
	require.Error(t, err)
	assert.Equal(t, "Unsupported entity type: unsupported", err.Error())
	assert.Equal(t, 0, calls)
}

func TestUndo_UpstreamFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_message":"not found"}`))
	}, nil)

	_, err := c.Undo(context.Background(), "tasks", "9")
	require.Error(t, err)
	assert.Equal(t, `Failed to undo tasks action: API error (400): {"error_message":"not found"}`, err.Error())
	assert.ErrorIs(t, err, ErrUpstreamHTTP)
}
