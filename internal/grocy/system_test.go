package grocy

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemVersion(t *testing.T) {
	var path string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"grocy_version":{"Version":"4.2.0","ReleaseDate":"2024-04-01"},"php_version":"8.3.0","sqlite_version":"3.45.1"}`))
	}, nil)

	compat, err := c.SystemVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/system/info", path)
	assert.Equal(t, "4.2.0", compat.Version)
	assert.True(t, compat.IsCompatible)
	assert.Empty(t, compat.CriticalIssues)
}

func TestSystemVersion_MissingVersion(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"php_version":"8.3.0"}`))
	}, nil)

	_, err := c.SystemVersion(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grocy_version")
}

func TestSystemVersion_UpstreamError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error_message":"unauthorized"}`))
	}, nil)

	_, err := c.SystemVersion(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamHTTP)
	assert.Contains(t, err.Error(), "API error (401)")
}
