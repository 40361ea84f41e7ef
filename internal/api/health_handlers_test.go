package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck_EmptyIndexIsDegraded(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	decodeData(t, resp, &health)

	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "healthy", health.Components["database"].Status)
	assert.Equal(t, "degraded", health.Components["search"].Status)
	assert.Equal(t, "search index empty", health.Components["search"].Message)
	assert.Equal(t, "healthy", health.Components["sse"].Status)
	assert.Equal(t, "no connected clients", health.Components["sse"].Message)
}

func TestHealthCheck_Healthy(t *testing.T) {
	ts := setupTestServer(t)
	owner := ts.signUp(t, "ada")
	ts.createList(t, owner.AccessToken, "Learn Go", true)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	decodeData(t, resp, &health)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "1 public lists indexed", health.Components["search"].Message)
	assert.NotEmpty(t, health.Components["database"].Latency)
}

func TestHealthCheck_DatabaseDown(t *testing.T) {
	ts := setupTestServer(t)
	require.NoError(t, ts.store.Close())

	health := ts.checkDatabase(context.Background())

	assert.Equal(t, "unhealthy", health.Status)
	assert.Equal(t, "database ping failed", health.Message)
}

func TestHealthCheck_NotConfigured(t *testing.T) {
	s := &Server{}

	assert.Equal(t, "degraded", s.checkDatabase(context.Background()).Status)
	assert.Equal(t, "degraded", s.checkSearchIndex().Status)
	assert.Equal(t, "degraded", s.checkSSEManager().Status)
}

func TestFormatSSEStatus(t *testing.T) {
	assert.Equal(t, "no connected clients", formatSSEStatus(0))
	assert.Equal(t, "1 connected client", formatSSEStatus(1))
	assert.Equal(t, "12 connected clients", formatSSEStatus(12))
}
