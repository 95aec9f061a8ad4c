package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mongobridge/tool-service/internal/conn"
	"github.com/mongobridge/tool-service/internal/core/docdb"
	"github.com/mongobridge/tool-service/internal/core/docdb/docdbtest"
	"github.com/mongobridge/tool-service/internal/domain/models"
)

func newHealthRouter(t *testing.T, client *docdbtest.FakeClient) (*gin.Engine, *conn.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dial := func(ctx context.Context, uri string, maxPoolSize uint64) (docdb.Client, error) {
		return client, nil
	}
	connections := conn.NewRegistry(dial, zerolog.Nop())

	h := NewHealthHandler(connections, nil)
	router := gin.New()
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	router.GET("/live", h.Live)
	return router, connections
}

func TestHealth_NotConfiguredIsHealthy(t *testing.T) {
	router, _ := newHealthRouter(t, docdbtest.NewClient())

	w, body := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])

	components := body["components"].(map[string]any)
	assert.Equal(t, "not_configured", components["docdb"])
	assert.Equal(t, "disabled", components["cache"])
}

func TestHealth_ConnectedAndHealthy(t *testing.T) {
	client := docdbtest.NewClient()
	router, connections := newHealthRouter(t, client)

	_, err := connections.Configure(context.Background(), models.ConnectionConfig{})
	require.NoError(t, err)

	w, body := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	components := body["components"].(map[string]any)
	assert.Equal(t, "healthy", components["docdb"])
}

func TestHealth_BrokenConnectionIsUnhealthy(t *testing.T) {
	client := docdbtest.NewClient()
	router, connections := newHealthRouter(t, client)

	_, err := connections.Configure(context.Background(), models.ConnectionConfig{})
	require.NoError(t, err)
	client.PingErr = errors.New("server selection timeout")

	w, body := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unhealthy", body["status"])
}

func TestReadyAndLive(t *testing.T) {
	router, _ := newHealthRouter(t, docdbtest.NewClient())

	for path, want := range map[string]string{"/ready": "ready", "/live": "alive"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), want)
	}
}
