package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mongobridge/tool-service/internal/conn"
	"github.com/mongobridge/tool-service/internal/core/docdb"
	"github.com/mongobridge/tool-service/internal/core/docdb/docdbtest"
	"github.com/mongobridge/tool-service/internal/tools"
)

func newToolsRouter(t *testing.T, client *docdbtest.FakeClient) (*gin.Engine, *conn.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dial := func(ctx context.Context, uri string, maxPoolSize uint64) (docdb.Client, error) {
		return client, nil
	}
	connections := conn.NewRegistry(dial, zerolog.Nop())

	registry := tools.NewRegistry(zerolog.Nop())
	require.NoError(t, tools.RegisterConnectionTools(registry, connections, nil, zerolog.Nop()))
	require.NoError(t, tools.RegisterDatabaseTools(registry, connections))
	require.NoError(t, tools.RegisterCollectionTools(registry, connections))
	require.NoError(t, tools.RegisterDocumentTools(registry, connections))
	require.NoError(t, tools.RegisterIndexTools(registry, connections))
	require.NoError(t, tools.RegisterStatsTools(registry, connections, nil, time.Minute, zerolog.Nop()))

	h := NewToolsHandler(registry)
	router := gin.New()
	router.GET("/tools", h.List)
	router.POST("/tools/:name", h.Invoke)
	return router, connections
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	return w, decoded
}

func TestToolsList(t *testing.T) {
	router, _ := newToolsRouter(t, docdbtest.NewClient())

	w, body := doJSON(t, router, http.MethodGet, "/tools", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(28), body["count"])
}

func TestInvoke_UnknownToolIs404Envelope(t *testing.T) {
	router, _ := newToolsRouter(t, docdbtest.NewClient())

	w, body := doJSON(t, router, http.MethodPost, "/tools/mongodb_nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestInvoke_GatedToolWithoutConnectionIs200Envelope(t *testing.T) {
	router, _ := newToolsRouter(t, docdbtest.NewClient())

	w, body := doJSON(t, router, http.MethodPost, "/tools/mongodb_list_databases", nil)

	// Tool-level failures keep HTTP 200; the envelope carries the error.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "NOT_CONFIGURED", body["code"])
	assert.NotEmpty(t, body["suggestion"])
}

func TestInvoke_EndToEnd(t *testing.T) {
	client := docdbtest.NewClient()
	client.Seed("app", "users", map[string]any{"name": "alice"})
	router, _ := newToolsRouter(t, client)

	w, body := doJSON(t, router, http.MethodPost, "/tools/mongodb_configure_connection", map[string]any{
		"host": "localhost",
		"port": 27017,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "success", body["status"])

	w, body = doJSON(t, router, http.MethodPost, "/tools/mongodb_list_databases", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(1), body["count"])
}

func TestInvoke_PasswordNeverEchoed(t *testing.T) {
	router, _ := newToolsRouter(t, docdbtest.NewClient())

	w, _ := doJSON(t, router, http.MethodPost, "/tools/mongodb_configure_connection", map[string]any{
		"host":     "localhost",
		"port":     27017,
		"username": "admin",
		"password": "supersecret",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "supersecret")
}
