package tools

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mongobridge/tool-service/internal/conn"
	"github.com/mongobridge/tool-service/internal/core/docdb"
	"github.com/mongobridge/tool-service/internal/core/docdb/docdbtest"
	"github.com/mongobridge/tool-service/internal/domain/models"
)

// newCatalogue builds a fully registered tool catalogue backed by the fake
// client. The connection is not configured; tests that need one call
// configure(t, ...) first.
func newCatalogue(t *testing.T, client *docdbtest.FakeClient) (*Registry, *conn.Registry) {
	t.Helper()

	dial := func(ctx context.Context, uri string, maxPoolSize uint64) (docdb.Client, error) {
		return client, nil
	}
	connections := conn.NewRegistry(dial, zerolog.Nop())

	r := NewRegistry(zerolog.Nop())
	require.NoError(t, RegisterConnectionTools(r, connections, nil, zerolog.Nop()))
	require.NoError(t, RegisterDatabaseTools(r, connections))
	require.NoError(t, RegisterCollectionTools(r, connections))
	require.NoError(t, RegisterDocumentTools(r, connections))
	require.NoError(t, RegisterIndexTools(r, connections))
	require.NoError(t, RegisterStatsTools(r, connections, nil, time.Minute, zerolog.Nop()))
	return r, connections
}

func configure(t *testing.T, connections *conn.Registry) {
	t.Helper()
	_, err := connections.Configure(context.Background(), models.ConnectionConfig{})
	require.NoError(t, err)
}

func invoke(t *testing.T, r *Registry, name string, params map[string]any) Result {
	t.Helper()
	var raw json.RawMessage
	if params != nil {
		b, err := json.Marshal(params)
		require.NoError(t, err)
		raw = b
	}
	return r.Invoke(context.Background(), name, raw)
}

func requireSuccess(t *testing.T, result Result) {
	t.Helper()
	require.Equalf(t, "success", result["status"], "unexpected envelope: %v", result)
}

func requireErrorCode(t *testing.T, result Result, code string) {
	t.Helper()
	require.Equal(t, "error", result["status"])
	require.Equalf(t, code, result["code"], "unexpected envelope: %v", result)
}
