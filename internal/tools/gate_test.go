package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mongobridge/tool-service/internal/conn"
	"github.com/mongobridge/tool-service/internal/core/docdb"
	"github.com/mongobridge/tool-service/internal/core/docdb/docdbtest"
	domainerrors "github.com/mongobridge/tool-service/internal/domain/errors"
)

func TestGated_NoHandleReturnsSuggestion(t *testing.T) {
	client := docdbtest.NewClient()
	_, connections := newCatalogue(t, client)

	entered := false
	handler := Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
		entered = true
		return nil, nil
	})

	result := handler(context.Background(), nil)
	requireErrorCode(t, result, domainerrors.ErrCodeNotConfigured)
	assert.NotEmpty(t, result["suggestion"])
	assert.Contains(t, result["error"], "connection")

	// The operation body never ran and the driver was never touched.
	assert.False(t, entered)
	assert.Zero(t, client.Ops())
}

func TestGated_EveryConnectionToolIsGated(t *testing.T) {
	client := docdbtest.NewClient()
	r, _ := newCatalogue(t, client)

	for _, info := range r.List() {
		if !info.RequiresConnection {
			continue
		}
		result := invoke(t, r, info.Name, map[string]any{
			"database_name":   "app",
			"collection_name": "users",
		})
		requireErrorCode(t, result, domainerrors.ErrCodeNotConfigured)
	}
	assert.Zero(t, client.Ops())
}

func TestGated_ListCollectionsWithoutConfigure(t *testing.T) {
	r, _ := newCatalogue(t, docdbtest.NewClient())

	result := invoke(t, r, "mongodb_list_collections", map[string]any{"database_name": "app"})
	require.Equal(t, "error", result["status"])
	assert.Contains(t, result["error"], "connection")
}

func TestGated_OperationErrorBecomesEnvelope(t *testing.T) {
	client := docdbtest.NewClient()
	client.Seed("app", "users")
	_, connections := newCatalogue(t, client)
	configure(t, connections)

	handler := Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
		return nil, errors.New("cursor exhausted")
	})

	result := handler(context.Background(), nil)
	requireErrorCode(t, result, domainerrors.ErrCodeOperationFailed)
}

func TestPlain_WrapsSuccessAndFailure(t *testing.T) {
	ok := Plain(func(ctx context.Context, params json.RawMessage) (map[string]any, error) {
		return map[string]any{"value": 42}, nil
	})
	result := ok(context.Background(), nil)
	requireSuccess(t, result)
	assert.Equal(t, 42, result["value"])

	bad := Plain(func(ctx context.Context, params json.RawMessage) (map[string]any, error) {
		return nil, domainerrors.NewValidationError("bad input")
	})
	result = bad(context.Background(), nil)
	requireErrorCode(t, result, domainerrors.ErrCodeValidation)
}

func TestGated_HandleReachesOperation(t *testing.T) {
	client := docdbtest.NewClient()
	client.Seed("app", "users", map[string]any{"name": "a"})
	_, connections := newCatalogue(t, client)
	configure(t, connections)

	handler := Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
		names, err := conn.Query(ctx, h, func(ctx context.Context, client docdb.Client) ([]string, error) {
			return client.ListDatabaseNames(ctx)
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{"names": names}, nil
	})

	result := handler(context.Background(), nil)
	requireSuccess(t, result)
	assert.Contains(t, result["names"], "app")
}
