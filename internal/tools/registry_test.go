package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/mongobridge/tool-service/internal/domain/errors"
)

func noopHandler(ctx context.Context, params json.RawMessage) Result {
	return Success(nil)
}

func TestRegistry_RegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry(zerolog.Nop())

	require.NoError(t, r.Register(Tool{Name: "mongodb_ping", Handler: noopHandler}))
	err := r.Register(Tool{Name: "mongodb_ping", Handler: noopHandler})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_RegisterRejectsInvalidTools(t *testing.T) {
	r := NewRegistry(zerolog.Nop())

	assert.Error(t, r.Register(Tool{Name: "", Handler: noopHandler}))
	assert.Error(t, r.Register(Tool{Name: "mongodb_ping"}))
}

func TestRegistry_ListIsSorted(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Register(Tool{Name: name, Handler: noopHandler}))
	}

	infos := r.List()
	require.Len(t, infos, 3)
	assert.Equal(t, "alpha", infos[0].Name)
	assert.Equal(t, "mid", infos[1].Name)
	assert.Equal(t, "zeta", infos[2].Name)
}

func TestRegistry_InvokeUnknownTool(t *testing.T) {
	r := NewRegistry(zerolog.Nop())

	result := r.Invoke(context.Background(), "mongodb_nope", nil)
	requireErrorCode(t, result, domainerrors.ErrCodeNotFound)
}

func TestRegistry_InvokeRecoversPanics(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	require.NoError(t, r.Register(Tool{
		Name: "mongodb_boom",
		Handler: func(ctx context.Context, params json.RawMessage) Result {
			panic("unexpected state")
		},
	}))

	result := r.Invoke(context.Background(), "mongodb_boom", nil)
	requireErrorCode(t, result, domainerrors.ErrCodeOperationFailed)
	assert.Contains(t, result["error"], "internal error")
}

func TestRegistry_FullCatalogueRegisters(t *testing.T) {
	r, _ := newCatalogue(t, nil)

	infos := r.List()
	names := make(map[string]bool, len(infos))
	for _, info := range infos {
		names[info.Name] = true
	}

	for _, want := range []string{
		"mongodb_configure_connection", "mongodb_test_connection",
		"mongodb_get_connection_status", "mongodb_disconnect",
		"mongodb_list_databases", "mongodb_get_database_info",
		"mongodb_create_database", "mongodb_drop_database",
		"mongodb_list_collections", "mongodb_create_collection",
		"mongodb_drop_collection", "mongodb_rename_collection",
		"mongodb_validate_collection", "mongodb_get_collection_info",
		"mongodb_count_documents", "mongodb_aggregate",
		"mongodb_list_documents", "mongodb_get_document",
		"mongodb_insert_document", "mongodb_update_document",
		"mongodb_delete_document",
		"mongodb_list_indexes", "mongodb_create_index", "mongodb_drop_index",
		"mongodb_get_server_status", "mongodb_get_system_stats",
		"mongodb_get_server_health", "mongodb_get_performance_metrics",
	} {
		assert.Truef(t, names[want], "missing tool %s", want)
	}
	assert.Len(t, infos, 28)
}
